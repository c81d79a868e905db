package cli

import "github.com/spf13/cobra"

func newHandsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "hands <table>",
		Short: "Show a table's recent hands, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.Hands(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}

			out := NewOutputTo(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Number of hands to show (default: server default)")

	return cmd
}
