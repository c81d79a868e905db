package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/holdem/internal/api/request"
)

func newTablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Table directory commands",
	}

	cmd.AddCommand(newTablesListCmd())
	cmd.AddCommand(newTablesCreateCmd())
	cmd.AddCommand(newTablesGetCmd())

	return cmd
}

func newTablesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List public tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.ListTables(cmd.Context())
			if err != nil {
				return err
			}

			out := NewOutputTo(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newTablesCreateCmd() *cobra.Command {
	var req request.CreateTableRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a new table",
		Long: `Open a new table. Stakes left unset use the server's defaults.
Setting a password makes the table private: it is left out of the public
listing and joining it requires the password.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.CreateTable(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := NewOutputTo(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Table name")
	cmd.Flags().IntVar(&req.SmallBlind, "small-blind", 0, "Small blind (default: server default)")
	cmd.Flags().IntVar(&req.BigBlind, "big-blind", 0, "Big blind (default: server default)")
	cmd.Flags().IntVar(&req.StartingChips, "starting-chips", 0, "Starting chips (default: server default)")
	cmd.Flags().IntVar(&req.MaxPlayers, "max-players", 0, "Seats at the table, 2 to 9 (default: server default)")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password for a private table")

	return cmd
}

func newTablesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a table and its live game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.GetTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := NewOutputTo(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}
