package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	var opts JoinOptions

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play at a table in a terminal UI",
		Long: `Take a seat and play from the terminal.

Keys:
  f  fold        k  check       c  call
  b  bet         r  raise       (type the amount, then enter)
  t  chat        q  quit

Without --table the server quick-seats you at a waiting table.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			wsURL, err := cfg.WebsocketURL(opts)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			stream, err := DialStream(ctx, wsURL)
			if err != nil {
				return err
			}
			defer func() { _ = stream.Close() }()

			program := tea.NewProgram(NewPlayModel(stream), tea.WithAltScreen(), tea.WithContext(ctx))
			final, err := program.Run()
			if err != nil {
				return fmt.Errorf("terminal UI failed: %w", err)
			}
			if m, ok := final.(PlayModel); ok && m.err != nil && m.done {
				return m.err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.TableID, "table", "", "Table to join (default: quick seat)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Password for a private table")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Player name (default: server generated)")

	return cmd
}
