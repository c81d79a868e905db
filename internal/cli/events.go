package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mcoot/holdem/internal/model"
)

func newWatchCmd() *cobra.Command {
	var opts JoinOptions

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Take a seat and stream the table's messages",
		Long: `Connect to the game websocket and print every message as it arrives.

The connection takes a seat like any other player but never acts; play
continues once it disconnects. Without --table the server quick-seats you
at a waiting table.

Messages are:
  - welcome: You have been seated
  - gameState: The table changed
  - winner: A pot was awarded
  - chat: A player said something
  - error: The server rejected something you sent

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return streamEvents(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.TableID, "table", "", "Table to join (default: quick seat)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Password for a private table")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Player name (default: server generated)")

	return cmd
}

// EventLine is one received frame in --output json mode
type EventLine struct {
	Time    time.Time         `json:"time"`
	Type    model.MessageType `json:"type"`
	Payload json.RawMessage   `json:"payload"`
}

func streamEvents(w io.Writer, opts JoinOptions) error {
	wsURL, err := cfg.WebsocketURL(opts)
	if err != nil {
		return err
	}

	// Set up cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := DialStream(ctx, wsURL)
	if err != nil {
		return err
	}

	// Closing the stream unblocks Next
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
			_ = stream.Close()
		case <-ctx.Done():
		}
	}()
	defer func() { _ = stream.Close() }()

	out := NewOutputTo(cfg.Output, w)
	printer := &framePrinter{w: w, verbose: cfg.Verbose}

	for {
		frame, err := stream.Next()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrStreamClosed) {
				if !out.JSON() {
					fmt.Fprintln(w, "Disconnected")
				}
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}

		if out.JSON() {
			data, _ := json.Marshal(EventLine{Time: time.Now(), Type: frame.Type, Payload: frame.Payload})
			fmt.Fprintln(w, string(data))
			continue
		}
		if err := printer.print(frame); err != nil {
			return err
		}
	}
}

// framePrinter renders frames for a human reader
type framePrinter struct {
	w       io.Writer
	verbose bool
	me      model.PlayerID
}

func (p *framePrinter) print(frame Frame) error {
	switch frame.Type {
	case model.MessageWelcome:
		var welcome model.WelcomePayload
		if err := frame.Decode(&welcome); err != nil {
			return err
		}
		p.me = welcome.PlayerID
		fmt.Fprintln(p.w, pterm.Info.Sprintf("Seated as %s (%s) at table %s", welcome.PlayerName, welcome.PlayerID, welcome.GameID))

	case model.MessageGameState:
		var view model.GameView
		if err := frame.Decode(&view); err != nil {
			return err
		}
		fmt.Fprint(p.w, RenderGameView(view, p.me))
		if view.YourTurn {
			fmt.Fprintln(p.w, pterm.LightYellow("Your turn"))
		}

	case model.MessageWinner:
		var payout model.Payout
		if err := frame.Decode(&payout); err != nil {
			return err
		}
		fmt.Fprintln(p.w, pterm.Success.Sprint(WinnerLine(payout)))

	case model.MessageChat:
		var chat model.ChatPayload
		if err := frame.Decode(&chat); err != nil {
			return err
		}
		fmt.Fprintf(p.w, "[%s] %s\n", pterm.LightCyan(chat.PlayerName), chat.Message)

	case model.MessageError:
		var e model.ErrorPayload
		if err := frame.Decode(&e); err != nil {
			return err
		}
		fmt.Fprintln(p.w, pterm.Warning.Sprint(e.Message))

	default:
		if p.verbose {
			fmt.Fprintf(p.w, "%s: %s\n", frame.Type, string(frame.Payload))
		}
	}
	return nil
}

// WinnerLine describes a payout
func WinnerLine(p model.Payout) string {
	if p.HandRank == model.HandRankUncontested {
		return fmt.Sprintf("%s wins %d uncontested", p.PlayerName, p.Amount)
	}
	return fmt.Sprintf("%s wins %d with %s (%s)", p.PlayerName, p.Amount, p.HandRank, FormatCards(p.Hand))
}
