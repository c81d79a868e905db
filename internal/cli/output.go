package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/mcoot/holdem/internal/api/apierr"
	"github.com/mcoot/holdem/internal/api/response"
	"github.com/mcoot/holdem/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutputTo creates an Output that writes to w
func NewOutputTo(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// JSON reports whether output is machine readable
func (o *Output) JSON() bool {
	return o.format == "json"
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.JSON() {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError reports err, including the server's error code when it has one
func (o *Output) PrintError(err error) {
	var apiErr *APIError
	hasCode := errors.As(err, &apiErr)

	if o.JSON() {
		body := apierr.APIError{Message: err.Error()}
		if hasCode {
			body = apiErr.APIError
		}
		o.printJSON(apierr.ErrorResponse{Error: body})
		return
	}
	fmt.Fprintln(o.w, pterm.Error.Sprint(err.Error()))
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\nGames: %d\n", v.Status, v.Games)
	case response.Table:
		o.printTable(v)
	case response.TableList:
		o.printTableList(v)
	case response.TableDetail:
		o.printTable(v.Table)
		if v.Game != nil {
			fmt.Fprint(o.w, RenderGameView(*v.Game, ""))
		}
	case response.HandList:
		o.printHandList(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printTable(t response.Table) {
	private := "no"
	if t.Private {
		private = "yes"
	}
	fmt.Fprintf(o.w, "Table: %s (%s)\n", t.Name, t.ID)
	fmt.Fprintf(o.w, "State: %s\n", t.State)
	fmt.Fprintf(o.w, "Players: %d/%d\n", t.PlayerCount, t.Settings.MaxPlayers)
	fmt.Fprintf(o.w, "Blinds: %d/%d\n", t.Settings.SmallBlind, t.Settings.BigBlind)
	fmt.Fprintf(o.w, "Starting chips: %d\n", t.Settings.StartingChips)
	fmt.Fprintf(o.w, "Private: %s\n", private)
}

func (o *Output) printTableList(l response.TableList) {
	if len(l.Tables) == 0 {
		fmt.Fprintln(o.w, "No open tables")
		return
	}

	data := pterm.TableData{{"ID", "Name", "Blinds", "Players", "State"}}
	for _, t := range l.Tables {
		data = append(data, []string{
			t.ID,
			t.Name,
			fmt.Sprintf("%d/%d", t.Settings.SmallBlind, t.Settings.BigBlind),
			fmt.Sprintf("%d/%d", t.PlayerCount, t.Settings.MaxPlayers),
			t.State,
		})
	}
	o.render(data)
}

func (o *Output) printHandList(l response.HandList) {
	if len(l.Hands) == 0 {
		fmt.Fprintln(o.w, "No hands played yet")
		return
	}

	data := pterm.TableData{{"Hand", "Board", "Pot", "Winners"}}
	for _, h := range l.Hands {
		winners := make([]string, len(h.Winners))
		for i, p := range h.Winners {
			winners[i] = fmt.Sprintf("%s +%d (%s)", p.PlayerName, p.Amount, p.HandRank)
		}
		data = append(data, []string{
			strconv.Itoa(h.HandNumber),
			FormatCards(h.Board),
			strconv.Itoa(h.Pot),
			strings.Join(winners, ", "),
		})
	}
	o.render(data)
}

func (o *Output) render(data pterm.TableData) {
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		o.printJSON(data)
		return
	}
	fmt.Fprintln(o.w, s)
}

// FormatCards renders cards separated by spaces, or "-" for none
func FormatCards(cards []model.Card) string {
	if len(cards) == 0 {
		return "-"
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// RenderGameView draws a game snapshot as a pterm box. me highlights the
// viewer's seat and may be empty.
func RenderGameView(v model.GameView, me model.PlayerID) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Board: %s\n", FormatCards(v.CommunityCards))
	fmt.Fprintf(&b, "Pot: %d   Blinds: %d/%d\n\n", v.Pot, v.SmallBlind, v.BigBlind)

	for i, p := range v.Players {
		marker := "  "
		if v.State.Betting() && i == v.CurrentTurn {
			marker = "> "
		}
		name := p.Name
		if i == v.Dealer {
			name += " (D)"
		}
		name = fmt.Sprintf("%-24s", name)
		if p.ID == me {
			name = pterm.LightCyan(name)
		}

		status := pterm.LightGreen(fmt.Sprintf("%-8s", "in"))
		switch {
		case !p.Active:
			status = pterm.Gray(fmt.Sprintf("%-8s", "away"))
		case p.Folded:
			status = pterm.LightRed(fmt.Sprintf("%-8s", "folded"))
		}

		cards := "-- --"
		if len(p.HoleCards) > 0 {
			cards = FormatCards(p.HoleCards)
		}
		fmt.Fprintf(&b, "%s%s %s chips %-6d bet %-5d %s\n", marker, name, status, p.Chips, p.Bet, cards)
	}

	title := fmt.Sprintf("|%s %s|", v.ID, strings.ToUpper(string(v.State)))
	return pterm.DefaultBox.WithTitle(pterm.LightYellow(title)).WithTitleTopCenter().Sprint(b.String()) + "\n"
}
