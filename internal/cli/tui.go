package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mcoot/holdem/internal/model"
)

const maxLogLines = 8

// GameConn is the part of a Stream the terminal UI drives
type GameConn interface {
	Next() (Frame, error)
	SendAction(action model.Action) error
	SendChat(text string) error
}

type inputMode int

const (
	modeNormal inputMode = iota
	modeAmount
	modeChat
)

// Messages flowing into the UI
type (
	frameMsg  Frame
	streamMsg struct{ err error }
	sendMsg   struct{ err error }
)

// PlayModel is the bubbletea model behind `holdem play`
type PlayModel struct {
	conn GameConn

	me      model.PlayerID
	name    string
	tableID model.GameID
	view    *model.GameView
	log     []string

	mode    inputMode
	pending model.ActionType
	input   string

	err  error
	done bool
}

// NewPlayModel creates a UI reading frames from conn
func NewPlayModel(conn GameConn) PlayModel {
	return PlayModel{conn: conn}
}

// Init starts reading frames
func (m PlayModel) Init() tea.Cmd {
	return m.waitForFrame()
}

func (m PlayModel) waitForFrame() tea.Cmd {
	conn := m.conn
	return func() tea.Msg {
		frame, err := conn.Next()
		if err != nil {
			return streamMsg{err: err}
		}
		return frameMsg(frame)
	}
}

// Update implements tea.Model
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameMsg:
		m.handleFrame(Frame(msg))
		return m, m.waitForFrame()

	case streamMsg:
		m.done = true
		if msg.err != nil && !errors.Is(msg.err, ErrStreamClosed) {
			m.err = msg.err
		}
		m.addLog("Disconnected from the table. Press q to quit.")
		return m, nil

	case sendMsg:
		m.err = msg.err
		return m, nil
	}
	return m, nil
}

func (m *PlayModel) handleFrame(frame Frame) {
	switch frame.Type {
	case model.MessageWelcome:
		var welcome model.WelcomePayload
		if frame.Decode(&welcome) == nil {
			m.me, m.name, m.tableID = welcome.PlayerID, welcome.PlayerName, welcome.GameID
			m.addLog(fmt.Sprintf("Seated as %s", welcome.PlayerName))
		}
	case model.MessageGameState:
		var view model.GameView
		if frame.Decode(&view) == nil {
			m.view = &view
			m.err = nil
		}
	case model.MessageWinner:
		var payout model.Payout
		if frame.Decode(&payout) == nil {
			m.addLog(WinnerLine(payout))
		}
	case model.MessageChat:
		var chat model.ChatPayload
		if frame.Decode(&chat) == nil {
			m.addLog(fmt.Sprintf("[%s] %s", chat.PlayerName, chat.Message))
		}
	case model.MessageError:
		var e model.ErrorPayload
		if frame.Decode(&e) == nil {
			m.err = errors.New(e.Message)
		}
	}
}

func (m *PlayModel) addLog(line string) {
	m.log = append(m.log, line)
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case modeAmount:
		return m.handleAmountKey(msg)
	case modeChat:
		return m.handleChatKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "f":
		return m, m.act(model.Action{Type: model.ActionFold})
	case "k":
		return m, m.act(model.Action{Type: model.ActionCheck})
	case "c":
		return m, m.act(model.Action{Type: model.ActionCall})
	case "b":
		m.mode, m.pending, m.input = modeAmount, model.ActionBet, ""
	case "r":
		m.mode, m.pending, m.input = modeAmount, model.ActionRaise, ""
	case "t":
		m.mode, m.input = modeChat, ""
	}
	return m, nil
}

func (m PlayModel) handleAmountKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode, m.input = modeNormal, ""
	case tea.KeyBackspace:
		m.input = trimLastRune(m.input)
	case tea.KeyEnter:
		amount, err := strconv.Atoi(m.input)
		if err != nil || amount <= 0 {
			m.err = errors.New("enter a positive amount")
			return m, nil
		}
		action := model.Action{Type: m.pending, Amount: amount}
		m.mode, m.input = modeNormal, ""
		return m, m.act(action)
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if r >= '0' && r <= '9' {
				m.input += string(r)
			}
		}
	}
	return m, nil
}

func (m PlayModel) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode, m.input = modeNormal, ""
	case tea.KeyBackspace:
		m.input = trimLastRune(m.input)
	case tea.KeyEnter:
		text := strings.TrimSpace(m.input)
		m.mode, m.input = modeNormal, ""
		if text == "" {
			return m, nil
		}
		conn := m.conn
		return m, func() tea.Msg { return sendMsg{err: conn.SendChat(text)} }
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		if utf8.RuneCountInString(m.input)+len(msg.Runes) <= model.MaxChatLength {
			m.input += string(msg.Runes)
		}
	}
	return m, nil
}

func (m PlayModel) act(action model.Action) tea.Cmd {
	if m.done {
		return nil
	}
	conn := m.conn
	return func() tea.Msg { return sendMsg{err: conn.SendAction(action)} }
}

func trimLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

// View implements tea.Model
func (m PlayModel) View() string {
	var b strings.Builder

	header := "Connecting..."
	if m.tableID != "" {
		header = fmt.Sprintf("Table %s - playing as %s", m.tableID, m.name)
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	if m.view != nil {
		b.WriteString(m.renderTable())
		b.WriteString("\n")
	}

	for _, line := range m.log {
		b.WriteString(logStyle.Render(line))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	switch m.mode {
	case modeAmount:
		b.WriteString(promptStyle.Render(fmt.Sprintf("%s amount: %s_", m.pending, m.input)))
		b.WriteString(helpStyle.Render("\nenter: confirm  esc: cancel"))
	case modeChat:
		b.WriteString(promptStyle.Render("say: " + m.input + "_"))
		b.WriteString(helpStyle.Render("\nenter: send  esc: cancel"))
	default:
		b.WriteString(helpStyle.Render("f: fold  k: check  c: call  b: bet  r: raise  t: chat  q: quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m PlayModel) renderTable() string {
	v := m.view

	state := strings.ToUpper(string(v.State))
	if v.YourTurn {
		state += " - your turn"
	}
	board := lipgloss.JoinHorizontal(lipgloss.Center,
		renderCards(v.CommunityCards, 0),
		potStyle.Render(fmt.Sprintf("Pot %d", v.Pot)),
	)

	seats := make([]string, len(v.Players))
	for i, p := range v.Players {
		seats[i] = m.renderSeat(i, p)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		state,
		fmt.Sprintf("Blinds %d/%d", v.SmallBlind, v.BigBlind),
		board,
		lipgloss.JoinHorizontal(lipgloss.Top, seats...),
	)
}

func (m PlayModel) renderSeat(i int, p model.SeatView) string {
	v := m.view

	name := p.Name
	if i == v.Dealer {
		name += " (D)"
	}
	status := fmt.Sprintf("chips %d", p.Chips)
	if p.Bet > 0 {
		status += fmt.Sprintf("  bet %d", p.Bet)
	}
	if !p.Active {
		status = "away"
	}

	hidden := 0
	if len(p.HoleCards) == 0 && !p.Folded && p.Active && v.State.Betting() {
		hidden = 2
	}
	body := lipgloss.JoinVertical(lipgloss.Left, name, status, renderCards(p.HoleCards, hidden))

	style := seatStyle
	switch {
	case p.Folded || !p.Active:
		style = foldedSeatStyle
	case v.State.Betting() && i == v.CurrentTurn:
		style = currentSeatStyle
	case p.ID == m.me:
		style = yourSeatStyle
	}
	return style.Render(body)
}

// renderCards draws face-up cards followed by hidden face-down ones
func renderCards(cards []model.Card, hidden int) string {
	parts := make([]string, 0, len(cards)+hidden)
	for _, c := range cards {
		style := cardStyle
		if c.Suit.Red() {
			style = redCardStyle
		}
		parts = append(parts, style.Render(c.String()))
	}
	for range hidden {
		parts = append(parts, hiddenCardStyle.Render("??"))
	}
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
