package model

// PlayerID uniquely identifies a connected player
type PlayerID string

// Seat is one player's place at a game
type Seat struct {
	ID        PlayerID
	Name      string
	HoleCards []Card
	Chips     int
	Bet       int // Chips committed on the current street, not yet in the pot
	Folded    bool
	Active    bool // Connected and participating
}

// NewSeat creates an active seat with the given stack
func NewSeat(id PlayerID, name string, chips int) *Seat {
	return &Seat{
		ID:        id,
		Name:      name,
		HoleCards: make([]Card, 0, 2),
		Chips:     chips,
		Active:    true,
	}
}

// InHand reports whether the seat still contests the pot
func (s *Seat) InHand() bool {
	return s.Active && !s.Folded
}

// CanAct reports whether the seat may take a turn
func (s *Seat) CanAct() bool {
	return s.Active && !s.Folded && s.Chips > 0
}
