package factory

import (
	"log/slog"
	"time"

	"github.com/mcoot/holdem/internal/dependencies/mocks"
	"github.com/mcoot/holdem/internal/model"
	"github.com/mcoot/holdem/internal/services/coordinator"
	"github.com/mcoot/holdem/internal/storage/memory"
	"github.com/mcoot/holdem/internal/testutil"
)

// TestEpoch is the MockClock start time in every TestApp
var TestEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// TestApp is an in-memory App whose clock and randomness are scripted
type TestApp struct {
	*App

	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// TestOption adjusts a TestApp before it is wired
type TestOption func(*testOptions)

type testOptions struct {
	logger      *slog.Logger
	defaults    model.TableSettings
	coordinator coordinator.Config
}

// WithTestLogger replaces the discarding logger
func WithTestLogger(logger *slog.Logger) TestOption {
	return func(o *testOptions) { o.logger = logger }
}

// WithTestDefaults sets the stakes for quick-seat tables
func WithTestDefaults(settings model.TableSettings) TestOption {
	return func(o *testOptions) { o.defaults = settings }
}

// NewTestApp wires an App on memory storage, a MockClock at TestEpoch and
// an empty MockRandom
func NewTestApp(opts ...TestOption) *TestApp {
	o := testOptions{
		logger:      testutil.NopLogger(),
		defaults:    model.DefaultTableSettings(),
		coordinator: coordinator.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	clk := mocks.NewMockClock(TestEpoch)
	rnd := mocks.NewMockRandom()

	return &TestApp{
		App:        newWithDependencies(memory.New(), clk, rnd, o.defaults, o.coordinator, o.logger),
		MockClock:  clk,
		MockRandom: rnd,
	}
}

// StackDeck makes every new hand deal the given cards first, in order
func (t *TestApp) StackDeck(shorthand string) {
	t.Engine.WithDeckSource(func() *model.Deck { return testutil.StackedDeck(shorthand) })
}
