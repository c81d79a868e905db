package lobby

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/holdem/internal/dependencies/clock"
	"github.com/mcoot/holdem/internal/dependencies/random"
	"github.com/mcoot/holdem/internal/model"
	"github.com/mcoot/holdem/internal/storage"
)

const (
	// TableIDLength is the length of generated table ids
	TableIDLength = 8

	// MaxTableNameLength is the longest accepted table name, in characters
	MaxTableNameLength = 40

	maxIDAttempts = 10
)

// CreateTableParams describes a table to open
type CreateTableParams struct {
	Name     string
	Settings model.TableSettings
	Password string
}

// Controller maintains the table directory that players search when joining
type Controller struct {
	storage  storage.Storage
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
	defaults model.TableSettings
}

// NewController creates a new lobby Controller. Quick-seat tables are opened
// with the given default settings.
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
	defaults model.TableSettings,
) *Controller {
	return &Controller{
		storage:  storage,
		clock:    clock,
		random:   random,
		logger:   logger,
		defaults: defaults,
	}
}

// Defaults returns the settings used for quick-seat tables
func (c *Controller) Defaults() model.TableSettings {
	return c.defaults
}

// CreateTable validates params and adds a new waiting table to the directory
func (c *Controller) CreateTable(ctx context.Context, params CreateTableParams) (*model.Table, error) {
	if err := params.Settings.Validate(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(params.Name)
	if utf8.RuneCountInString(name) > MaxTableNameLength {
		return nil, model.ErrInvalidTableName
	}

	id, err := c.newTableID(ctx)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = "Table " + string(id)
	}

	now := c.clock.Now()
	table := &model.Table{
		ID:        id,
		Name:      name,
		Settings:  params.Settings,
		State:     model.GameStateWaiting,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if params.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		table.Private = true
		table.PasswordHash = string(hash)
	}

	if err := c.storage.SaveTable(ctx, table); err != nil {
		c.logger.Error("failed to save table",
			slog.String("game_id", string(id)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("table created",
		slog.String("game_id", string(id)),
		slog.String("name", name),
		slog.Bool("private", table.Private),
		slog.Int("small_blind", table.Settings.SmallBlind),
		slog.Int("big_blind", table.Settings.BigBlind),
	)
	return table, nil
}

func (c *Controller) newTableID(ctx context.Context) (model.GameID, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := model.GameID(c.random.String(TableIDLength, random.Alphanumeric))
		if id == "" {
			continue
		}
		exists, err := c.storage.TableExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("no free table id after %d attempts", maxIDAttempts)
}

// GetTable retrieves a table by id
func (c *Controller) GetTable(ctx context.Context, id model.GameID) (*model.Table, error) {
	return c.storage.GetTable(ctx, id)
}

// ListTables returns every public table, oldest first
func (c *Controller) ListTables(ctx context.Context) ([]*model.Table, error) {
	tables, err := c.storage.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	public := make([]*model.Table, 0, len(tables))
	for _, t := range tables {
		if !t.Private {
			public = append(public, t)
		}
	}
	return public, nil
}

// FindOrCreateWaiting returns the oldest public table that is waiting for
// players and has a free seat, opening a new one with the default settings
// when there is none
func (c *Controller) FindOrCreateWaiting(ctx context.Context) (*model.Table, error) {
	tables, err := c.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		if t.Joinable() {
			return t, nil
		}
	}
	return c.CreateTable(ctx, CreateTableParams{Settings: c.defaults})
}

// Authorize checks password against a private table's hash. Public tables
// accept any password.
func (c *Controller) Authorize(table *model.Table, password string) error {
	if !table.Private {
		return nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(table.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return model.ErrInvalidPassword
	}
	return err
}

// UpdateStatus writes the live state and seat count of table. The record
// is saved whole, so a table removed while its game was being reopened is
// listed again.
func (c *Controller) UpdateStatus(ctx context.Context, table model.Table, state model.GameState, playerCount int) error {
	table.State = state
	table.PlayerCount = playerCount
	table.UpdatedAt = c.clock.Now()
	return c.storage.SaveTable(ctx, &table)
}

// DeleteTable removes a table and its hand history
func (c *Controller) DeleteTable(ctx context.Context, id model.GameID) error {
	if err := c.storage.DeleteTable(ctx, id); err != nil {
		return err
	}
	c.logger.Info("table removed", slog.String("game_id", string(id)))
	return nil
}
