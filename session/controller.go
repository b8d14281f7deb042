// Package session owns the calculator's mutable state: the selected contract,
// the three raw numeric fields and the theme. Every transition persists the
// full state.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rustyeddy/sizer/contracts"
	"github.com/rustyeddy/sizer/risk"
	"github.com/rustyeddy/sizer/settings"
)

// ErrUnknownContract is returned when a selection names a symbol the catalog
// does not have. The selection is ignored.
var ErrUnknownContract = errors.New("unknown contract")

// Controller is not safe for concurrent use; callers serialize events.
type Controller struct {
	catalog *contracts.Catalog
	store   settings.Store
	key     string
	log     *slog.Logger

	state    settings.Settings
	contract contracts.Spec
}

type Option func(*Controller)

// WithKey overrides the store key.
func WithKey(key string) Option {
	return func(c *Controller) { c.key = key }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// New returns a controller holding the default state. Call Restore to load the
// persisted state.
func New(catalog *contracts.Catalog, store settings.Store, opts ...Option) *Controller {
	c := &Controller{
		catalog: catalog,
		store:   store,
		key:     settings.Key,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.reset()
	return c
}

func (c *Controller) reset() {
	c.contract = c.catalog.First()
	c.state = settings.Defaults(c.contract.Symbol)
}

// Restore loads the persisted state. A missing or corrupt record yields the
// defaults; a record naming an unknown contract falls back to the first
// catalog entry. It never fails.
func (c *Controller) Restore(ctx context.Context) settings.Settings {
	s, err := settings.Load(ctx, c.store, c.key)
	if err != nil {
		if !errors.Is(err, settings.ErrNotFound) {
			c.log.Warn("settings unreadable, using defaults", "key", c.key, "err", err)
		}
		c.reset()
		return c.state
	}

	spec, ok := c.catalog.Lookup(s.Contract)
	if !ok {
		c.log.Warn("stored contract not in catalog", "symbol", s.Contract, "fallback", c.catalog.First().Symbol)
		spec = c.catalog.First()
		s.Contract = spec.Symbol
	}
	if !s.Theme.Valid() {
		s.Theme = settings.ThemeDark
	}

	c.contract = spec
	c.state = s
	return c.state
}

// Save overwrites the persisted record with the current state.
func (c *Controller) Save(ctx context.Context) error {
	return settings.Save(ctx, c.store, c.key, c.state)
}

// State returns a copy of the current state.
func (c *Controller) State() settings.Settings {
	return c.state
}

// Contract returns the selected contract.
func (c *Controller) Contract() contracts.Spec {
	return c.contract
}

// Catalog returns the catalog the controller selects from.
func (c *Controller) Catalog() *contracts.Catalog {
	return c.catalog
}

// Inputs coerces the raw fields into sizing inputs.
func (c *Controller) Inputs() risk.Inputs {
	return risk.Inputs{
		RiskBudget: ParseNumber(c.state.Risk),
		StopTicks:  ParseNumber(c.state.Stop),
		Contract:   c.contract,
		Commission: ParseNumber(c.state.Comm),
	}
}

// SelectContract switches instruments. The commission field is always reset
// to the new contract's catalog commission, discarding any manual value.
func (c *Controller) SelectContract(ctx context.Context, symbol string) error {
	spec, ok := c.catalog.Lookup(symbol)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownContract, symbol)
	}
	c.contract = spec
	c.state.Contract = spec.Symbol
	c.state.Comm = FormatNumber(spec.Commission)
	return c.Save(ctx)
}

func (c *Controller) SetRisk(ctx context.Context, text string) error {
	c.state.Risk = text
	return c.Save(ctx)
}

func (c *Controller) SetStop(ctx context.Context, text string) error {
	c.state.Stop = text
	return c.Save(ctx)
}

func (c *Controller) SetCommission(ctx context.Context, text string) error {
	c.state.Comm = text
	return c.Save(ctx)
}

// ToggleTheme flips the theme. Nothing else changes.
func (c *Controller) ToggleTheme(ctx context.Context) error {
	c.state.Theme = c.state.Theme.Toggle()
	return c.Save(ctx)
}
