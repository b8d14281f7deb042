package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rustyeddy/sizer/session"
)

// ErrUnknownEvent is returned by ParseEvent for an unrecognized kind.
var ErrUnknownEvent = errors.New("unknown event")

// Event kinds as they appear on the wire and on the session command line.
const (
	KindContract   = "contract"
	KindRisk       = "risk"
	KindStop       = "stop"
	KindCommission = "comm"
	KindTheme      = "theme"
)

// Event is one discrete user input.
type Event interface {
	Kind() string
	apply(ctx context.Context, c *session.Controller) error
}

// SelectContract picks an instrument by symbol.
type SelectContract struct{ Symbol string }

// EditRisk, EditStop and EditCommission carry the raw text of a field edit.
type EditRisk struct{ Text string }
type EditStop struct{ Text string }
type EditCommission struct{ Text string }

// ToggleTheme flips light/dark.
type ToggleTheme struct{}

func (SelectContract) Kind() string { return KindContract }
func (EditRisk) Kind() string       { return KindRisk }
func (EditStop) Kind() string       { return KindStop }
func (EditCommission) Kind() string { return KindCommission }
func (ToggleTheme) Kind() string    { return KindTheme }

func (e SelectContract) apply(ctx context.Context, c *session.Controller) error {
	return c.SelectContract(ctx, e.Symbol)
}

func (e EditRisk) apply(ctx context.Context, c *session.Controller) error {
	return c.SetRisk(ctx, e.Text)
}

func (e EditStop) apply(ctx context.Context, c *session.Controller) error {
	return c.SetStop(ctx, e.Text)
}

func (e EditCommission) apply(ctx context.Context, c *session.Controller) error {
	return c.SetCommission(ctx, e.Text)
}

func (ToggleTheme) apply(ctx context.Context, c *session.Controller) error {
	return c.ToggleTheme(ctx)
}

// ParseEvent builds an event from a kind and its payload. Field text is kept
// verbatim; contract symbols are upper-cased.
func ParseEvent(kind, value string) (Event, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindContract:
		return SelectContract{Symbol: strings.ToUpper(strings.TrimSpace(value))}, nil
	case KindRisk:
		return EditRisk{Text: value}, nil
	case KindStop:
		return EditStop{Text: value}, nil
	case KindCommission, "commission":
		return EditCommission{Text: value}, nil
	case KindTheme:
		return ToggleTheme{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, kind)
}
