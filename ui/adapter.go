// Package ui turns discrete input events into state transitions, sizes the
// position and pushes a formatted readout to a display surface.
package ui

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/rustyeddy/sizer/metrics"
	"github.com/rustyeddy/sizer/pkg/id"
	"github.com/rustyeddy/sizer/risk"
	"github.com/rustyeddy/sizer/session"
)

// Adapter runs each event to completion (transition, persist, recompute,
// render) before the next one starts.
type Adapter struct {
	mu      sync.Mutex
	ctrl    *session.Controller
	display Display
	log     *slog.Logger
	last    Readout
	seq     uint64
}

func NewAdapter(ctrl *session.Controller, display Display, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	if display == nil {
		display = MultiDisplay{}
	}
	return &Adapter{ctrl: ctrl, display: display, log: log}
}

// Start restores persisted state and renders it.
func (a *Adapter) Start(ctx context.Context) (Readout, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	st := a.ctrl.Restore(ctx)
	a.log.Debug("session restored", "contract", st.Contract, "theme", st.Theme)
	return a.refresh()
}

// Handle applies ev. An unknown contract is ignored: nothing changes and the
// error wraps session.ErrUnknownContract. A failed save is logged and
// returned, but the display is still updated.
func (a *Adapter) Handle(ctx context.Context, ev Event) (Readout, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	evID := id.WithPrefix("ev")
	log := a.log.With("event", evID, "kind", ev.Kind())

	err := ev.apply(ctx, a.ctrl)
	if errors.Is(err, session.ErrUnknownContract) {
		metrics.EventsTotal.WithLabelValues(ev.Kind(), "ignored").Inc()
		log.Warn("selection ignored", "err", err)
		return a.last, err
	}

	outcome := "ok"
	if err != nil {
		outcome = "save_failed"
		metrics.SettingsWriteErrors.Inc()
		log.Error("settings not saved", "err", err)
	}
	metrics.EventsTotal.WithLabelValues(ev.Kind(), outcome).Inc()

	r, rerr := a.refresh()
	if rerr != nil {
		log.Error("render failed", "err", rerr)
	}
	return r, errors.Join(err, rerr)
}

// Current returns the last rendered readout.
func (a *Adapter) Current() Readout {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

// Controller exposes the underlying session for read-only callers.
func (a *Adapter) Controller() *session.Controller {
	return a.ctrl
}

func (a *Adapter) refresh() (Readout, error) {
	res := risk.Calculate(a.ctrl.Inputs())
	metrics.ObserveCalculation(res.Contracts)

	a.seq++
	a.last = NewReadout(a.ctrl.Contract(), a.ctrl.State(), res)
	a.last.Seq = a.seq
	return a.last, a.display.Render(a.last)
}
