package ui

import (
	"errors"
	"fmt"
	"io"
)

// Display is a surface that shows readouts.
type Display interface {
	Render(Readout) error
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(Readout) error

func (f DisplayFunc) Render(r Readout) error { return f(r) }

// MultiDisplay renders to every display and joins their errors.
type MultiDisplay []Display

func (m MultiDisplay) Render(r Readout) error {
	var errs []error
	for _, d := range m {
		if err := d.Render(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// TextDisplay writes a plain text block per readout.
type TextDisplay struct {
	W io.Writer
}

func (d TextDisplay) Render(r Readout) error {
	_, err := fmt.Fprintf(d.W,
		"%s  [%s]\n"+
			"  tick value      %s\n"+
			"  tick size       %s\n"+
			"  contracts       %s\n"+
			"  risk/contract   %s\n"+
			"  total risk      %s\n"+
			"  fees            %s\n"+
			"  net loss        %s\n",
		r.Label, r.Theme,
		r.TickValue, r.TickSize,
		r.Contracts, r.RiskPerContract, r.TotalRisk, r.TotalFees, r.NetLoss,
	)
	return err
}
