// Package contracts holds the static futures contract catalog.
package contracts

import (
	"errors"
	"fmt"
)

// Spec describes one tradable futures contract.
type Spec struct {
	Symbol     string  `json:"symbol" yaml:"symbol"`
	Name       string  `json:"name" yaml:"name"`
	TickSize   float64 `json:"tick_size" yaml:"tick_size"`
	TickValue  float64 `json:"tick_value" yaml:"tick_value"`
	Commission float64 `json:"commission" yaml:"commission"` // round trip, per contract
	Group      string  `json:"group" yaml:"group"`
}

// Label is the text shown next to the contract in a picker.
func (s Spec) Label() string {
	return fmt.Sprintf("%s - %s", s.Symbol, s.Name)
}

// Group is a named run of contracts in catalog order.
type Group struct {
	Name      string `json:"name"`
	Contracts []Spec `json:"contracts"`
}

// Catalog is an immutable, ordered set of contracts keyed by symbol.
type Catalog struct {
	specs []Spec
	index map[string]int
}

// New validates specs and builds a catalog that preserves their order.
func New(specs ...Spec) (*Catalog, error) {
	if len(specs) == 0 {
		return nil, errors.New("catalog must not be empty")
	}

	c := &Catalog{
		specs: make([]Spec, len(specs)),
		index: make(map[string]int, len(specs)),
	}
	copy(c.specs, specs)

	for i, s := range c.specs {
		if s.Symbol == "" {
			return nil, fmt.Errorf("contract %d: symbol is required", i)
		}
		if _, dup := c.index[s.Symbol]; dup {
			return nil, fmt.Errorf("duplicate symbol %s", s.Symbol)
		}
		if s.TickSize <= 0 {
			return nil, fmt.Errorf("%s: tick size must be positive", s.Symbol)
		}
		if s.TickValue <= 0 {
			return nil, fmt.Errorf("%s: tick value must be positive", s.Symbol)
		}
		if s.Commission < 0 {
			return nil, fmt.Errorf("%s: commission must not be negative", s.Symbol)
		}
		c.index[s.Symbol] = i
	}
	return c, nil
}

// MustNew is New for package-level catalogs; it panics on invalid input.
func MustNew(specs ...Spec) *Catalog {
	c, err := New(specs...)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of contracts.
func (c *Catalog) Len() int {
	return len(c.specs)
}

// First returns the first contract, which is the default selection.
func (c *Catalog) First() Spec {
	return c.specs[0]
}

// All returns a copy of the catalog in order.
func (c *Catalog) All() []Spec {
	out := make([]Spec, len(c.specs))
	copy(out, c.specs)
	return out
}

// Symbols returns the contract symbols in catalog order.
func (c *Catalog) Symbols() []string {
	out := make([]string, len(c.specs))
	for i, s := range c.specs {
		out[i] = s.Symbol
	}
	return out
}

// Lookup finds a contract by symbol.
func (c *Catalog) Lookup(symbol string) (Spec, bool) {
	i, ok := c.index[symbol]
	if !ok {
		return Spec{}, false
	}
	return c.specs[i], true
}

// Groups partitions the catalog by Group. Groups appear in the order they are
// first seen and contracts keep catalog order inside each group.
func (c *Catalog) Groups() []Group {
	var out []Group
	pos := map[string]int{}
	for _, s := range c.specs {
		i, ok := pos[s.Group]
		if !ok {
			i = len(out)
			pos[s.Group] = i
			out = append(out, Group{Name: s.Group})
		}
		out[i].Contracts = append(out[i].Contracts, s)
	}
	return out
}
