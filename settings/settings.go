// Package settings persists the calculator's session state as one record under
// a fixed key in a durable key-value store.
package settings

import (
	"encoding/json"
	"fmt"
)

// Key is the fixed key the settings record lives under.
const Key = "futures-calculator-settings"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle flips between light and dark. Anything else toggles to dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Settings is the persisted session state. Numeric fields are kept as the raw
// text the user typed so that empty or partial input restores exactly.
type Settings struct {
	Contract string `json:"contract" yaml:"contract"`
	Risk     string `json:"risk" yaml:"risk"`
	Stop     string `json:"stop" yaml:"stop"`
	Comm     string `json:"comm" yaml:"comm"`
	Theme    Theme  `json:"theme" yaml:"theme"`
}

// Defaults is the first-use state for a catalog whose first entry is symbol.
func Defaults(symbol string) Settings {
	return Settings{
		Contract: symbol,
		Theme:    ThemeDark,
	}
}

// Encode serializes s in the stored wire layout.
func Encode(s Settings) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return data, nil
}

// Decode parses a stored record.
func Decode(data []byte) (Settings, error) {
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}
