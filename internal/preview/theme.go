// Package preview prints a generated script to a terminal.
package preview

import (
	"log/slog"
	"strings"

	darkmode "github.com/thiagokokada/dark-mode-go"
)

type ThemePreference int

const (
	ThemeAuto ThemePreference = iota
	ThemeLight
	ThemeDark
)

func (p ThemePreference) String() string {
	switch p {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	default:
		return "auto"
	}
}

var detectDarkMode = darkmode.IsDarkMode

// ThemePreferenceFromString parses a --theme value. Unknown values mean auto.
func ThemePreferenceFromString(raw string) ThemePreference {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ThemeDark.String():
		return ThemeDark
	case ThemeLight.String():
		return ThemeLight
	default:
		return ThemeAuto
	}
}

// Dark reports whether output should use a dark background style. Auto asks
// the desktop environment and falls back to light when that fails.
func (p ThemePreference) Dark() bool {
	switch p {
	case ThemeDark:
		return true
	case ThemeLight:
		return false
	default:
		if detectDarkMode == nil {
			return false
		}
		dark, err := detectDarkMode()
		if err != nil {
			slog.Debug("Detect dark mode", slog.Any("error", err))
			return false
		}
		return dark
	}
}

// StyleName returns the chroma style for the preference.
func (p ThemePreference) StyleName() string {
	if p.Dark() {
		return "github-dark"
	}
	return "github"
}
