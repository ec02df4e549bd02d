package models

import "errors"

// Theme is the persisted colour scheme preference
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

var ErrInvalidTheme = errors.New("theme must be light or dark")

// ParseTheme accepts only the two known values.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	default:
		return "", ErrInvalidTheme
	}
}

// Toggle flips light and dark. Anything else becomes dark, since it would
// have been displayed as light.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
