// Package viz turns filtered articles into a laid-out, styled graph scene and
// renders it as SVG, interactive HTML or JSON.
package viz

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/matsen/kbm/internal/layout"
)

// Theme selects the light or dark palette.
type Theme string

// Themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Options configures scene construction and rendering.
type Options struct {
	Layout            layout.Mode `json:"layout" validate:"oneof=force radial cluster"`
	Density           int         `json:"density" validate:"min=0,max=100"`
	ShowLabels        bool        `json:"show_labels"`
	ColorByDepartment bool        `json:"color_by_department"`
	ColorByDensity    bool        `json:"color_by_density"`
	Width             float64     `json:"width" validate:"gt=0"`
	Height            float64     `json:"height" validate:"gt=0"`
	Theme             Theme       `json:"theme" validate:"oneof=light dark"`
}

// DefaultOptions returns the default graph options.
func DefaultOptions() Options {
	return Options{
		Layout:            layout.ModeForce,
		Density:           50,
		ShowLabels:        true,
		ColorByDepartment: true,
		ColorByDensity:    false,
		Width:             900,
		Height:            600,
		Theme:             ThemeLight,
	}
}

var validate = validator.New()

// Validate checks the layout, density range, viewport and theme.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid graph options: %w", err)
	}
	return nil
}

// Dark reports whether the dark palette is selected.
func (o Options) Dark() bool {
	return o.Theme == ThemeDark
}
