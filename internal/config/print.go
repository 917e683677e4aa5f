package config

import (
	"fmt"
	"strings"
)

// PrintConfig holds the card styling knobs from the config block of
// paranoia.yml. Sizes are points, margin is millimetres.
type PrintConfig struct {
	CoverFontName    string  `yaml:"cover_font_name"`
	CoverFontStyle   string  `yaml:"cover_font_style"`
	CoverFontSize    float64 `yaml:"cover_font_size"`
	CoverLineSpacing float64 `yaml:"cover_line_spacing"`

	FieldFontName    string  `yaml:"field_font_name"`
	FieldFontStyle   string  `yaml:"field_font_style"`
	FieldFontSize    float64 `yaml:"field_font_size"`
	FieldLineSpacing float64 `yaml:"field_line_spacing"`

	ValueFontName    string  `yaml:"value_font_name"`
	ValueFontStyle   string  `yaml:"value_font_style"`
	ValueFontSize    float64 `yaml:"value_font_size"`
	ValueLineSpacing float64 `yaml:"value_line_spacing"`

	IDFontName    string  `yaml:"id_font_name"`
	IDFontStyle   string  `yaml:"id_font_style"`
	IDFontSize    float64 `yaml:"id_font_size"`
	IDLineSpacing float64 `yaml:"id_line_spacing"`
	IDPrefix      string  `yaml:"id_prefix"`

	PrintMargin    float64 `yaml:"print_margin"`
	PrintFoldLines bool    `yaml:"print_fold_lines"`
	PageSize       string  `yaml:"page_size"` // A4, A5, A6, Letter
}

// TextStyle is the resolved font setting for one kind of text.
type TextStyle struct {
	Font        string
	Style       string // any of "B", "I", "U"
	Size        float64
	LineSpacing float64
}

// PtToMM converts a font size in points to millimetres.
const PtToMM = 0.3527777778

// LineHeight returns the height of one text line in millimetres.
func (s TextStyle) LineHeight() float64 {
	return s.Size * PtToMM * s.LineSpacing
}

// DefaultPrintConfig returns the default card styling.
func DefaultPrintConfig() PrintConfig {
	return PrintConfig{
		CoverFontName:    "Arial",
		CoverFontStyle:   "B",
		CoverFontSize:    20,
		CoverLineSpacing: 1.1,

		FieldFontName:    "Arial",
		FieldFontStyle:   "",
		FieldFontSize:    10,
		FieldLineSpacing: 1.1,

		ValueFontName:    "Arial",
		ValueFontStyle:   "B",
		ValueFontSize:    12,
		ValueLineSpacing: 1.1,

		IDFontName:    "Arial",
		IDFontStyle:   "B",
		IDFontSize:    8,
		IDLineSpacing: 1.1,
		IDPrefix:      "Serial Number: ",

		PrintMargin:    20,
		PrintFoldLines: false,
		PageSize:       "A5",
	}
}

func (c PrintConfig) Cover() TextStyle {
	return TextStyle{c.CoverFontName, c.CoverFontStyle, c.CoverFontSize, c.CoverLineSpacing}
}

func (c PrintConfig) Field() TextStyle {
	return TextStyle{c.FieldFontName, c.FieldFontStyle, c.FieldFontSize, c.FieldLineSpacing}
}

func (c PrintConfig) Value() TextStyle {
	return TextStyle{c.ValueFontName, c.ValueFontStyle, c.ValueFontSize, c.ValueLineSpacing}
}

func (c PrintConfig) ID() TextStyle {
	return TextStyle{c.IDFontName, c.IDFontStyle, c.IDFontSize, c.IDLineSpacing}
}

// Validate checks the styling knobs.
func (c PrintConfig) Validate() error {
	roles := []struct {
		name  string
		style TextStyle
	}{
		{"cover", c.Cover()},
		{"field", c.Field()},
		{"value", c.Value()},
		{"id", c.ID()},
	}
	for _, r := range roles {
		if r.style.Font == "" {
			return fmt.Errorf("config: %s_font_name must not be empty", r.name)
		}
		if strings.Trim(strings.ToUpper(r.style.Style), "BIU") != "" {
			return fmt.Errorf("config: %s_font_style %q must combine B, I and U", r.name, r.style.Style)
		}
		if r.style.Size <= 0 {
			return fmt.Errorf("config: %s_font_size must be positive, got %v", r.name, r.style.Size)
		}
		if r.style.LineSpacing <= 0 {
			return fmt.Errorf("config: %s_line_spacing must be positive, got %v", r.name, r.style.LineSpacing)
		}
	}
	if c.PrintMargin < 0 {
		return fmt.Errorf("config: print_margin must not be negative, got %v", c.PrintMargin)
	}
	if _, ok := PageSizes[strings.ToUpper(c.PageSize)]; !ok {
		return fmt.Errorf("config: unknown page_size %q", c.PageSize)
	}
	return nil
}

// PageSize is a portrait page in millimetres.
type PageSize struct {
	Name string
	W, H float64
}

// PageSizes lists the supported page_size values, keyed upper case.
var PageSizes = map[string]PageSize{
	"A4":     {"A4", 210, 297},
	"A5":     {"A5", 148, 210},
	"A6":     {"A6", 105, 148},
	"LETTER": {"Letter", 215.9, 279.4},
}

// Page resolves page_size. Call after Validate.
func (c PrintConfig) Page() PageSize {
	if p, ok := PageSizes[strings.ToUpper(c.PageSize)]; ok {
		return p
	}
	return PageSizes["A5"]
}
