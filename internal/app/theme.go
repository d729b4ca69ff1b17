package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"graphfield/pkg/colorutil"
)

// FieldTheme is the desktop theme: the default theme with the axes
// highlight colour as primary.
type FieldTheme struct{}

var _ fyne.Theme = (*FieldTheme)(nil)

func (t *FieldTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return colorutil.Highlight
	case theme.ColorNameSelection:
		return colorutil.WithAlpha(colorutil.Yellow, 0x80)
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *FieldTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *FieldTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *FieldTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNameInnerPadding {
		return 6
	}
	return theme.DefaultTheme().Size(name)
}
