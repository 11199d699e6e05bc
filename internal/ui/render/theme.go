package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background  tcell.Color
	Foreground  tcell.Color
	HeaderBg    tcell.Color
	HeaderFg    tcell.Color
	LabelFg     tcell.Color
	DimFg       tcell.Color
	FieldBg     tcell.Color
	FieldFg     tcell.Color
	FocusBg     tcell.Color
	FocusMarkFg tcell.Color
	SelectionBg tcell.Color
	SelectionFg tcell.Color
	FooterBg    tcell.Color
	FooterFg    tcell.Color
	ErrorFg     tcell.Color
	StatusFg    tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:  tcell.ColorDefault,
		Foreground:  tcell.ColorDefault,
		HeaderBg:    tcell.ColorDefault,
		HeaderFg:    tcell.ColorDefault,
		LabelFg:     tcell.ColorDefault,
		DimFg:       tcell.ColorLightSlateGray,
		FieldBg:     tcell.Color236,
		FieldFg:     tcell.Color252,
		FocusBg:     tcell.Color238,
		FocusMarkFg: tcell.Color33,
		SelectionBg: tcell.Color33,
		SelectionFg: tcell.ColorWhite,
		FooterBg:    tcell.ColorDefault,
		FooterFg:    tcell.ColorDefault,
		ErrorFg:     tcell.ColorRed,
		StatusFg:    tcell.Color44,
	}
}
