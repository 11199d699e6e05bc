package main

import (
	"fmt"
	"image/color"
	"strings"

	"gioui.org/layout"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/atotto/clipboard"

	"github.com/kk-code-lab/infilter/internal/config"
	"github.com/kk-code-lab/infilter/internal/filters"
	statepkg "github.com/kk-code-lab/infilter/internal/state"
	"github.com/kk-code-lab/infilter/internal/transform"
	"github.com/kk-code-lab/infilter/internal/ui/gioedit"
)

var (
	backgroundColor = color.NRGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}
	borderColor     = color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff}
	textColor       = color.NRGBA{R: 0xe8, G: 0xe8, B: 0xe8, A: 0xff}
	mutedColor      = color.NRGBA{R: 0x9a, G: 0x9a, B: 0x9a, A: 0xff}
	errorColor      = color.NRGBA{R: 0xe0, G: 0x5d, B: 0x5d, A: 0xff}
)

type galleryField struct {
	*gioedit.Field
	cfg      config.FieldConfig
	paste    widget.Clickable
	autofill widget.Clickable
	err      error
}

// gallery lays out one filtered editor per configured field.
type gallery struct {
	theme  *material.Theme
	fields []*galleryField
	list   widget.List
}

func newGallery(th *material.Theme, cfg *config.Config) (*gallery, error) {
	g := &gallery{
		theme: th,
		list: widget.List{
			List: layout.List{Axis: layout.Vertical},
		},
	}
	for _, fc := range cfg.Fields {
		filter, err := filters.Lookup(fc.Filter)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fc.Name, err)
		}
		f, err := gioedit.New(fc.Name, fc.Initial, filter, statepkg.CapabilitiesFor(fc.StrategyName()),
			transform.WithSelectWhenDropped(fc.SelectsWhenDropped()),
			transform.WithHistory(fc.HistoryEnabled()),
		)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fc.Name, err)
		}
		g.fields = append(g.fields, &galleryField{Field: f, cfg: fc})
	}
	return g, nil
}

// Layout handles pending input and draws the gallery.
func (g *gallery) Layout(gtx layout.Context) layout.Dimensions {
	for _, f := range g.fields {
		g.update(gtx, f)
	}

	paint.Fill(gtx.Ops, backgroundColor)
	return material.List(g.theme, &g.list).Layout(gtx, len(g.fields), func(gtx layout.Context, i int) layout.Dimensions {
		return g.layoutField(gtx, g.fields[i])
	})
}

func (g *gallery) update(gtx layout.Context, f *galleryField) {
	if changed, err := f.Update(gtx); changed {
		f.err = err
	}
	if f.paste.Clicked(gtx) {
		text, err := clipboard.ReadAll()
		if err != nil {
			f.err = fmt.Errorf("read clipboard: %w", err)
		} else {
			f.err = f.Insert(transform.TagInsertFromPaste, text)
		}
	}
	if f.autofill.Clicked(gtx) && f.cfg.Autofill != "" {
		f.err = f.Autofill(f.cfg.Autofill)
	}
}

func (g *gallery) layoutField(gtx layout.Context, f *galleryField) layout.Dimensions {
	return layout.UniformInset(unit.Dp(12)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				l := material.H6(g.theme, f.Label)
				l.Color = textColor
				return l.Layout(gtx)
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				l := material.Caption(g.theme, fieldInfo(f))
				l.Color = mutedColor
				return l.Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				border := widget.Border{Color: borderColor, CornerRadius: unit.Dp(4), Width: unit.Dp(1)}
				return border.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						e := material.Editor(g.theme, &f.Editor, "type, paste or drop here")
						e.Color = textColor
						e.HintColor = mutedColor
						return e.Layout(gtx)
					})
				})
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return g.layoutButtons(gtx, f)
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				if f.err == nil {
					return layout.Dimensions{}
				}
				l := material.Caption(g.theme, "error: "+f.err.Error())
				l.Color = errorColor
				return l.Layout(gtx)
			}),
		)
	})
}

func (g *gallery) layoutButtons(gtx layout.Context, f *galleryField) layout.Dimensions {
	children := []layout.FlexChild{
		layout.Rigid(material.Button(g.theme, &f.paste, "Paste clipboard").Layout),
	}
	if f.cfg.Autofill != "" {
		children = append(children,
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
			layout.Rigid(material.Button(g.theme, &f.autofill, "Autofill").Layout),
		)
	}
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx, children...)
}

func fieldInfo(f *galleryField) string {
	parts := []string{f.cfg.Filter, f.Strategy().String()}
	if !f.cfg.HistoryEnabled() {
		parts = append(parts, "history off")
	}
	if !f.cfg.SelectsWhenDropped() {
		parts = append(parts, "drops unselected")
	}
	return strings.Join(parts, " · ")
}
