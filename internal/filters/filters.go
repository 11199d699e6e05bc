// Package filters holds the named character filters fields can be bound to.
package filters

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	xtransform "golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/kk-code-lab/infilter/internal/transform"
)

var ErrUnknownFilter = errors.New("unknown filter")

var registry = map[string]transform.Filter{
	"digits":            transform.Pure(Digits),
	"digits-folded":     FoldedDigits,
	"letters":           transform.Pure(Letters),
	"alnum":             transform.Pure(Alnum),
	"upper":             transform.Pure(Upper),
	"uppercase-letters": UppercaseLetters,
	"hex":               Hex,
}

// Lookup returns the filter registered under name.
func Lookup(name string) (transform.Filter, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
	return f, nil
}

// Names lists the registered filters in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether name is registered.
func Known(name string) bool {
	_, ok := registry[name]
	return ok
}

func keep(s string, pred func(rune) bool) string {
	return strings.Map(func(r rune) rune {
		if pred(r) {
			return r
		}
		return -1
	}, s)
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Digits keeps ASCII digits only.
func Digits(s string) string {
	return keep(s, isASCIIDigit)
}

// FoldedDigits maps fullwidth digits to ASCII before keeping digits, so
// input from East Asian keyboards is not silently dropped.
func FoldedDigits(s string) (string, error) {
	folded, _, err := xtransform.String(width.Fold, s)
	if err != nil {
		return "", fmt.Errorf("fold width: %w", err)
	}
	return Digits(folded), nil
}

// Letters keeps Unicode letters.
func Letters(s string) string {
	return keep(s, unicode.IsLetter)
}

// Alnum keeps Unicode letters and ASCII digits.
func Alnum(s string) string {
	return keep(s, func(r rune) bool {
		return unicode.IsLetter(r) || isASCIIDigit(r)
	})
}

// Upper uppercases everything and drops nothing.
func Upper(s string) string {
	// A Caser keeps state and is not safe for concurrent use.
	return cases.Upper(language.Und).String(s)
}

// stripPool hands out NFD -> remove(Mn) -> NFC chains; a chain is not safe
// for concurrent use.
var stripPool = sync.Pool{
	New: func() any {
		return xtransform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			runes.Map(foldQuote),
			norm.NFC,
		)
	},
}

func foldQuote(r rune) rune {
	switch r {
	case '"', '`', '´', '‘', '’', '“', '”':
		return '\''
	}
	return r
}

func isUpperWordRune(r rune) bool {
	return (r >= 'A' && r <= 'Z') || r == ' ' || r == '\''
}

// UppercaseLetters uppercases, strips accents, folds quote marks to an
// apostrophe and keeps A-Z, space and apostrophe.
func UppercaseLetters(s string) (string, error) {
	t := stripPool.Get().(xtransform.Transformer)
	defer func() {
		t.Reset()
		stripPool.Put(t)
	}()

	stripped, _, err := xtransform.String(t, Upper(s))
	if err != nil {
		return "", fmt.Errorf("strip accents: %w", err)
	}
	return keep(stripped, isUpperWordRune), nil
}

// Hex keeps hexadecimal digits, folding fullwidth forms and uppercasing.
func Hex(s string) (string, error) {
	folded, _, err := xtransform.String(width.Fold, s)
	if err != nil {
		return "", fmt.Errorf("fold width: %w", err)
	}
	return keep(strings.ToUpper(folded), func(r rune) bool {
		return isASCIIDigit(r) || (r >= 'A' && r <= 'F')
	}), nil
}
