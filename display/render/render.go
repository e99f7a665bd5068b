// Package render turns resolved field values into text: usage fractions
// become block glyphs, rates and counters become formatted numbers.
package render

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/tinyland/lab/system-graph/query"
)

// ErrRender is wrapped by every error about a value that cannot be
// rendered with the requested conversion or format specification.
var ErrRender = errors.New("render error")

// Error describes a failed rendering.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return ErrRender.Error() + ": " + e.Reason }

func (e *Error) Unwrap() error { return ErrRender }

func renderErr(format string, args ...any) error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

func specErr(spec, reason string) error {
	return renderErr("format spec %q: %s", spec, reason)
}

// Rate conversions, selected with "!k", "!m" and "!g".
const (
	ConvKiB = "k"
	ConvMiB = "m"
	ConvGiB = "g"
)

// Render formats v. Metrics and ratios are drawn as glyphs, lists as the
// concatenation of their elements' glyphs; the format spec then applies to
// the whole text. A rate is converted to KiB/s (the default), MiB/s or
// GiB/s and formatted as a number, a counter is formatted as an integer.
func Render(v query.Value, conv, spec string) (string, error) {
	sp, err := ParseSpec(spec)
	if err != nil {
		return "", err
	}

	switch v.Kind {
	case query.KindRate:
		var x float64
		switch conv {
		case "", ConvKiB:
			x = v.Rate.KiBs()
		case ConvMiB:
			x = v.Rate.MiBs()
		case ConvGiB:
			x = v.Rate.GiBs()
		default:
			return "", renderErr("unknown conversion %q for a rate", "!"+conv)
		}
		return sp.FormatFloat(x)

	case query.KindCount:
		if conv != "" {
			return "", renderErr("conversion %q is not supported for a counter", "!"+conv)
		}
		return sp.FormatInt(v.Count)
	}

	var b strings.Builder
	if err := drawGlyphs(&b, v, conv); err != nil {
		return "", err
	}
	return sp.FormatString(b.String())
}

func drawGlyphs(b *strings.Builder, v query.Value, conv string) error {
	switch v.Kind {
	case query.KindMetric, query.KindRatio:
		if conv != "" {
			return renderErr("conversion %q is not supported for a %s", "!"+conv, v.Kind)
		}
		b.WriteRune(Glyph(v.Percentage()))
		return nil
	case query.KindList:
		for _, elem := range v.List {
			if elem.Kind == query.KindRate || elem.Kind == query.KindCount {
				return renderErr("cannot render a range of %s values, select a single entry", elem.Kind)
			}
			if err := drawGlyphs(b, elem, conv); err != nil {
				return err
			}
		}
		return nil
	}
	return renderErr("cannot render a %s", v.Kind)
}
