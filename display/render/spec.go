package render

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Spec is a parsed format specification:
//
//	[[fill]align][sign][#][0][width][,|_][.precision][type]
type Spec struct {
	Fill      rune
	Align     rune // '<', '>', '^', '=' or 0
	Sign      rune // '+', '-', ' ' or 0
	Alternate bool
	Zero      bool
	Width     int
	Grouping  rune // ',', '_' or 0
	Precision int  // -1 when omitted
	Type      rune // 0 when omitted

	fillSet  bool
	alignSet bool
	source   string
}

func isAlign(r rune) bool {
	return r == '<' || r == '>' || r == '=' || r == '^'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// ParseSpec parses a format specification. The empty string is valid and
// selects the default presentation.
func ParseSpec(s string) (Spec, error) {
	sp := Spec{Fill: ' ', Precision: -1, source: s}
	r := []rune(s)
	i := 0

	switch {
	case len(r) >= 2 && isAlign(r[1]):
		sp.Fill, sp.Align = r[0], r[1]
		sp.fillSet, sp.alignSet = true, true
		i = 2
	case len(r) >= 1 && isAlign(r[0]):
		sp.Align = r[0]
		sp.alignSet = true
		i = 1
	}

	if i < len(r) && (r[i] == '+' || r[i] == '-' || r[i] == ' ') {
		sp.Sign = r[i]
		i++
	}
	if i < len(r) && r[i] == '#' {
		sp.Alternate = true
		i++
	}
	if i < len(r) && r[i] == '0' {
		sp.Zero = true
		i++
	}

	start := i
	for i < len(r) && isDigit(r[i]) {
		i++
	}
	if i > start {
		w, err := strconv.Atoi(string(r[start:i]))
		if err != nil {
			return Spec{}, specErr(s, "width too large")
		}
		sp.Width = w
	}

	if i < len(r) && (r[i] == ',' || r[i] == '_') {
		sp.Grouping = r[i]
		i++
	}

	if i < len(r) && r[i] == '.' {
		i++
		start = i
		for i < len(r) && isDigit(r[i]) {
			i++
		}
		if i == start {
			return Spec{}, specErr(s, "missing precision")
		}
		p, err := strconv.Atoi(string(r[start:i]))
		if err != nil {
			return Spec{}, specErr(s, "precision too large")
		}
		sp.Precision = p
	}

	switch len(r) - i {
	case 0:
	case 1:
		sp.Type = r[i]
	default:
		return Spec{}, specErr(s, "invalid format specifier")
	}

	if sp.Zero {
		if !sp.fillSet {
			sp.Fill = '0'
		}
		if sp.Align == 0 {
			sp.Align = '='
		}
	}
	return sp, nil
}

// String returns the specification as written.
func (sp Spec) String() string { return sp.source }

// pad aligns prefix+body within the field width. prefix is the sign and
// radix marker, which '=' alignment keeps in front of the padding.
func (sp Spec) pad(prefix, body string, align rune) string {
	n := utf8.RuneCountInString(prefix) + utf8.RuneCountInString(body)
	if n >= sp.Width {
		return prefix + body
	}
	fill := func(k int) string { return strings.Repeat(string(sp.Fill), k) }
	gap := sp.Width - n
	switch align {
	case '<':
		return prefix + body + fill(gap)
	case '^':
		left := gap / 2
		return fill(left) + prefix + body + fill(gap-left)
	case '=':
		return prefix + fill(gap) + body
	default:
		return fill(gap) + prefix + body
	}
}

// FormatString formats glyph output. Only the 's' type is accepted; a
// precision truncates the text.
func (sp Spec) FormatString(s string) (string, error) {
	if sp.Type != 0 && sp.Type != 's' {
		return "", specErr(sp.source, "unknown format code "+strconv.QuoteRune(sp.Type)+" for a graph")
	}
	if sp.Sign != 0 {
		return "", specErr(sp.source, "sign not allowed for a graph")
	}
	if sp.Alternate {
		return "", specErr(sp.source, "alternate form (#) not allowed for a graph")
	}
	if sp.Grouping != 0 {
		return "", specErr(sp.source, "cannot specify "+strconv.QuoteRune(sp.Grouping)+" for a graph")
	}
	if sp.alignSet && sp.Align == '=' {
		return "", specErr(sp.source, "'=' alignment not allowed for a graph")
	}

	if sp.Precision >= 0 && utf8.RuneCountInString(s) > sp.Precision {
		s = string([]rune(s)[:sp.Precision])
	}

	align := sp.Align
	if align == 0 || align == '=' {
		align = '<'
	}
	return sp.pad("", s, align), nil
}

// FormatFloat formats a number with the float presentation types e, E, f,
// F, g, G and %. Without a type the shortest representation that reads back
// as the same value is used, or the general format when a precision is
// given.
func (sp Spec) FormatFloat(x float64) (string, error) {
	switch sp.Type {
	case 0, 'e', 'E', 'f', 'F', 'g', 'G', '%':
	default:
		return "", specErr(sp.source, "unknown format code "+strconv.QuoteRune(sp.Type)+" for a number")
	}
	neg := math.Signbit(x) && !math.IsNaN(x)
	abs := math.Abs(x)

	var body string
	switch {
	case math.IsInf(x, 0):
		body = "inf"
	case math.IsNaN(x):
		body = "nan"
	default:
		body = sp.floatBody(abs)
	}
	if sp.Type == '%' {
		if math.IsInf(x, 0) || math.IsNaN(x) {
			body += "%"
		}
	}
	if sp.Type == 'E' || sp.Type == 'F' || sp.Type == 'G' {
		body = strings.ToUpper(body)
	}

	return sp.number(sp.signPrefix(neg), body, 3), nil
}

func (sp Spec) floatBody(abs float64) string {
	p := sp.Precision
	switch sp.Type {
	case 'f', 'F':
		if p < 0 {
			p = 6
		}
		return withPoint(strconv.FormatFloat(abs, 'f', p, 64), sp.Alternate && p == 0)
	case '%':
		if p < 0 {
			p = 6
		}
		return withPoint(strconv.FormatFloat(abs*100, 'f', p, 64), sp.Alternate && p == 0) + "%"
	case 'e', 'E':
		if p < 0 {
			p = 6
		}
		s := strconv.FormatFloat(abs, 'e', p, 64)
		if sp.Alternate && p == 0 {
			mant, exp, _ := strings.Cut(s, "e")
			s = mant + ".e" + exp
		}
		return s
	case 'g', 'G':
		if p < 0 {
			p = 6
		}
		if p == 0 {
			p = 1
		}
		return general(abs, p, sp.Alternate, false)
	default:
		if p < 0 {
			return shortest(abs)
		}
		if p == 0 {
			p = 1
		}
		return general(abs, p, sp.Alternate, true)
	}
}

// withPoint appends a decimal point to a number that has none.
func withPoint(s string, force bool) string {
	if force && !strings.Contains(s, ".") {
		return s + "."
	}
	return s
}

// exponent returns the decimal exponent of abs after rounding it to
// digits significant digits.
func exponent(abs float64, digits int) int {
	if abs == 0 {
		return 0
	}
	s := strconv.FormatFloat(abs, 'e', digits-1, 64)
	_, e, _ := strings.Cut(s, "e")
	n, _ := strconv.Atoi(e)
	return n
}

// general implements the 'g' presentation with p significant digits. With
// bare set it implements the untyped form instead, which switches to
// scientific notation one exponent earlier and always keeps a digit after
// the decimal point in fixed notation.
func general(abs float64, p int, alt, bare bool) string {
	exp := exponent(abs, p)
	limit := p
	if bare {
		limit = p - 1
	}

	if exp >= -4 && exp < limit {
		s := strconv.FormatFloat(abs, 'f', p-1-exp, 64)
		if alt {
			return withPoint(s, true)
		}
		s = trimFraction(s)
		if bare && !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	s := strconv.FormatFloat(abs, 'e', p-1, 64)
	mant, e, _ := strings.Cut(s, "e")
	if alt {
		mant = withPoint(mant, true)
	} else {
		mant = trimFraction(mant)
	}
	return mant + "e" + e
}

// trimFraction drops trailing zeros after the decimal point, and the point
// itself when nothing is left after it.
func trimFraction(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// shortest returns the shortest decimal text that reads back as abs, in
// fixed notation for exponents from -4 to 15 and scientific otherwise.
func shortest(abs float64) string {
	exp := 0
	if abs != 0 {
		s := strconv.FormatFloat(abs, 'e', -1, 64)
		_, e, _ := strings.Cut(s, "e")
		exp, _ = strconv.Atoi(e)
		if exp < -4 || exp >= 16 {
			return s
		}
	}
	s := strconv.FormatFloat(abs, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatInt formats a counter with the integer presentation types d, b, o,
// x and X, or with any float type.
func (sp Spec) FormatInt(n int64) (string, error) {
	base := 10
	switch sp.Type {
	case 0, 'd':
	case 'b':
		base = 2
	case 'o':
		base = 8
	case 'x', 'X':
		base = 16
	case 'e', 'E', 'f', 'F', 'g', 'G', '%':
		return sp.FormatFloat(float64(n))
	default:
		return "", specErr(sp.source, "unknown format code "+strconv.QuoteRune(sp.Type)+" for a counter")
	}
	if sp.Precision >= 0 {
		return "", specErr(sp.source, "precision not allowed for a counter")
	}
	if sp.Grouping == ',' && base != 10 {
		return "", specErr(sp.source, "cannot specify ',' with "+strconv.QuoteRune(sp.Type))
	}

	neg := n < 0
	mag := uint64(n)
	if neg {
		mag = uint64(-n)
	}
	body := strconv.FormatUint(mag, base)
	if sp.Type == 'X' {
		body = strings.ToUpper(body)
	}

	prefix := sp.signPrefix(neg)
	if sp.Alternate {
		switch sp.Type {
		case 'b':
			prefix += "0b"
		case 'o':
			prefix += "0o"
		case 'x':
			prefix += "0x"
		case 'X':
			prefix += "0X"
		}
	}

	every := 3
	if base != 10 {
		every = 4
	}
	return sp.number(prefix, body, every), nil
}

func (sp Spec) signPrefix(neg bool) string {
	switch {
	case neg:
		return "-"
	case sp.Sign == '+':
		return "+"
	case sp.Sign == ' ':
		return " "
	}
	return ""
}

// number groups the leading digits of body and aligns the result, right
// by default. Zero padding with '=' alignment is grouped as well.
func (sp Spec) number(prefix, body string, every int) string {
	align := sp.Align
	if align == 0 {
		align = '>'
	}
	if sp.Grouping == 0 {
		return sp.pad(prefix, body, align)
	}

	digitSet := "0123456789"
	if every == 4 {
		digitSet += "abcdefABCDEF"
	}
	digits := len(body) - len(strings.TrimLeft(body, digitSet))
	intPart, rest := body[:digits], body[digits:]

	if sp.Fill == '0' && align == '=' {
		for {
			grouped := group(intPart, sp.Grouping, every)
			if utf8.RuneCountInString(prefix)+len(grouped)+len(rest) >= sp.Width {
				return prefix + grouped + rest
			}
			intPart = "0" + intPart
		}
	}
	return sp.pad(prefix, group(intPart, sp.Grouping, every)+rest, align)
}

// group inserts sep between every run of n digits, counted from the right.
func group(digits string, sep rune, n int) string {
	if len(digits) <= n {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % n
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += n {
		if b.Len() > 0 {
			b.WriteRune(sep)
		}
		b.WriteString(digits[i : i+n])
	}
	return b.String()
}
