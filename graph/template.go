// Package graph renders a template of literal text and replacement fields
// into one line. A field names a series and optionally an accessor chain, a
// conversion and a format specification:
//
//	{keyword(.attribute|[index]|[lo:hi:step])*[!conversion][:spec]}
//
// Literal braces are written as "{{" and "}}".
package graph

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/tinyland/lab/system-graph/display/render"
	"gitlab.com/tinyland/lab/system-graph/query"
)

// DefaultFormat shows the newest value of every series.
const DefaultFormat = "Mem:{mem[0]}|Swap:{swap[0]}|Load:{loadavg[0].1}{loadavg[0].5}{loadavg[0].15}|CPU:{cpu[0]}|Net:{net[0]}"

// ErrSyntax is wrapped by every error about a malformed template.
var ErrSyntax = errors.New("template syntax error")

// SyntaxError reports a malformed template. Offset is the byte offset of
// the problem in Template.
type SyntaxError struct {
	Template string
	Offset   int
	Reason   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", ErrSyntax, e.Offset, e.Reason)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Template is a compiled template. It is safe to execute repeatedly and
// concurrently.
type Template struct {
	source string
	parts  []part
}

type part struct {
	literal string
	field   *field
}

type field struct {
	raw  string
	ref  query.Reference
	conv string
	spec string
}

// Compile scans a template once, splitting it into literal runs and
// fields, and parses every field reference.
func Compile(tmpl string) (*Template, error) {
	t := &Template{source: tmpl}
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			t.parts = append(t.parts, part{literal: lit.String()})
			lit.Reset()
		}
	}
	syntaxErr := func(offset int, reason string) error {
		return &SyntaxError{Template: tmpl, Offset: offset, Reason: reason}
	}

	for i := 0; i < len(tmpl); {
		switch c := tmpl[i]; c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				lit.WriteByte('{')
				i += 2
				continue
			}
			end, err := fieldEnd(tmpl, i)
			if err != nil {
				return nil, err
			}
			f, err := parseField(tmpl, i+1, end)
			if err != nil {
				return nil, err
			}
			flush()
			t.parts = append(t.parts, part{field: f})
			i = end + 1
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				lit.WriteByte('}')
				i += 2
				continue
			}
			return nil, syntaxErr(i, "single '}' encountered")
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()
	return t, nil
}

// fieldEnd returns the offset of the '}' closing the field opened at
// start. Brackets in the field name are skipped, so "{net[}]}" is one
// field.
func fieldEnd(tmpl string, start int) (int, error) {
	depth := 1
	inName := true
	for j := start + 1; j < len(tmpl); j++ {
		switch tmpl[j] {
		case '[':
			if inName {
				k := strings.IndexByte(tmpl[j:], ']')
				if k < 0 {
					return 0, &SyntaxError{Template: tmpl, Offset: j, Reason: "missing ']' in field name"}
				}
				j += k
			}
		case ':', '!':
			inName = false
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j, nil
			}
		}
	}
	return 0, &SyntaxError{Template: tmpl, Offset: start, Reason: "expected '}' before end of template"}
}

// parseField splits tmpl[start:end] into name, conversion and spec.
func parseField(tmpl string, start, end int) (*field, error) {
	body := tmpl[start:end]
	syntaxErr := func(at int, reason string) error {
		return &SyntaxError{Template: tmpl, Offset: start + at, Reason: reason}
	}

	i := 0
name:
	for i < len(body) {
		switch body[i] {
		case '{':
			return nil, syntaxErr(i, "unexpected '{' in field name")
		case '[':
			k := strings.IndexByte(body[i:], ']')
			if k < 0 {
				i = len(body)
				break name
			}
			i += k + 1
		case ':', '!':
			break name
		default:
			i++
		}
	}
	f := &field{raw: body}
	name := body[:i]

	if i < len(body) && body[i] == '!' {
		i++
		if i >= len(body) {
			return nil, syntaxErr(i, "end of field while looking for conversion specifier")
		}
		f.conv = body[i : i+1]
		i++
		if i < len(body) && body[i] != ':' {
			return nil, syntaxErr(i, "expected ':' after conversion specifier")
		}
	}
	if i < len(body) && body[i] == ':' {
		f.spec = body[i+1:]
		if strings.ContainsAny(f.spec, "{}") {
			return nil, syntaxErr(i+1, "nested replacement fields are not supported")
		}
	}

	ref, err := query.Parse(name)
	if err != nil {
		return nil, err
	}
	f.ref = ref
	return f, nil
}

// Execute resolves and renders every field against src. Any failing field
// aborts the whole line.
func (t *Template) Execute(src query.Source) (string, error) {
	var b strings.Builder
	for _, p := range t.parts {
		if p.field == nil {
			b.WriteString(p.literal)
			continue
		}
		v, err := query.Resolve(p.field.ref, src)
		if err != nil {
			return "", err
		}
		s, err := render.Render(v, p.field.conv, p.field.spec)
		if err != nil {
			return "", fmt.Errorf("field {%s}: %w", p.field.raw, err)
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// String returns the template source.
func (t *Template) String() string { return t.source }

// Keywords returns the keywords referenced by the template, in order of
// first use.
func (t *Template) Keywords() []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range t.parts {
		if p.field == nil || seen[p.field.ref.Keyword] {
			continue
		}
		seen[p.field.ref.Keyword] = true
		out = append(out, p.field.ref.Keyword)
	}
	return out
}

// Format compiles tmpl and executes it against src.
func Format(tmpl string, src query.Source) (string, error) {
	t, err := Compile(tmpl)
	if err != nil {
		return "", err
	}
	return t.Execute(src)
}
