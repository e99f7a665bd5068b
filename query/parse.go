// Package query parses template field references such as
// "net[0].eth0.rx_speed" or "loadavg.5[0:3:-1]" into a keyword and a typed
// accessor chain, and resolves them against a series source.
package query

import (
	"strconv"
	"strings"
)

// AccessorKind tags the variant held by an Accessor.
type AccessorKind int

const (
	// Attribute selects a named attribute: ".name".
	Attribute AccessorKind = iota
	// Index selects a single element: "[n]".
	Index
	// Slice selects a sub-sequence: "[lo:hi]" or "[lo:hi:step]".
	Slice
)

// Accessor is one step of a field reference.
type Accessor struct {
	Kind AccessorKind
	// Token is the accessor as written, used in error messages.
	Token string

	Name  string // Attribute
	Index int    // Index

	// Slice bounds. A nil bound was omitted.
	Lo, Hi, Step *int
}

// Reference is a parsed field reference.
type Reference struct {
	// Field is the reference as written.
	Field   string
	Keyword string
	Chain   []Accessor
}

// Parse splits a field reference into its keyword and accessor chain. The
// keyword runs up to the first '.' or '['. Attributes follow '.', indices
// and slices are enclosed in brackets. Whether the keyword and attributes
// exist is only checked by Resolve.
func Parse(field string) (Reference, error) {
	ref := Reference{Field: field}

	end := strings.IndexAny(field, ".[")
	if end < 0 {
		end = len(field)
	}
	ref.Keyword = field[:end]
	if ref.Keyword == "" {
		return Reference{}, fieldErr(field, field, "missing keyword in")
	}

	rest := field[end:]
	for rest != "" {
		switch rest[0] {
		case '.':
			rest = rest[1:]
			n := strings.IndexAny(rest, ".[")
			if n < 0 {
				n = len(rest)
			}
			name := rest[:n]
			if name == "" {
				return Reference{}, fieldErr(field, "."+name, "empty attribute")
			}
			ref.Chain = append(ref.Chain, Accessor{Kind: Attribute, Token: "." + name, Name: name})
			rest = rest[n:]

		case '[':
			n := strings.IndexByte(rest, ']')
			if n < 0 {
				return Reference{}, fieldErr(field, rest, "missing ']' in")
			}
			acc, err := parseBracket(field, rest[1:n])
			if err != nil {
				return Reference{}, err
			}
			ref.Chain = append(ref.Chain, acc)
			rest = rest[n+1:]
			if rest != "" && rest[0] != '.' && rest[0] != '[' {
				return Reference{}, fieldErr(field, rest, "only '.' or '[' may follow ']', got")
			}
		}
	}
	return ref, nil
}

func parseBracket(field, inner string) (Accessor, error) {
	token := "[" + inner + "]"
	if !strings.Contains(inner, ":") {
		if inner == "" || strings.Trim(inner, "0123456789") != "" {
			return Accessor{}, fieldErr(field, token, "index is not a non-negative integer:")
		}
		n, err := strconv.Atoi(inner)
		if err != nil {
			return Accessor{}, fieldErr(field, token, "index out of range")
		}
		return Accessor{Kind: Index, Token: token, Index: n}, nil
	}

	parts := strings.Split(inner, ":")
	if len(parts) > 3 {
		return Accessor{}, fieldErr(field, token, "too many ':' in slice")
	}
	bounds := make([]*int, 3)
	for i, p := range parts {
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Accessor{}, fieldErr(field, token, "slice bound is not an integer:")
		}
		bounds[i] = &n
	}
	if bounds[2] != nil && *bounds[2] == 0 {
		return Accessor{}, fieldErr(field, token, "slice step cannot be zero:")
	}
	return Accessor{Kind: Slice, Token: token, Lo: bounds[0], Hi: bounds[1], Step: bounds[2]}, nil
}

// String returns the reference as written.
func (r Reference) String() string { return r.Field }
