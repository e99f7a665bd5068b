package render

import (
	"errors"
	"math"
	"testing"

	"gitlab.com/tinyland/lab/system-graph/metrics"
	"gitlab.com/tinyland/lab/system-graph/query"
)

func TestGlyphIndexBounds(t *testing.T) {
	tests := []struct {
		p    float64
		want int
	}{
		{p: 0, want: 0},
		{p: -0.5, want: 0},
		{p: 0.0624, want: 0},
		{p: 0.0625, want: 1},
		{p: 0.5, want: 4},
		{p: 0.5625, want: 5},
		{p: 0.6, want: 5},
		{p: 0.9374, want: 7},
		{p: 0.9375, want: 8},
		{p: 1, want: 8},
		{p: 3.7, want: 8},
		{p: math.Inf(1), want: 8},
		{p: math.NaN(), want: 0},
	}

	for _, tt := range tests {
		if got := GlyphIndex(tt.p); got != tt.want {
			t.Errorf("GlyphIndex(%v) = %d, want %d", tt.p, got, tt.want)
		}
	}
}

func TestGlyphIndexMonotonic(t *testing.T) {
	prev := GlyphIndex(0)
	for i := 1; i <= 1200; i++ {
		p := float64(i) / 1000
		got := GlyphIndex(p)
		if got < prev {
			t.Fatalf("GlyphIndex(%v) = %d is below GlyphIndex of a smaller value (%d)", p, got, prev)
		}
		prev = got
	}
}

func TestGlyphs(t *testing.T) {
	if got := Glyph(0); got != ' ' {
		t.Errorf("Glyph(0) = %q, want blank", got)
	}
	if got := Glyph(1); got != '█' {
		t.Errorf("Glyph(1) = %q, want full block", got)
	}
	for i := 1; i < GlyphCount; i++ {
		if glyphs[i] != rune(0x2580+i) {
			t.Errorf("glyph %d = %U, want %U", i, glyphs[i], rune(0x2580+i))
		}
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		spec string
		x    float64
		want string
	}{
		{spec: ".2f", x: 1, want: "1.00"},
		{spec: "", x: 1, want: "1.0"},
		{spec: "", x: 0.5, want: "0.5"},
		{spec: "", x: 1234567, want: "1234567.0"},
		{spec: "", x: 1e16, want: "1e+16"},
		{spec: "", x: 0.0001, want: "0.0001"},
		{spec: "", x: 0.00001, want: "1e-05"},
		{spec: "", x: 0, want: "0.0"},
		{spec: ".3", x: 10, want: "10.0"},
		{spec: ".3", x: 100, want: "1e+02"},
		{spec: ".3", x: 0, want: "0.0"},
		{spec: ".1", x: 1.5, want: "2e+00"},
		{spec: "g", x: 1234567, want: "1.23457e+06"},
		{spec: "g", x: 0.5, want: "0.5"},
		{spec: "g", x: 0, want: "0"},
		{spec: "#g", x: 1, want: "1.00000"},
		{spec: ".2e", x: 12345, want: "1.23e+04"},
		{spec: "E", x: 12345, want: "1.234500E+04"},
		{spec: ".1%", x: 0.256, want: "25.6%"},
		{spec: "8.2f", x: 3.14159, want: "    3.14"},
		{spec: "<8.2f", x: 3.14159, want: "3.14    "},
		{spec: "^8.2f", x: 3.14159, want: "  3.14  "},
		{spec: "08.2f", x: 3.14159, want: "00003.14"},
		{spec: "08.2f", x: -3.14159, want: "-0003.14"},
		{spec: "+.1f", x: 2, want: "+2.0"},
		{spec: " .1f", x: 2, want: " 2.0"},
		{spec: "*>10.1f", x: 2.5, want: "*******2.5"},
		{spec: ",.2f", x: 1234567.891, want: "1,234,567.89"},
		{spec: "_.0f", x: 1234567, want: "1_234_567"},
		{spec: "#.0f", x: 3, want: "3."},
		{spec: "F", x: math.Inf(1), want: "INF"},
		{spec: "f", x: math.Inf(-1), want: "-inf"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			sp, err := ParseSpec(tt.spec)
			if err != nil {
				t.Fatalf("ParseSpec(%q): %v", tt.spec, err)
			}
			got, err := sp.FormatFloat(tt.x)
			if err != nil {
				t.Fatalf("FormatFloat: %v", err)
			}
			if got != tt.want {
				t.Errorf("format(%v, %q) = %q, want %q", tt.x, tt.spec, got, tt.want)
			}
		})
	}
}

func TestFormatInt(t *testing.T) {
	tests := []struct {
		spec string
		n    int64
		want string
	}{
		{spec: "", n: 1234, want: "1234"},
		{spec: "d", n: -7, want: "-7"},
		{spec: "5d", n: 42, want: "   42"},
		{spec: ",", n: 1234567, want: "1,234,567"},
		{spec: "08,", n: 1234, want: "0,001,234"},
		{spec: "x", n: 255, want: "ff"},
		{spec: "#x", n: 255, want: "0xff"},
		{spec: "#X", n: 255, want: "0XFF"},
		{spec: "#08x", n: 255, want: "0x0000ff"},
		{spec: "b", n: 5, want: "101"},
		{spec: "#o", n: 8, want: "0o10"},
		{spec: "_x", n: 0x12345, want: "1_2345"},
		{spec: "f", n: 3, want: "3.000000"},
		{spec: "+", n: 3, want: "+3"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			sp, err := ParseSpec(tt.spec)
			if err != nil {
				t.Fatalf("ParseSpec(%q): %v", tt.spec, err)
			}
			got, err := sp.FormatInt(tt.n)
			if err != nil {
				t.Fatalf("FormatInt: %v", err)
			}
			if got != tt.want {
				t.Errorf("format(%d, %q) = %q, want %q", tt.n, tt.spec, got, tt.want)
			}
		})
	}
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		spec string
		s    string
		want string
	}{
		{spec: "", s: "▁▂", want: "▁▂"},
		{spec: ">5", s: "▁▂", want: "   ▁▂"},
		{spec: "5", s: "▁▂", want: "▁▂   "},
		{spec: "-^6", s: "▁▂", want: "--▁▂--"},
		{spec: ".1", s: "▁▂▃", want: "▁"},
		{spec: "05", s: "ab", want: "ab000"},
		{spec: "s", s: "ab", want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			sp, err := ParseSpec(tt.spec)
			if err != nil {
				t.Fatalf("ParseSpec(%q): %v", tt.spec, err)
			}
			got, err := sp.FormatString(tt.s)
			if err != nil {
				t.Fatalf("FormatString: %v", err)
			}
			if got != tt.want {
				t.Errorf("format(%q, %q) = %q, want %q", tt.s, tt.spec, got, tt.want)
			}
		})
	}
}

func TestSpecErrors(t *testing.T) {
	tests := []struct {
		name   string
		spec   string
		format func(Spec) error
	}{
		{name: "missing precision", spec: ".", format: nil},
		{name: "trailing junk", spec: "abc", format: nil},
		{name: "precision letter", spec: ".x", format: nil},
		{name: "localized float", spec: "n", format: func(sp Spec) error { _, err := sp.FormatFloat(1); return err }},
		{name: "localized counter", spec: "n", format: func(sp Spec) error { _, err := sp.FormatInt(1); return err }},
		{name: "integer type on float", spec: "d", format: func(sp Spec) error { _, err := sp.FormatFloat(1); return err }},
		{name: "counter precision", spec: ".2", format: func(sp Spec) error { _, err := sp.FormatInt(1); return err }},
		{name: "comma with hex", spec: ",x", format: func(sp Spec) error { _, err := sp.FormatInt(1); return err }},
		{name: "number type on graph", spec: "d", format: func(sp Spec) error { _, err := sp.FormatString("x"); return err }},
		{name: "sign on graph", spec: "+", format: func(sp Spec) error { _, err := sp.FormatString("x"); return err }},
		{name: "sign-aware alignment on graph", spec: "=5", format: func(sp Spec) error { _, err := sp.FormatString("x"); return err }},
		{name: "grouping on graph", spec: ",", format: func(sp Spec) error { _, err := sp.FormatString("x"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp, err := ParseSpec(tt.spec)
			if tt.format == nil {
				if err == nil {
					t.Fatalf("ParseSpec(%q) succeeded, want error", tt.spec)
				}
			} else {
				if err != nil {
					t.Fatalf("ParseSpec(%q): %v", tt.spec, err)
				}
				err = tt.format(sp)
			}
			if !errors.Is(err, ErrRender) {
				t.Errorf("err = %v, want ErrRender", err)
			}
		})
	}
}

func TestRender(t *testing.T) {
	list := query.ListValue([]query.Value{
		query.MetricValue(metrics.CPUDelta{Total: 100, Idle: 40}),
		query.RatioValue(1),
		query.MetricValue(metrics.Null{}),
	})

	tests := []struct {
		name string
		v    query.Value
		conv string
		spec string
		want string
	}{
		{name: "metric glyph", v: query.MetricValue(metrics.CPUDelta{Total: 100, Idle: 40}), want: "▅"},
		{name: "ratio glyph", v: query.RatioValue(0.5), want: "▄"},
		{name: "list", v: list, want: "▅█ "},
		{name: "padded list", v: list, spec: ">5", want: "  ▅█ "},
		{name: "truncated list", v: list, spec: ".2", want: "▅█"},
		{name: "rate default", v: query.RateValue(1536), want: "1.5"},
		{name: "rate kib", v: query.RateValue(1024), conv: "k", spec: ".2f", want: "1.00"},
		{name: "rate mib", v: query.RateValue(3 * 1024 * 1024), conv: "m", want: "3.0"},
		{name: "rate gib", v: query.RateValue(1024 * 1024 * 1024), conv: "g", spec: ".1f", want: "1.0"},
		{name: "counter", v: query.CountValue(16384), want: "16384"},
		{name: "counter grouped", v: query.CountValue(16384), spec: ",", want: "16,384"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.v, tt.conv, tt.spec)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if got != tt.want {
				t.Errorf("Render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name string
		v    query.Value
		conv string
		spec string
	}{
		{name: "conversion on metric", v: query.MetricValue(metrics.MemStat{Total: 1, Free: 1}), conv: "k"},
		{name: "conversion on ratio", v: query.RatioValue(0.5), conv: "m"},
		{name: "conversion on counter", v: query.CountValue(1), conv: "k"},
		{name: "unknown rate conversion", v: query.RateValue(1), conv: "x"},
		{name: "range of rates", v: query.ListValue([]query.Value{query.RateValue(1), query.RateValue(2)})},
		{name: "range of counters", v: query.ListValue([]query.Value{query.CountValue(1)})},
		{name: "bad spec", v: query.RatioValue(0.5), spec: ".f"},
		{name: "float type on glyph", v: query.RatioValue(0.5), spec: ".2f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.v, tt.conv, tt.spec)
			if !errors.Is(err, ErrRender) {
				t.Fatalf("err = %v, want ErrRender", err)
			}
			var re *Error
			if !errors.As(err, &re) {
				t.Errorf("err %T is not a *Error", err)
			}
		})
	}
}
