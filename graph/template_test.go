package graph

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"gitlab.com/tinyland/lab/system-graph/display/render"
	"gitlab.com/tinyland/lab/system-graph/history"
	"gitlab.com/tinyland/lab/system-graph/metrics"
	"gitlab.com/tinyland/lab/system-graph/query"
)

var now = time.Unix(1700000000, 0)

func build(maxPoints int, samples ...metrics.Sample) *history.Series {
	return history.Build(history.New(maxPoints, samples), 1)
}

func netSample(at time.Time, cpuTotal, cpuIdle, rx uint64) metrics.Sample {
	return metrics.Sample{
		Timestamp: at,
		Mem:       metrics.MemStat{Total: 8000, Free: 2000},
		Swap:      metrics.SwapStat{Total: 0, Free: 0},
		LoadAvg:   metrics.LoadAvgStat{Load1: 0.5, Load5: 0.25, Load15: 1},
		CPU:       metrics.CPUStat{Total: cpuTotal, Idle: cpuIdle},
		Net: metrics.NetStat{Interfaces: []metrics.IfCounters{
			{Name: "eth0", RxBytes: rx, Time: at},
			{Name: "eth1", RxBytes: rx, Time: at},
		}},
	}
}

func TestCPUScenario(t *testing.T) {
	src := build(25,
		netSample(now, 1000, 900, 0),
		netSample(now.Add(-time.Second), 900, 850, 0),
	)

	got, err := Format("{cpu[0]}", src)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if want := string(render.Glyph(0.5)); got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
	if render.GlyphIndex(0.5) != 4 {
		t.Errorf("GlyphIndex(0.5) = %d, want 4", render.GlyphIndex(0.5))
	}
}

func TestNetSpeedScenario(t *testing.T) {
	src := build(25,
		netSample(now, 0, 0, 2048),
		netSample(now.Add(-time.Second), 0, 0, 1024),
	)

	tests := []struct {
		tmpl string
		want string
	}{
		{tmpl: "{net[0].eth0.rx_speed:.2f}", want: "1.00"},
		{tmpl: "{net[0].eth1.rx_speed!k:.2f}", want: "1.00"},
		{tmpl: "{net[0].rx_speed:.1f} KiB/s", want: "2.0 KiB/s"},
		{tmpl: "{net[0].eth0.rx_speed!m:.6f}", want: "0.000977"},
		{tmpl: "{net[0].0.rx_bytes}", want: "1024"},
	}

	for _, tt := range tests {
		t.Run(tt.tmpl, func(t *testing.T) {
			got, err := Format(tt.tmpl, src)
			if err != nil {
				t.Fatalf("Format: %v", err)
			}
			if got != tt.want {
				t.Errorf("Format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShortHistoryPadding(t *testing.T) {
	src := build(5,
		netSample(now, 0, 0, 0),
		netSample(now.Add(-time.Second), 0, 0, 0),
	)

	got, err := Format("{mem}", src)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	runes := []rune(got)
	if len(runes) != 5 {
		t.Fatalf("Format = %q (%d glyphs), want 5", got, len(runes))
	}
	full := render.Glyph(0.75)
	if runes[0] != full || runes[1] != full {
		t.Errorf("first glyphs = %q, want %q", string(runes[:2]), full)
	}
	if string(runes[2:]) != "   " {
		t.Errorf("padding = %q, want three blanks", string(runes[2:]))
	}
}

func TestSliceMatchesWholeSeries(t *testing.T) {
	src := build(6,
		netSample(now, 300, 100, 9000),
		netSample(now.Add(-time.Second), 200, 90, 5000),
		netSample(now.Add(-2*time.Second), 100, 50, 1000),
	)

	whole, err := Format("{net}", src)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	sliced, err := Format("{net[:]}", src)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if whole != sliced {
		t.Errorf("{net} = %q, {net[:]} = %q", whole, sliced)
	}
	if n := utf8.RuneCountInString(whole); n != 6 {
		t.Errorf("{net} has %d glyphs, want 6", n)
	}
}

func TestTemplateLiterals(t *testing.T) {
	src := build(3, netSample(now, 0, 0, 0))

	tests := []struct {
		tmpl string
		want string
	}{
		{tmpl: "", want: ""},
		{tmpl: "plain text", want: "plain text"},
		{tmpl: "{{mem}}", want: "{mem}"},
		{tmpl: "}}{{", want: "}{"},
		{tmpl: "a\nb", want: "a\nb"},
		{tmpl: "[{mem[0]}]", want: "[" + string(render.Glyph(0.75)) + "]"},
		{tmpl: "{mem[0]:>3}|{swap[0]}", want: "  " + string(render.Glyph(0.75)) + "| "},
		{tmpl: "{mem[0].total:,} kB", want: "8,000 kB"},
	}

	for _, tt := range tests {
		t.Run(tt.tmpl, func(t *testing.T) {
			got, err := Format(tt.tmpl, src)
			if err != nil {
				t.Fatalf("Format: %v", err)
			}
			if got != tt.want {
				t.Errorf("Format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultFormat(t *testing.T) {
	src := build(25,
		netSample(now, 1000, 900, 2048),
		netSample(now.Add(-time.Second), 900, 850, 1024),
	)

	got, err := Format(DefaultFormat, src)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	for _, label := range []string{"Mem:", "|Swap:", "|Load:", "|CPU:", "|Net:"} {
		if !strings.Contains(got, label) {
			t.Errorf("output %q lacks %q", got, label)
		}
	}
	// Five labels with one glyph each, plus the two extra load windows.
	if n := utf8.RuneCountInString(got); n != len("Mem:|Swap:|Load:|CPU:|Net:")+7 {
		t.Errorf("output %q has %d runes", got, n)
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []string{
		"}",
		"Mem:{mem",
		"{mem[0}",
		"{mem!}",
		"{mem!km}",
		"{a{b}}",
		"{mem:{width}}",
		"{mem!k.2f}",
	}

	for _, tmpl := range tests {
		t.Run(tmpl, func(t *testing.T) {
			_, err := Compile(tmpl)
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("Compile(%q) err = %v, want ErrSyntax", tmpl, err)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("err %T is not a *SyntaxError", err)
			}
			if se.Template != tmpl {
				t.Errorf("Template = %q, want %q", se.Template, tmpl)
			}
		})
	}
}

func TestBogusKeyword(t *testing.T) {
	src := build(3, netSample(now, 0, 0, 0))

	got, err := Format("Mem:{mem[0]}|{bogus}", src)
	if err == nil {
		t.Fatalf("Format succeeded with %q, want error", got)
	}
	if got != "" {
		t.Errorf("Format returned partial output %q", got)
	}
	if !errors.Is(err, query.ErrInvalidField) {
		t.Errorf("err = %v, want ErrInvalidField", err)
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Errorf("error %q does not name the field", err)
	}
}

func TestFieldErrorsAtCompileTime(t *testing.T) {
	_, err := Compile("{mem[x]}")
	if !errors.Is(err, query.ErrInvalidField) {
		t.Errorf("Compile err = %v, want ErrInvalidField", err)
	}
}

func TestRenderErrorsAbortLine(t *testing.T) {
	src := build(3,
		netSample(now, 0, 0, 2048),
		netSample(now.Add(-time.Second), 0, 0, 1024),
	)

	tests := []string{
		"{net.rx_speed}",
		"{net[0:2].eth0.rx_speed!m}",
		"{mem[0]!k}",
		"{net[0].rx_speed!q}",
		"{mem[0]:d}",
	}
	for _, tmpl := range tests {
		t.Run(tmpl, func(t *testing.T) {
			got, err := Format(tmpl, src)
			if !errors.Is(err, render.ErrRender) {
				t.Fatalf("err = %v, want ErrRender", err)
			}
			if got != "" {
				t.Errorf("partial output %q", got)
			}
		})
	}
}

func TestExecuteIsRepeatable(t *testing.T) {
	src := build(4,
		netSample(now, 300, 100, 9000),
		netSample(now.Add(-time.Second), 200, 90, 5000),
	)
	tmpl, err := Compile("{net}{net.eth0.rx}{cpu[::-1]}{loadavg.15}")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	first, err := tmpl.Execute(src)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	second, err := tmpl.Execute(src)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first != second {
		t.Errorf("executions differ: %q vs %q", first, second)
	}
	if got := tmpl.Keywords(); strings.Join(got, ",") != "net,cpu,loadavg" {
		t.Errorf("Keywords() = %v", got)
	}
}
