// demo-mocks renders templates over synthetic history so the glyph output
// can be inspected without a real host or a history file.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gitlab.com/tinyland/lab/system-graph/collectors"
	"gitlab.com/tinyland/lab/system-graph/graph"
	"gitlab.com/tinyland/lab/system-graph/history"
)

// showcase covers every keyword and the main accessor forms.
var showcase = []string{
	graph.DefaultFormat,
	"{mem} {swap} {cpu}",
	"{loadavg.1}{loadavg.5}{loadavg.15}",
	"{net} {net.eth0} {net.wlan0.tx}",
	"{cpu[::-1]}",
	"{mem[0].free:,} of {mem[0].total:,} kB free",
	"{net[0].eth0.rx_speed!k:.1f} KiB/s down",
	"{cpu[0]:>8}|",
}

func main() {
	maxPoints := flag.Int("max-points", history.DefaultMaxPoints, "Data points per series")
	samples := flag.Int("samples", 10, "Number of synthetic samples")
	step := flag.Duration("step", 3*time.Second, "Time between synthetic samples")
	format := flag.String("format", "", "Render only this template")
	cores := flag.Int("cores", 4, "Core count for the load average scale")
	flag.Parse()

	if *maxPoints < 1 || *samples < 0 {
		fmt.Fprintln(os.Stderr, "demo-mocks: -max-points must be positive and -samples non-negative")
		os.Exit(2)
	}

	hist := history.New(*maxPoints, collectors.MockHistory(*samples, time.Now(), *step))
	src := history.Build(hist, *cores)

	fmt.Println("=== system-graph mock data demo ===")
	fmt.Printf("Samples: %d, points: %d, interfaces: %v\n", hist.Len(), src.MaxPoints(), src.Interfaces())
	fmt.Println()

	templates := showcase
	if *format != "" {
		templates = []string{*format}
	}

	failed := false
	for _, tmpl := range templates {
		line, err := graph.Format(tmpl, src)
		if err != nil {
			fmt.Printf("%-45q error: %v\n", tmpl, err)
			failed = true
			continue
		}
		fmt.Printf("%-45q %s\n", tmpl, line)
	}
	if failed {
		os.Exit(1)
	}
}
