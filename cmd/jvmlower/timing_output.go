package main

import (
	"fmt"
	"io"

	"jvmlower/internal/driver"
)

func printTimings(out io.Writer, res *driver.Result) {
	if out == nil || res.Err != nil {
		return
	}
	if res.Cached {
		fmt.Fprintf(out, "  cached, lowered in %.1f ms\n", res.Timing.TotalMS)
		return
	}
	for _, p := range res.Timing.Phases {
		fmt.Fprintf(out, "  %-12s %8.2f ms  +%d\n", p.Name, p.DurationMS, p.Synthesized)
	}
	fmt.Fprintf(out, "  %-12s %8.2f ms  +%d\n", "total", res.Timing.TotalMS, res.Timing.Synthesized)
}
