package main

import (
	"fmt"
	"os"
	"strings"
)

// useProgressView resolves --ui. "auto" shows the progress view only on a
// terminal and never together with --quiet; "on" and "off" are taken as
// given.
func useProgressView(value string, quiet bool) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return !quiet && isTerminal(os.Stdout), nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}
