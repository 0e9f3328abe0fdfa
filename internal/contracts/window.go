package contracts

import (
	"fmt"
	"strings"
)

// Window is a relative history window, anchored on a series' own last
// timestamp rather than wall-clock time.
type Window string

const (
	Window1D  Window = "1d"
	Window5D  Window = "5d"
	Window1Mo Window = "1mo"
	Window3Mo Window = "3mo"
	Window1Y  Window = "1y"
	Window3Y  Window = "3y"
	Window5Y  Window = "5y"
)

// Windows lists every valid window, in ascending span order.
func Windows() []Window {
	return []Window{Window1D, Window5D, Window1Mo, Window3Mo, Window1Y, Window3Y, Window5Y}
}

// Valid reports whether w is a known window value.
func (w Window) Valid() bool {
	switch w {
	case Window1D, Window5D, Window1Mo, Window3Mo, Window1Y, Window3Y, Window5Y:
		return true
	}
	return false
}

// ParseWindow converts a string into a Window. An unknown value is a
// caller bug and fails loudly.
func ParseWindow(s string) (Window, error) {
	w := Window(strings.ToLower(strings.TrimSpace(s)))
	if !w.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownWindow, s)
	}
	return w, nil
}
