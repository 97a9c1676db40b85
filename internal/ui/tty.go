package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-isatty"
)

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ColorMode controls when console output is colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode parses a color mode name. An empty name is ColorAuto.
func ParseColorMode(s string) (ColorMode, error) {
	switch mode := ColorMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
	}
}

// Enabled reports whether output to w should be colored under this mode.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return IsTTY(w)
	}
}
