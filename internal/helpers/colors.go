package helpers

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Palette holds the colors used for console output
type Palette struct {
	Success *color.Color
	Error   *color.Color
	Warning *color.Color
	Info    *color.Color
	Title   *color.Color
	Accent  *color.Color
	Muted   *color.Color
}

// LightPalette is used when the light theme is active
var LightPalette = Palette{
	Success: color.New(color.FgGreen, color.Bold),
	Error:   color.New(color.FgRed, color.Bold),
	Warning: color.New(color.FgYellow, color.Bold),
	Info:    color.New(color.FgBlue),
	Title:   color.New(color.FgMagenta, color.Bold),
	Accent:  color.New(color.FgHiYellow, color.Bold),
	Muted:   color.New(color.FgHiBlack),
}

// DarkPalette is used when the dark theme is active
var DarkPalette = Palette{
	Success: color.New(color.FgHiGreen, color.Bold),
	Error:   color.New(color.FgHiRed, color.Bold),
	Warning: color.New(color.FgHiYellow, color.Bold),
	Info:    color.New(color.FgCyan, color.Bold),
	Title:   color.New(color.FgHiMagenta, color.Bold),
	Accent:  color.New(color.FgYellow, color.Bold),
	Muted:   color.New(color.FgWhite),
}

var (
	mu      sync.RWMutex
	current = LightPalette
	out     io.Writer = os.Stdout
)

// SetPalette switches the palette used by the Print helpers
func SetPalette(p Palette) {
	mu.Lock()
	defer mu.Unlock()
	current = p
}

// CurrentPalette returns the active palette
func CurrentPalette() Palette {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetOutput redirects the Print helpers. A nil writer restores stdout.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	out = w
}

func printf(c *color.Color, prefix, format string, args ...interface{}) {
	mu.RLock()
	w := out
	mu.RUnlock()
	c.Fprintf(w, prefix+format+"\n", args...)
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	printf(CurrentPalette().Success, "✅ ", format, args...)
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	printf(CurrentPalette().Error, "❌ ", format, args...)
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	printf(CurrentPalette().Warning, "⚠️  ", format, args...)
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	printf(CurrentPalette().Info, "ℹ️  ", format, args...)
}

// PrintTitle prints a title
func PrintTitle(format string, args ...interface{}) {
	printf(CurrentPalette().Title, "🎯 ", format, args...)
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	mu.RLock()
	w := out
	mu.RUnlock()
	fmt.Fprintln(w, strings.Repeat("─", 80))
}

// IsTerminal checks if output is going to a terminal
func IsTerminal() bool {
	fileInfo, _ := os.Stdout.Stat()
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
