// Package printer formats console output for the non-interactive galley
// commands.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/five82/galley/internal/recipe"
	"github.com/five82/galley/internal/state"
)

func init() {
	// Users can disable with NO_COLOR
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)
	bold   = color.New(color.Bold)
)

var (
	mu     sync.Mutex
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetOutput redirects printing, returning a func that restores the previous
// writers.
func SetOutput(out, errOut io.Writer) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prevOut, prevErr := stdout, stderr
	stdout, stderr = out, errOut
	return func() {
		mu.Lock()
		defer mu.Unlock()
		stdout, stderr = prevOut, prevErr
	}
}

func writers() (io.Writer, io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	return stdout, stderr
}

// Success prints a success message in green with a checkmark prefix.
func Success(format string, a ...any) {
	out, _ := writers()
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		msg = "✓ " + msg
	}
	green.Fprint(out, msg)
}

// Info prints an informational message in the default color.
func Info(format string, a ...any) {
	out, _ := writers()
	fmt.Fprintf(out, format, a...)
}

// Warning prints a warning message in yellow to stderr.
func Warning(format string, a ...any) {
	_, errOut := writers()
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "⚠️") {
		msg = "⚠️  " + msg
	}
	yellow.Fprint(errOut, msg)
}

// Step prints a step message with emphasis.
func Step(format string, a ...any) {
	out, _ := writers()
	cyan.Fprintf(out, "→ %s", fmt.Sprintf(format, a...))
}

// Error prints a formatted error with title, explanation, and suggestions to
// stderr and returns a plain error carrying the title for Cobra.
func Error(title string, explanation string, suggestions []string) error {
	_, errOut := writers()
	red.Fprintf(errOut, "%s\n\n", title)
	if explanation != "" {
		fmt.Fprintf(errOut, "%s\n", explanation)
	}
	if len(suggestions) > 0 {
		fmt.Fprintf(errOut, "\n")
		if len(suggestions) == 1 {
			fmt.Fprintf(errOut, "%s\n", suggestions[0])
		} else {
			fmt.Fprintf(errOut, "Either:\n")
			for i, suggestion := range suggestions {
				fmt.Fprintf(errOut, "  %d. %s\n", i+1, suggestion)
			}
		}
	}
	return fmt.Errorf("%s", title)
}

// Recipes prints one line per recipe: name, cuisine, and the id dimmed.
func Recipes(feed recipe.Feed) {
	out, _ := writers()
	if len(feed) == 0 {
		faint.Fprintln(out, "No recipes")
		return
	}
	nameWidth := 0
	for _, r := range feed {
		if n := len([]rune(r.Name)); n > nameWidth {
			nameWidth = n
		}
	}
	for _, r := range feed {
		pad := strings.Repeat(" ", nameWidth-len([]rune(r.Name)))
		bold.Fprint(out, r.Name)
		fmt.Fprint(out, pad, "  ")
		cyan.Fprint(out, r.Cuisine)
		fmt.Fprint(out, "  ")
		faint.Fprintln(out, r.ID)
	}
}

// Status prints a one-line summary of a fetch state.
func Status(st state.State) {
	out, _ := writers()
	switch st.Phase {
	case state.Loaded:
		green.Fprintf(out, "✓ %d recipes loaded\n", len(st.Feed))
	case state.Loading:
		cyan.Fprintln(out, "→ Loading recipes…")
	case state.Failed:
		red.Fprintf(out, "✗ %s\n", st.Err)
	default:
		faint.Fprintln(out, "Idle")
	}
}
