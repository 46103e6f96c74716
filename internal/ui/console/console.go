// Package console renders the countdown as a single rewritten terminal line.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"teachtimer/internal/core/session"
	"teachtimer/internal/core/timekeeper"
)

const (
	barWidth   = 30
	doneBanner = "Time is up."
)

// Renderer writes views to a terminal.
type Renderer struct {
	mu       sync.Mutex
	out      io.Writer
	lastLine string
	finished bool
}

var _ session.Renderer = (*Renderer)(nil)

// New creates a Renderer writing to out.
func New(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Render redraws the status line. The completion banner is printed once
// per completion on its own line.
func (renderer *Renderer) Render(view session.View) {
	renderer.mu.Lock()
	defer renderer.mu.Unlock()

	line := Line(view)
	if line != renderer.lastLine {
		padding := ""
		if extra := len(renderer.lastLine) - len(line); extra > 0 {
			padding = strings.Repeat(" ", extra)
		}
		fmt.Fprintf(renderer.out, "\r%s%s", line, padding)
		renderer.lastLine = line
	}

	if view.JustCompleted && !renderer.finished {
		fmt.Fprintf(renderer.out, "\n%s\n", doneBanner)
		renderer.lastLine = ""
	}
	renderer.finished = view.JustCompleted
}

// Line formats the status line for view.
func Line(view session.View) string {
	filled := int(view.Progress / 100 * barWidth)
	filled = timekeeper.Clamp(filled, 0, barWidth)
	bar := strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled)

	state := "paused"
	if view.Running {
		state = "running"
	}
	if marker := warningMarker(view.Warning); marker != "" {
		state += " " + marker
	}
	return fmt.Sprintf("%s [%s] %3.0f%% %s", view.Label, bar, view.Progress, state)
}

func warningMarker(level timekeeper.WarningLevel) string {
	switch level {
	case timekeeper.WarningFinalMinute:
		return "(final minute)"
	case timekeeper.WarningFinalTen:
		return "(final seconds!)"
	default:
		return ""
	}
}
