package display

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/penwyp/go-career-timeline/internal/presentation/formatter"
)

// ANSI control sequences
const (
	enterAltScreen = "\033[?1049h"
	exitAltScreen  = "\033[?1049l"
	clearScreen    = "\033[2J"
	moveCursorHome = "\033[H"
	hideCursor     = "\033[?25l"
	showCursor     = "\033[?25h"
)

// TerminalDisplay redraws a timeline in place for watch mode
type TerminalDisplay struct {
	mu                sync.Mutex
	out               io.Writer
	formatter         formatter.Formatter
	title             string
	inAlternateScreen bool
	lastDraw          time.Time
}

func NewTerminalDisplay(out io.Writer, f formatter.Formatter, title string) *TerminalDisplay {
	return &TerminalDisplay{
		out:       out,
		formatter: f,
		title:     title,
	}
}

// EnterAlternateScreen switches to alternate screen buffer
func (td *TerminalDisplay) EnterAlternateScreen() {
	td.mu.Lock()
	defer td.mu.Unlock()

	if !td.inAlternateScreen {
		fmt.Fprint(td.out, enterAltScreen+clearScreen+moveCursorHome+hideCursor)
		td.inAlternateScreen = true
	}
}

// ExitAlternateScreen returns to normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	td.mu.Lock()
	defer td.mu.Unlock()

	if td.inAlternateScreen {
		fmt.Fprint(td.out, clearScreen+moveCursorHome+showCursor+exitAltScreen)
		td.inAlternateScreen = false
	}
}

// Render draws the timeline under a one-line status header. The frame is
// built in memory first so a failed format leaves the screen untouched.
func (td *TerminalDisplay) Render(tl model.Timeline) error {
	var frame bytes.Buffer
	fmt.Fprintf(&frame, "%s  ·  computed %s\n\n", td.title, tl.ComputedAt.Format("2006-01-02 15:04"))
	if err := td.formatter.Format(&frame, tl); err != nil {
		return err
	}

	td.mu.Lock()
	defer td.mu.Unlock()

	if td.inAlternateScreen {
		fmt.Fprint(td.out, clearScreen+moveCursorHome)
	}
	if _, err := td.out.Write(frame.Bytes()); err != nil {
		return err
	}
	td.lastDraw = time.Now()
	return nil
}

// LastDraw returns when the screen was last drawn
func (td *TerminalDisplay) LastDraw() time.Time {
	td.mu.Lock()
	defer td.mu.Unlock()
	return td.lastDraw
}
