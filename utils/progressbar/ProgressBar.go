// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// ProgressBar prints an incrementally filling bar to the terminal. It
// is safe for concurrent use, so workers running independent
// iterations may share a single bar and call Increment from separate
// goroutines.
type ProgressBar struct {
	mu sync.Mutex

	// width determines the number of characters wide that the progress
	// bar should be
	width float64

	// maxProgress determines the number of times Increment() should
	// be called before the progress bar reaches 100%.
	maxProgress float64

	// currentProgress measures the number of times Increment() was
	// called
	currentProgress float64

	startTime time.Time
	closed    bool
	bar       strings.Builder
}

// New returns a new progress bar that is width characters wide and
// reaches 100% capacity after max Increment() calls.
func New(width, max int) *ProgressBar {
	return &ProgressBar{
		width:       float64(width),
		maxProgress: float64(max),
		startTime:   time.Now(),
	}
}

// Increment increments the internal progress counter and redraws the
// bar. Each time an iteration is performed, Increment should be
// called.
func (p *ProgressBar) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
	p.display()
}

// Close closes the progress bar so that it will no longer display to
// the screen
func (p *ProgressBar) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		panic("close: close on closed progress bar")
	}
	p.closed = true
	fmt.Println() // Jump to next line after printed pbar
}

// display redraws the bar in place. Callers must hold p.mu.
func (p *ProgressBar) display() {
	p.bar.Reset()
	p.bar.Write([]byte("|"))

	currentProg := p.currentProgress / p.maxProgress * p.width
	for i := 0.0; i < currentProg; i++ {
		p.bar.Write([]byte("█"))
	}
	for i := currentProg; i < p.width; i++ {
		p.bar.Write([]byte(" "))
	}
	p.bar.Write([]byte(fmt.Sprintf("| [%.2f%v | elapsed: %v]",
		p.currentProgress/p.maxProgress*100, "%",
		time.Since(p.startTime).Truncate(time.Second))))

	fmt.Printf("\n\033[1A\033[K%v", p.bar.String())
}
