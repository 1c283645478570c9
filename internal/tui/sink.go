package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/i474232898/weather-companion/internal/app"
)

// viewMsg carries a freshly applied view into the program.
type viewMsg app.View

// Sink forwards views from the consumer loop to a running program. Views
// rendered before Attach are dropped; the model picks up the latest one
// when it starts.
type Sink struct {
	mu sync.Mutex
	p  *tea.Program
}

func NewSink() *Sink {
	return &Sink{}
}

// Attach sets the program views are delivered to.
func (s *Sink) Attach(p *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p = p
}

// Render blocks until the program has taken the view, or returns at once if
// the program has exited.
func (s *Sink) Render(v app.View) {
	s.mu.Lock()
	p := s.p
	s.mu.Unlock()

	if p != nil {
		p.Send(viewMsg(v))
	}
}
