package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentstation/proverbs/pkg/notifier"
)

// NoticeMsg carries a client notification into the browser's status line.
type NoticeMsg struct {
	Level   notifier.Level
	Message string
}

// Relay is a notifier that forwards to a running program and otherwise to
// a fallback. The client is built before the program exists, so it is
// handed the relay and the program is attached later.
type Relay struct {
	mu       sync.RWMutex
	program  *tea.Program
	fallback notifier.Notifier
}

// NewRelay creates a relay that uses fallback while no program is attached.
func NewRelay(fallback notifier.Notifier) *Relay {
	if fallback == nil {
		fallback = notifier.Discard
	}
	return &Relay{fallback: fallback}
}

// Attach routes notifications to p until Detach.
func (r *Relay) Attach(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Detach routes notifications back to the fallback.
func (r *Relay) Detach() {
	r.Attach(nil)
}

// Notify implements notifier.Notifier.
func (r *Relay) Notify(level notifier.Level, message string) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()

	if p == nil {
		r.fallback.Notify(level, message)
		return
	}
	p.Send(NoticeMsg{Level: level, Message: message})
}
