package menu

import (
	"sync"

	"autosubsync/internal/subsync"
)

// Session carries state that outlives one attempt but not the process: the
// engine the viewer picked last, used to preselect the engine menu.
type Session struct {
	mu         sync.Mutex
	lastEngine subsync.Engine
}

// NewSession starts with ffsubsync as the remembered engine.
func NewSession() *Session {
	return &Session{lastEngine: subsync.FFSubsync}
}

// LastEngine returns the remembered engine.
func (s *Session) LastEngine() subsync.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastEngine
}

// SetLastEngine records the viewer's engine choice.
func (s *Session) SetLastEngine(engine subsync.Engine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastEngine = engine
}
