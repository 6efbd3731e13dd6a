package session

import (
	"time"

	"course-assistant-be/internal/repository/memory"
	"course-assistant-be/pkg/store"
)

// Manager owns conversation turn lifecycle: lazy session creation, history
// reads and the FIFO bound applied at append time.
type Manager struct {
	sessionRepo *memory.SessionRepository
	maxTurns    int
}

// NewManager creates a session manager. maxHistory is counted in exchanges;
// each exchange contributes a user turn and an assistant turn.
func NewManager(sessionRepo *memory.SessionRepository, maxHistory int) *Manager {
	maxTurns := maxHistory * 2
	if maxTurns <= 0 {
		maxTurns = 2
	}
	return &Manager{
		sessionRepo: sessionRepo,
		maxTurns:    maxTurns,
	}
}

// Acquire serializes the read-history -> append-turn sequence for one
// session. Callers must invoke the returned release function.
func (m *Manager) Acquire(sessionID string) func() {
	return m.sessionRepo.Lock(sessionID)
}

// GetHistory returns the session's turns oldest first, or nil for an
// unknown session.
func (m *Manager) GetHistory(sessionID string) []store.Turn {
	session, found := m.sessionRepo.Get(sessionID)
	if !found {
		return nil
	}
	turns := make([]store.Turn, len(session.Turns))
	copy(turns, session.Turns)
	return turns
}

// AppendExchange records one completed user/assistant exchange, creating the
// session lazily and evicting the oldest turns once the bound is exceeded.
// Exceeding the bound is never an error.
func (m *Manager) AppendExchange(sessionID, userText, answerText string) {
	session, found := m.sessionRepo.Get(sessionID)
	if !found {
		session = &store.Session{ID: sessionID}
	}

	now := time.Now()
	session.Turns = append(session.Turns,
		store.Turn{Role: store.TurnRoleUser, Text: userText, CreatedAt: now},
		store.Turn{Role: store.TurnRoleAssistant, Text: answerText, CreatedAt: now},
	)

	if excess := len(session.Turns) - m.maxTurns; excess > 0 {
		session.Turns = session.Turns[excess:]
	}

	m.sessionRepo.Save(session)
}

// Clear drops a session's history.
func (m *Manager) Clear(sessionID string) {
	m.sessionRepo.Delete(sessionID)
}
