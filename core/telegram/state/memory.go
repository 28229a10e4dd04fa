package state

import (
	"sync"

	"github.com/kovalevdev/chatmate/core/logger"
	tghelpers "github.com/kovalevdev/chatmate/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

type memoryManager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

// NewMemoryManager constructs the in-memory Manager implementation. State is
// volatile: nothing survives a process restart.
func NewMemoryManager() Manager {
	return &memoryManager{
		sessions: make(map[int64]*Session),
		locks:    make(map[int64]*sync.Mutex),
	}
}

func (m *memoryManager) session(userID int64) *Session {
	sess, ok := m.sessions[userID]
	if !ok {
		sess = &Session{State: StateIdle}
		m.sessions[userID] = sess
	}
	return sess
}

// SetState sets the FSM state for the given user.
func (m *memoryManager) SetState(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(userID).State = st
}

// GetState returns the current FSM state of a user, or StateIdle if none exists.
func (m *memoryManager) GetState(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[userID]; ok {
		return sess.State
	}
	return StateIdle
}

// ClearState resets the FSM state to idle without touching mode sessions.
func (m *memoryManager) ClearState(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[userID]; ok {
		sess.State = StateIdle
	}
}

// HasState checks if a user has an active state other than idle.
func (m *memoryManager) HasState(userID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[userID]
	return ok && sess.State != StateIdle
}

// Talk returns a copy of the user's persona session.
func (m *memoryManager) Talk(userID int64) (TalkSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[userID]; ok && sess.Talk != nil {
		return *sess.Talk, true
	}
	return TalkSession{}, false
}

// SetTalk replaces the persona session. Switching personas replaces, never merges.
func (m *memoryManager) SetTalk(userID int64, s TalkSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(userID).Talk = &s
}

// ClearTalk removes the persona session, ending the dialogue.
func (m *memoryManager) ClearTalk(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[userID]; ok {
		sess.Talk = nil
	}
}

// Quiz returns a copy of the user's quiz session.
func (m *memoryManager) Quiz(userID int64) (QuizSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[userID]; ok && sess.Quiz != nil {
		return *sess.Quiz, true
	}
	return QuizSession{}, false
}

// SetQuiz stores the quiz session for the user.
func (m *memoryManager) SetQuiz(userID int64, s QuizSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(userID).Quiz = &s
}

// Translate returns a copy of the user's translator session.
func (m *memoryManager) Translate(userID int64) (TranslateSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[userID]; ok && sess.Translate != nil {
		return *sess.Translate, true
	}
	return TranslateSession{}, false
}

// SetTranslate stores the translator session for the user.
func (m *memoryManager) SetTranslate(userID int64, s TranslateSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(userID).Translate = &s
}

// Reset removes the entire session for a user: state and all mode data.
func (m *memoryManager) Reset(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// EnterMode switches the user into a new mode, wiping whatever was active.
// Mode switching is destructive, not stacked.
func (m *memoryManager) EnterMode(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = &Session{State: st}
}

// WithUser serializes fn against other handlers for the same user. Distinct
// users are never blocked by each other.
func (m *memoryManager) WithUser(userID int64, fn func() error) error {
	m.locksMu.Lock()
	lock, ok := m.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[userID] = lock
	}
	m.locksMu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn()
}

// InProgress reports whether the user currently has an active FSM state.
// Talk mode is routed by session presence instead and is deliberately not
// part of this check: keyword triggers still work during a persona dialogue.
func (m *memoryManager) InProgress(userID int64) bool {
	return m.HasState(userID)
}

// ManagerHandler executes the handler function registered for the user's current state, if any.
func (m *memoryManager) ManagerHandler(c tele.Context) error {
	userID := c.Sender().ID
	current := m.GetState(userID)
	ctx := tghelpers.BuildContext(c)
	logger.Debug(ctx, "tg", "fsm.manager",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("state", string(current)),
	)

	if handler, ok := fsmHandlers[current]; ok {
		return handler(c)
	}
	return nil
}
