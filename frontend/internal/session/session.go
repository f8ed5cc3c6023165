// Package session keeps the state machine of every live previewer mount.
package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/previewer-dev/previewer/frontend/internal/preview"
	"github.com/previewer-dev/previewer/shared/logger"
	"github.com/previewer-dev/previewer/shared/middleware/metrics"
)

// BasePath is the URL prefix of all session routes.
const BasePath = "/preview/"

// Path returns the page URL of a session.
func Path(id string) string {
	return BasePath + id + "/"
}

// ContentPath returns the prefix content handles of a session are served under.
func ContentPath(id string) string {
	return Path(id) + "content/"
}

type Session struct {
	ID      string
	Machine *preview.Machine
	Handles *preview.HandleStore
}

// MachineFactory builds the state machine of a new session around its handle store.
type MachineFactory func(handles *preview.HandleStore) *preview.Machine

// Store is bounded and expiring; evicted sessions release their content handles.
type Store struct {
	sessions *expirable.LRU[string, *Session]
}

func NewStore(maxSessions int, ttl time.Duration) *Store {
	onEvict := func(id string, s *Session) {
		s.Machine.Close()
		metrics.ActiveSessions.Dec()
		logger.Log.Debug("preview session ended", "session_id", id)
	}
	return &Store{sessions: expirable.NewLRU[string, *Session](maxSessions, onEvict, ttl)}
}

// Create registers a new session. Session ids are random and double as capability tokens.
func (s *Store) Create(newMachine MachineFactory) *Session {
	id := uuid.NewString()
	handles := preview.NewHandleStore(ContentPath(id))
	session := &Session{ID: id, Machine: newMachine(handles), Handles: handles}
	s.sessions.Add(id, session)
	metrics.ActiveSessions.Inc()
	return session
}

func (s *Store) Get(id string) (*Session, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	return s.sessions.Get(id)
}

// Remove ends a session immediately.
func (s *Store) Remove(id string) {
	s.sessions.Remove(id)
}

func (s *Store) Len() int {
	return s.sessions.Len()
}
