package preview

import (
	"sync"

	"github.com/google/uuid"

	"github.com/previewer-dev/previewer/shared/domain"
)

// Content is the bytes behind a content handle.
type Content struct {
	MimeType string
	Sandbox  domain.SandboxPolicy
	Data     []byte
}

// HandleStore holds locally addressable content, the server-side counterpart of object URLs.
// Handles live until revoked.
type HandleStore struct {
	mu       sync.RWMutex
	contents map[string]Content
	prefix   string
}

// NewHandleStore creates a store whose handle URLs start with prefix, e.g. "/preview/content/".
func NewHandleStore(prefix string) *HandleStore {
	return &HandleStore{contents: make(map[string]Content), prefix: prefix}
}

// Create registers content and returns its handle.
func (s *HandleStore) Create(content Content) string {
	handle := uuid.NewString()
	s.mu.Lock()
	s.contents[handle] = content
	s.mu.Unlock()
	return handle
}

func (s *HandleStore) Get(handle string) (Content, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contents[handle]
	return c, ok
}

// Revoke releases a handle; unknown handles are ignored.
func (s *HandleStore) Revoke(handle string) {
	s.mu.Lock()
	delete(s.contents, handle)
	s.mu.Unlock()
}

// RevokeAll releases every handle of the store.
func (s *HandleStore) RevokeAll() {
	s.mu.Lock()
	clear(s.contents)
	s.mu.Unlock()
}

func (s *HandleStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contents)
}

// URL returns the address a handle is served at.
func (s *HandleStore) URL(handle string) string {
	return s.prefix + handle
}
