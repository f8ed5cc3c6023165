// Package preview owns the state of one previewer mount: the attachment listing, the
// selected preview and the busy gate that allows one selection at a time.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/previewer-dev/previewer/frontend/internal/classify"
	"github.com/previewer-dev/previewer/shared/domain"
	internal_errors "github.com/previewer-dev/previewer/shared/errors"
	"github.com/previewer-dev/previewer/shared/hostctx"
	"github.com/previewer-dev/previewer/shared/logger"
	"github.com/previewer-dev/previewer/shared/middleware/metrics"
)

type ScopeResolver interface {
	Resolve(ctx context.Context, project string, identity domain.RunIdentity) (domain.Scope, error)
	ResolveForContent(ctx context.Context, project string, identity domain.RunIdentity) (domain.Scope, error)
}

type AttachmentLoader interface {
	List(ctx context.Context, project string, scope domain.Scope) (domain.Attachments, error)
	FetchContent(ctx context.Context, project string, scope domain.Scope, attachmentID string) ([]byte, error)
}

// Opener opens a URL in a new external browsing context.
type Opener interface {
	Open(url string) error
}

type Machine struct {
	host     hostctx.Provider
	resolver ScopeResolver
	loader   AttachmentLoader
	handles  *HandleStore
	log      *slog.Logger

	mu          sync.Mutex
	state       State
	mounted     bool
	project     string
	identity    domain.RunIdentity
	subscribers map[int]func(State)
	nextSub     int
}

func New(host hostctx.Provider, resolver ScopeResolver, loader AttachmentLoader, handles *HandleStore) *Machine {
	return &Machine{
		host:        host,
		resolver:    resolver,
		loader:      loader,
		handles:     handles,
		log:         logger.Component("preview"),
		state:       initialState(),
		subscribers: make(map[int]func(State)),
	}
}

// State returns a snapshot of the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers fn for every state change. The returned func unsubscribes.
func (m *Machine) Subscribe(fn func(State)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subscribers[id] = fn
	return func() {
		m.mu.Lock()
		delete(m.subscribers, id)
		m.mu.Unlock()
	}
}

// transition applies fn under the lock and notifies subscribers outside of it.
func (m *Machine) transition(fn func(State) State) State {
	m.mu.Lock()
	m.state = fn(m.state)
	snapshot, subs := m.snapshotLocked()
	m.mu.Unlock()

	notify(snapshot, subs)
	return snapshot
}

func (m *Machine) snapshotLocked() (State, []func(State)) {
	subs := make([]func(State), 0, len(m.subscribers))
	for _, s := range m.subscribers {
		subs = append(subs, s)
	}
	return m.state, subs
}

func notify(snapshot State, subs []func(State)) {
	for _, s := range subs {
		s(snapshot)
	}
}

// Mount loads the attachment listing. It runs once; later calls return nil without effect.
// Failures move the machine to StatusFailed and are returned.
func (m *Machine) Mount(ctx context.Context) error {
	m.mu.Lock()
	if m.mounted {
		m.mu.Unlock()
		return nil
	}
	m.mounted = true
	m.mu.Unlock()

	project, err := m.host.ActiveProject(ctx)
	if err != nil || project == nil {
		m.log.Warn("invalid project", "error", err)
		m.transition(func(s State) State { return s.failed("No active project available.") })
		if err != nil {
			return fmt.Errorf("%w: %w", internal_errors.ErrContextUnavailable, err)
		}
		return internal_errors.ErrContextUnavailable
	}

	identity, err := m.host.Identity(ctx)
	if err != nil {
		m.log.Warn("invalid run identity", "error", err)
		m.transition(func(s State) State { return s.failed("No test run selected.") })
		return fmt.Errorf("%w: %w", internal_errors.ErrContextUnavailable, err)
	}

	m.mu.Lock()
	m.project = project.Name
	m.identity = identity
	m.mu.Unlock()

	scope, err := m.resolver.Resolve(ctx, project.Name, identity)
	if errors.Is(err, internal_errors.ErrNoAttachments) {
		m.transition(State.empty)
		return nil
	}
	if err != nil {
		return m.mountFailed(err)
	}

	attachments, err := m.loader.List(ctx, project.Name, scope)
	if err != nil {
		return m.mountFailed(err)
	}

	m.log.Debug("attachments listed", "scope", scope.String(), "count", len(attachments))
	m.transition(func(s State) State { return s.listed(attachments) })
	return nil
}

func (m *Machine) mountFailed(err error) error {
	m.log.Error("loading attachments failed", "error", err)
	m.transition(func(s State) State { return s.failed("Attachments could not be loaded.") })
	return err
}

// Select loads and previews one listed attachment. While a selection is loading, further
// selections fail with ErrBusy; they are not queued.
func (m *Machine) Select(ctx context.Context, attachmentID string) error {
	m.mu.Lock()
	next, err := m.state.beginSelection()
	if err != nil {
		m.mu.Unlock()
		if errors.Is(err, ErrBusy) {
			metrics.RejectedSelections.Inc()
		}
		return err
	}
	attachment, ok := domain.FindAttachment(m.state.Attachments, attachmentID)
	if !ok {
		m.mu.Unlock()
		return ErrUnknownAttachment
	}
	project, identity := m.project, m.identity
	m.state = next
	snapshot, subs := m.snapshotLocked()
	m.mu.Unlock()
	notify(snapshot, subs)

	p, err := m.load(ctx, project, identity, attachment)
	if err != nil {
		m.log.Error("loading attachment failed", "attachment_id", attachmentID, "error", err)
		m.transition(func(s State) State {
			return s.selectionFailed(fmt.Sprintf("%s could not be loaded.", attachment.FileName))
		})
		return err
	}

	var previous *Preview
	m.transition(func(s State) State {
		previous = s.Selected
		return s.previewing(p)
	})
	if previous != nil && previous.handle != "" {
		m.handles.Revoke(previous.handle)
	}
	metrics.Previews.WithLabelValues(p.MimeType).Inc()
	return nil
}

// load re-resolves the scope, then fetches and classifies the content. The resolution must
// finish first because the content call depends on the resolved sub-result.
func (m *Machine) load(ctx context.Context, project string, identity domain.RunIdentity, attachment domain.AttachmentSummary) (*Preview, error) {
	scope, err := m.resolver.ResolveForContent(ctx, project, identity)
	if err != nil {
		return nil, err
	}

	content, err := m.loader.FetchContent(ctx, project, scope, attachment.ID)
	if err != nil {
		return nil, err
	}

	c := classify.Classify(attachment.FileName)
	p := &Preview{
		AttachmentID: attachment.ID,
		Title:        attachment.FileName,
		MimeType:     c.MimeType,
		DownloadURL:  attachment.DownloadURL,
		Sandbox:      c.Sandbox,
	}

	if c.Inline() {
		text := strings.ToValidUTF8(string(content), "\uFFFD")
		p.Text = &text
		return p, nil
	}

	p.handle = m.handles.Create(Content{MimeType: c.MimeType, Sandbox: c.Sandbox, Data: content})
	p.URL = m.handles.URL(p.handle)
	if w, h, ok := imageDimensions(c.MimeType, content); ok {
		p.Width, p.Height = w, h
	}
	return p, nil
}

// Download opens the selected attachment's download URL. It does not change state.
func (m *Machine) Download(opener Opener) error {
	m.mu.Lock()
	selected := m.state.Selected
	m.mu.Unlock()

	if selected == nil {
		return ErrNothingSelected
	}
	if selected.DownloadURL == "" {
		return ErrNoDownload
	}
	return opener.Open(selected.DownloadURL)
}

// Close releases all content handles of the mount.
func (m *Machine) Close() {
	m.handles.RevokeAll()
}
