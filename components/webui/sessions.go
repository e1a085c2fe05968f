package webui

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/billdhq/admin-console/components/analysis"
)

// defaultSessionTTL bounds how long an untouched session survives when the
// browser's close beacon never arrives.
const defaultSessionTTL = 30 * time.Minute

type session struct {
	view     *analysis.View
	lastSeen time.Time
}

// SessionManager tracks one open analysis view per browser session. All
// views share a single resize notifier so a viewport change reaches every
// open packer. Sessions idle past the TTL are swept on the next open.
type SessionManager struct {
	mu        sync.Mutex
	views     map[string]*session
	client    analysis.DocumentFetcher
	resize    *analysis.ResizeNotifier
	telemetry analysis.Telemetry
	ttl       time.Duration
	now       func() time.Time
}

// SessionOptions configures the session manager.
type SessionOptions struct {
	Client    analysis.DocumentFetcher
	Resize    *analysis.ResizeNotifier
	Telemetry analysis.Telemetry
	// TTL evicts sessions idle longer than this. Zero means the default,
	// negative disables the sweep.
	TTL time.Duration
}

// NewSessionManager builds the manager.
func NewSessionManager(opts SessionOptions) *SessionManager {
	resize := opts.Resize
	if resize == nil {
		resize = analysis.NewResizeNotifier()
	}
	ttl := opts.TTL
	if ttl == 0 {
		ttl = defaultSessionTTL
	}
	return &SessionManager{
		views:     map[string]*session{},
		client:    opts.Client,
		resize:    resize,
		telemetry: opts.Telemetry,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Open creates a session for the request, loads its document, and returns
// the session id alongside the view.
func (m *SessionManager) Open(ctx context.Context, requestID string) (string, *analysis.View) {
	view := analysis.OpenView(analysis.ViewOptions{
		RequestID: requestID,
		Client:    m.client,
		Resize:    m.resize,
		Telemetry: m.telemetry,
	})
	view.Load(ctx)
	sid := uuid.NewString()
	m.mu.Lock()
	m.sweepLocked()
	m.views[sid] = &session{view: view, lastSeen: m.now()}
	m.mu.Unlock()
	return sid, view
}

// Get returns the session's view when it exists and still matches the
// request id, refreshing its idle clock.
func (m *SessionManager) Get(sid, requestID string) (*analysis.View, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.views[sid]
	if !ok || sess.view.RequestID() != requestID {
		return nil, false
	}
	sess.lastSeen = m.now()
	return sess.view, true
}

// Close releases the session and its view.
func (m *SessionManager) Close(sid string) {
	m.mu.Lock()
	sess, ok := m.views[sid]
	delete(m.views, sid)
	m.mu.Unlock()
	if ok {
		sess.view.Close()
	}
}

// sweepLocked evicts sessions idle past the TTL. Callers hold the mutex.
func (m *SessionManager) sweepLocked() {
	if m.ttl < 0 {
		return
	}
	cutoff := m.now().Add(-m.ttl)
	for sid, sess := range m.views {
		if sess.lastSeen.Before(cutoff) {
			delete(m.views, sid)
			sess.view.Close()
		}
	}
}

// Resize fans the viewport change out to every open view's packer.
func (m *SessionManager) Resize(ev analysis.ResizeEvent) {
	m.resize.Notify(ev)
}

// Len reports how many sessions are open.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.views)
}
