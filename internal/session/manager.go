package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const reapInterval = 30 * time.Second

// Manager owns one session per (meter, pin) pair. Sessions start on first
// acquire and are torn down when nothing has read them for the idle TTL,
// the analog of the dashboard page going away.
type Manager struct {
	opts   Options
	idle   time.Duration
	logger *zap.Logger

	mu       sync.Mutex
	baseCtx  context.Context
	sessions map[string]*Session
}

// NewManager builds the registry.
func NewManager(opts Options, idle time.Duration, logger *zap.Logger) *Manager {
	if idle <= 0 {
		idle = 5 * time.Minute
	}
	return &Manager{
		opts:     opts,
		idle:     idle,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Run reaps idle sessions until ctx is cancelled, then stops everything.
// Sessions acquired before Run starts are parented to Background and still
// stopped on shutdown.
func (m *Manager) Run(ctx context.Context) {
	m.mu.Lock()
	m.baseCtx = ctx
	m.mu.Unlock()

	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.Close()
			return
		case <-ticker.C:
			m.reapIdle(time.Now())
		}
	}
}

// Acquire returns the running session for the pair, starting one if needed.
func (m *Manager) Acquire(meterCode, pin string) *Session {
	key := meterCode + "\x00" + pin

	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[key]; ok {
		return sess
	}

	ctx := m.baseCtx
	if ctx == nil {
		ctx = context.Background()
	}
	sess := New(meterCode, pin, m.opts)
	sess.Start(ctx)
	m.sessions[key] = sess
	m.logger.Info("session started", zap.String("meter_code", meterCode))
	return sess
}

func (m *Manager) reapIdle(now time.Time) {
	var stale []*Session

	m.mu.Lock()
	for key, sess := range m.sessions {
		if now.Sub(sess.lastAccess()) > m.idle {
			delete(m.sessions, key)
			stale = append(stale, sess)
		}
	}
	m.mu.Unlock()

	for _, sess := range stale {
		sess.Stop()
	}
}

// Close stops every session.
func (m *Manager) Close() {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for key, sess := range m.sessions {
		delete(m.sessions, key)
		all = append(all, sess)
	}
	m.mu.Unlock()

	for _, sess := range all {
		sess.Stop()
	}
}
