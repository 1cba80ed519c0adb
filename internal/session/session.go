package session

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"meterwatch/internal/meterapi"
	"meterwatch/internal/metrics"
	"meterwatch/internal/models"
	"meterwatch/internal/state"
	"meterwatch/internal/stream"
)

// Options carries the collaborators a session needs.
type Options struct {
	Client            *meterapi.Client
	WSBaseURL         string
	RecentLimit       int
	ReconcileInterval time.Duration
	Logger            *zap.Logger
}

// View is a point-in-time copy of a session's display state.
type View struct {
	Snapshot  *state.Snapshot
	Recent    []state.Reading
	Status    state.Status
	LoadError string
}

// Session maintains the live view for one (meter, pin) pair: one initial
// load, one push subscription and one reconciliation ticker, all writing
// into two guarded cells through the pure merge functions in state.
type Session struct {
	id        string
	meterCode string
	pin       string

	client         *meterapi.Client
	wsBaseURL      string
	recentLimit    int
	reconcileEvery time.Duration
	logger         *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	snapshot *state.Snapshot
	recent   []state.Reading
	status   state.Status
	loadErr  string
	lastRead time.Time
}

// New builds a stopped session.
func New(meterCode, pin string, opts Options) *Session {
	id := uuid.NewString()[:8]
	limit := opts.RecentLimit
	if limit <= 0 {
		limit = state.MaxRecent
	}
	every := opts.ReconcileInterval
	if every <= 0 {
		every = 60 * time.Second
	}
	return &Session{
		id:             id,
		meterCode:      meterCode,
		pin:            pin,
		client:         opts.Client,
		wsBaseURL:      opts.WSBaseURL,
		recentLimit:    limit,
		reconcileEvery: every,
		logger:         opts.Logger.With(zap.String("session_id", id), zap.String("meter_code", meterCode)),
		status:         state.StatusConnecting,
		lastRead:       time.Now(),
	}
}

// Start launches the loader, subscriber and poller. They all stop when the
// parent context is cancelled or Stop is called.
func (s *Session) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	metrics.ActiveSessions.Inc()

	channelURL := fmt.Sprintf("%s/ws/meter/%s", s.wsBaseURL, url.PathEscape(s.meterCode))
	sub := stream.NewSubscriber(channelURL, s.applyPush, s.setStatus, s.logger)

	s.wg.Add(3)
	go func() {
		defer s.wg.Done()
		s.initialLoad(ctx)
	}()
	go func() {
		defer s.wg.Done()
		sub.Run(ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.reconcileLoop(ctx)
	}()
}

// Stop tears the session down and waits for its goroutines. The push
// channel is closed as a side effect of cancellation; in-flight requests
// are abandoned without touching state.
func (s *Session) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	metrics.ActiveSessions.Dec()
	s.logger.Info("session stopped")
}

// View returns a copy of the current display state and marks the session
// as recently read.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRead = time.Now()

	v := View{
		Status:    s.status,
		LoadError: s.loadErr,
		Recent:    append([]state.Reading(nil), s.recent...),
	}
	if s.snapshot != nil {
		snap := *s.snapshot
		v.Snapshot = &snap
	}
	return v
}

func (s *Session) lastAccess() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRead
}

// initialLoad issues the two startup requests concurrently under the shared
// session context. Teardown mid-flight discards results and never sets the
// error string.
func (s *Session) initialLoad(ctx context.Context) {
	var (
		wg        sync.WaitGroup
		latest    *models.LatestPayload
		recent    *models.RecentPayload
		errLatest error
		errRecent error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		latest, errLatest = s.client.Latest(ctx, s.meterCode, s.pin)
	}()
	go func() {
		defer wg.Done()
		recent, errRecent = s.client.Recent(ctx, s.meterCode, s.pin, s.recentLimit)
	}()
	wg.Wait()

	if ctx.Err() != nil {
		return
	}
	if errLatest != nil || errRecent != nil {
		metrics.InitialLoadFailures.Inc()
		s.logger.Warn("initial load failed",
			zap.NamedError("latest", errLatest), zap.NamedError("recent", errRecent))
		s.mu.Lock()
		s.loadErr = "failed to load meter data"
		s.mu.Unlock()
		return
	}

	snap := state.SnapshotFromLatest(*latest)
	rows := state.RecentFromPayload(*recent, snap.PricePerLiter, snap.PriceKnown, snap.Currency)

	s.mu.Lock()
	s.snapshot = snap
	s.recent = rows
	s.mu.Unlock()
	s.logger.Info("initial load complete", zap.Int("recent_rows", len(rows)))
}

// applyPush merges one data frame: snapshot field-by-field, recent list by
// prepending a single derived row.
func (s *Session) applyPush(msg models.PushMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := state.MergePush(s.snapshot, msg)
	row := state.ReadingFromPush(msg, next.PricePerLiter, next.PriceKnown, next.Currency)
	s.snapshot = next
	s.recent = state.PrependReading(s.recent, row)
	metrics.PushApplied.Inc()
}

func (s *Session) setStatus(st state.Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

func (s *Session) reconcileLoop(ctx context.Context) {
	ticker := time.NewTicker(s.reconcileEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.reconcile(ctx)
		}
	}
}

// reconcile replaces the recent list wholesale with a fresh fetch. Failures
// of any kind change nothing; this path is only a safety net for dropped
// push frames. A fetch racing a push frame may win with older rows, which
// the next tick corrects.
func (s *Session) reconcile(ctx context.Context) {
	payload, err := s.client.Recent(ctx, s.meterCode, s.pin, s.recentLimit)
	if err != nil {
		if ctx.Err() == nil {
			metrics.ReconcileRuns.WithLabelValues("error").Inc()
			s.logger.Debug("reconcile fetch failed", zap.Error(err))
		}
		return
	}
	if ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	var (
		price      float64
		priceKnown bool
		currency   string
	)
	if s.snapshot != nil {
		price, priceKnown, currency = s.snapshot.PricePerLiter, s.snapshot.PriceKnown, s.snapshot.Currency
	}
	s.recent = state.RecentFromPayload(*payload, price, priceKnown, currency)
	s.mu.Unlock()
	metrics.ReconcileRuns.WithLabelValues("ok").Inc()
}
