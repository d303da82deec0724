package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/veldt-labs/prefsync/internal/core/domain"
	"github.com/veldt-labs/prefsync/internal/core/ports/driven"
	"github.com/veldt-labs/prefsync/internal/core/ports/driving"
	"github.com/veldt-labs/prefsync/internal/logger"
)

// Ensure SyncService implements the interface.
var _ driving.PreferenceSyncer = (*SyncService)(nil)

// syncOp is one user's pending write: first a debounce timer, then an
// in-flight remote write with retries. Closing cancel aborts whichever
// phase the op is in.
type syncOp struct {
	userID string
	prefs  domain.Preferences
	state  domain.SyncState
	timer  driven.Timer
	cancel chan struct{}
}

// SyncService reconciles preferences with the remote store. Writes are
// debounced per user so rapid changes coalesce into one remote call,
// failed writes retry with exponential backoff, and writes attempted
// while offline queue up until the network monitor reports connectivity.
type SyncService struct {
	remote  driven.RemoteStore
	network driven.NetworkMonitor
	clock   driven.Clock
	cfg     domain.SyncConfig

	mu          sync.Mutex
	pending     map[string]*syncOp
	queue       []domain.QueueEntry
	metrics     domain.SyncMetrics
	lastOutcome map[string]domain.SyncState

	// gen is closed and replaced by CancelPending; in-flight retries
	// hold the channel they started with and abort when it closes.
	gen      chan struct{}
	draining bool
	closed   bool

	ctx         context.Context
	cancelCtx   context.CancelFunc
	unsubscribe func()
	wg          sync.WaitGroup
}

// NewSyncService creates a sync service and subscribes it to the network
// monitor so the offline queue drains when connectivity returns.
func NewSyncService(
	remote driven.RemoteStore,
	network driven.NetworkMonitor,
	clk driven.Clock,
	cfg domain.SyncConfig,
) *SyncService {
	ctx, cancel := context.WithCancel(context.Background())
	s := &SyncService{
		remote:      remote,
		network:     network,
		clock:       clk,
		cfg:         cfg.Normalized(),
		pending:     make(map[string]*syncOp),
		lastOutcome: make(map[string]domain.SyncState),
		gen:         make(chan struct{}),
		ctx:         ctx,
		cancelCtx:   cancel,
	}
	s.unsubscribe = network.OnOnline(s.handleOnline)
	return s
}

// Sync schedules a debounced write of prefs for a user. A call within
// the debounce window replaces the pending payload and restarts the
// window; only the last payload reaches the remote store.
func (s *SyncService) Sync(userID string, prefs domain.Preferences) {
	if userID == "" {
		logger.Warn("Sync requested without a user ID, ignoring")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		logger.Warn("Sync requested after close, ignoring")
		return
	}

	s.replaceOpLocked(userID)
	op := &syncOp{
		userID: userID,
		prefs:  prefs,
		state:  domain.SyncStateDebouncing,
		cancel: make(chan struct{}),
	}
	s.pending[userID] = op
	op.timer = s.clock.AfterFunc(s.cfg.DebounceWindow, func() { s.debounceFired(op) })
	logger.Debug("Debounce window started for user %s", userID)
}

// replaceOpLocked cancels and unregisters the user's current op, if any.
func (s *SyncService) replaceOpLocked(userID string) {
	op, ok := s.pending[userID]
	if !ok {
		return
	}
	if op.timer != nil {
		op.timer.Stop()
	}
	close(op.cancel)
	delete(s.pending, userID)
}

// debounceFired runs when a user's debounce window closes. The op either
// queues (offline) or starts its remote write (online).
func (s *SyncService) debounceFired(op *syncOp) {
	s.mu.Lock()
	if s.pending[op.userID] != op {
		// Superseded or cancelled while the timer was firing.
		s.mu.Unlock()
		return
	}

	if !s.network.IsOnline() {
		delete(s.pending, op.userID)
		s.queue = append(s.queue, domain.QueueEntry{
			ID:          uuid.New().String(),
			UserID:      op.userID,
			Preferences: op.prefs,
			EnqueuedAt:  s.clock.Now(),
		})
		s.mu.Unlock()
		logger.Info("Offline, queued preferences write for user %s", op.userID)
		return
	}

	op.state = domain.SyncStateWriting
	s.wg.Add(1)
	s.mu.Unlock()
	go s.runWrite(op)
}

// runWrite performs the op's remote write and unregisters the op.
func (s *SyncService) runWrite(op *syncOp) {
	defer s.wg.Done()
	_ = s.writeWithRetry(s.ctx, op.userID, op.prefs, op)

	s.mu.Lock()
	if s.pending[op.userID] == op {
		delete(s.pending, op.userID)
	}
	s.mu.Unlock()
}

// SyncNow writes prefs for a user immediately, bypassing debounce and
// the offline check. Retries still apply, and the final error is
// returned rather than swallowed.
func (s *SyncService) SyncNow(ctx context.Context, userID string, prefs domain.Preferences) error {
	if userID == "" {
		return domain.ErrUserIDRequired
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrClosed
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	return s.writeWithRetry(ctx, userID, prefs, nil)
}

// writeWithRetry drives one payload to the remote store, backing off
// between attempts. It returns nil on success, domain.ErrSyncCancelled
// when superseded or cancelled, the caller's context error when that
// context dies, and the final remote error once attempts are exhausted.
// TotalSyncs counts every attempt started; SuccessfulSyncs and
// FailedSyncs move at most once per payload.
func (s *SyncService) writeWithRetry(ctx context.Context, userID string, prefs domain.Preferences, op *syncOp) error {
	gen := s.generation()

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			if s.ctx.Err() != nil {
				return domain.ErrSyncCancelled
			}
			return fmt.Errorf("sync preferences for user %s: %w", userID, err)
		}
		if s.cancelledNow(gen, op) {
			return domain.ErrSyncCancelled
		}

		s.bumpTotal()
		err := s.remote.Set(ctx, userID, prefs)
		if err == nil {
			s.finishSuccess(userID)
			logger.Info("Preferences for user %s written after %d attempt(s)", userID, attempt)
			return nil
		}

		if cerr := ctx.Err(); cerr != nil {
			if s.ctx.Err() != nil {
				return domain.ErrSyncCancelled
			}
			return fmt.Errorf("sync preferences for user %s: %w", userID, cerr)
		}
		if s.cancelledNow(gen, op) {
			return domain.ErrSyncCancelled
		}

		if attempt >= s.cfg.MaxAttempts {
			s.finishFailure(userID)
			logger.Error("Preferences write for user %s failed after %d attempts: %v", userID, attempt, err)
			return fmt.Errorf("sync preferences for user %s: %w", userID, err)
		}

		delay := s.cfg.BackoffDelay(attempt)
		logger.Warn("Preferences write for user %s failed (attempt %d/%d), retrying in %s: %v",
			userID, attempt, s.cfg.MaxAttempts, delay, err)

		s.setOpState(op, domain.SyncStateRetryWait)
		if !s.waitRetry(ctx, delay, gen, op) {
			if cerr := ctx.Err(); cerr != nil && s.ctx.Err() == nil {
				return fmt.Errorf("sync preferences for user %s: %w", userID, cerr)
			}
			return domain.ErrSyncCancelled
		}
		s.setOpState(op, domain.SyncStateWriting)
	}
}

// waitRetry blocks until the backoff delay elapses. It returns false
// when the wait was interrupted by cancellation.
func (s *SyncService) waitRetry(ctx context.Context, d time.Duration, gen <-chan struct{}, op *syncOp) bool {
	fired := make(chan struct{})
	t := s.clock.AfterFunc(d, func() { close(fired) })
	defer t.Stop()

	var opCancel <-chan struct{}
	if op != nil {
		opCancel = op.cancel
	}

	select {
	case <-fired:
		return true
	case <-gen:
		return false
	case <-opCancel:
		return false
	case <-ctx.Done():
		return false
	case <-s.ctx.Done():
		return false
	}
}

// handleOnline fires when the network monitor reports connectivity. It
// starts a single drain of the offline queue.
func (s *SyncService) handleOnline() {
	s.mu.Lock()
	if s.closed || s.draining || len(s.queue) == 0 {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.wg.Add(1)
	s.mu.Unlock()
	go s.drainQueue()
}

// drainQueue flushes queued writes oldest first. It stops early when
// connectivity drops again, leaving the remainder queued.
func (s *SyncService) drainQueue() {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		s.draining = false
		s.mu.Unlock()
	}()

	logger.Info("Connectivity restored, draining offline queue")
	for {
		s.mu.Lock()
		if s.closed || len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		if !s.network.IsOnline() {
			n := len(s.queue)
			s.mu.Unlock()
			logger.Info("Connectivity lost mid-drain, %d write(s) still queued", n)
			return
		}
		entry := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		err := s.writeWithRetry(s.ctx, entry.UserID, entry.Preferences, nil)
		if errors.Is(err, domain.ErrSyncCancelled) {
			return
		}
	}
}

// Fetch retrieves the user's preferences from the remote store. Absent
// and schema-invalid records both come back as (nil, nil); the remote
// record is never modified here, unlike the self-healing local cache.
func (s *SyncService) Fetch(ctx context.Context, userID string) (*domain.Preferences, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}

	rec, err := s.remote.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch preferences for user %s: %w", userID, err)
	}

	prefs, err := domain.ValidateRecord(rec)
	if err != nil {
		logger.Warn("Remote preferences for user %s are invalid, treating as absent: %v", userID, err)
		return nil, nil
	}
	return &prefs, nil
}

// Delete removes the user's preferences from the remote store. Unlike
// the write path this propagates failures; callers asked for a deletion
// and need to know whether it happened.
func (s *SyncService) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrUserIDRequired
	}

	if err := s.remote.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete preferences for user %s: %w", userID, err)
	}
	logger.Info("Deleted remote preferences for user %s", userID)
	return nil
}

// CancelPending cancels every debounce timer, in-flight retry, and
// queued entry across all users. No timer remains scheduled afterwards.
func (s *SyncService) CancelPending() {
	s.mu.Lock()
	s.cancelAllLocked()
	s.mu.Unlock()
}

func (s *SyncService) cancelAllLocked() {
	for userID, op := range s.pending {
		if op.timer != nil {
			op.timer.Stop()
		}
		close(op.cancel)
		delete(s.pending, userID)
	}
	if n := len(s.queue); n > 0 {
		logger.Debug("Discarding %d queued preference write(s)", n)
	}
	s.queue = nil
	close(s.gen)
	s.gen = make(chan struct{})
}

// State reports where the user's sync currently stands. With nothing
// pending or queued it reports the last finished outcome, or idle.
func (s *SyncService) State(userID string) domain.SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if op, ok := s.pending[userID]; ok {
		return op.state
	}
	for _, entry := range s.queue {
		if entry.UserID == userID {
			return domain.SyncStateQueued
		}
	}
	if outcome, ok := s.lastOutcome[userID]; ok {
		return outcome
	}
	return domain.SyncStateIdle
}

// Queue returns a snapshot of writes held for connectivity, oldest first.
func (s *SyncService) Queue() []domain.QueueEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.QueueEntry, len(s.queue))
	copy(out, s.queue)
	return out
}

// Metrics returns a snapshot of the sync counters.
func (s *SyncService) Metrics() domain.SyncMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics
}

// ResetMetrics zeroes the sync counters.
func (s *SyncService) ResetMetrics() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = domain.SyncMetrics{}
}

// Close cancels all pending work, detaches from the network monitor, and
// waits for in-flight goroutines to finish. It is idempotent.
func (s *SyncService) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.cancelAllLocked()
	s.mu.Unlock()

	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.cancelCtx()
	s.wg.Wait()
	logger.Debug("Preference syncer closed")
	return nil
}

func (s *SyncService) generation() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// cancelledNow reports whether the op's generation, the op itself, or
// the service has been cancelled, without blocking.
func (s *SyncService) cancelledNow(gen <-chan struct{}, op *syncOp) bool {
	select {
	case <-gen:
		return true
	default:
	}
	if op != nil {
		select {
		case <-op.cancel:
			return true
		default:
		}
	}
	return s.ctx.Err() != nil
}

func (s *SyncService) setOpState(op *syncOp, state domain.SyncState) {
	if op == nil {
		return
	}
	s.mu.Lock()
	if s.pending[op.userID] == op {
		op.state = state
	}
	s.mu.Unlock()
}

func (s *SyncService) bumpTotal() {
	s.mu.Lock()
	s.metrics.TotalSyncs++
	s.mu.Unlock()
}

func (s *SyncService) finishSuccess(userID string) {
	s.mu.Lock()
	s.metrics.SuccessfulSyncs++
	s.lastOutcome[userID] = domain.SyncStateSuccess
	s.mu.Unlock()
}

func (s *SyncService) finishFailure(userID string) {
	s.mu.Lock()
	s.metrics.FailedSyncs++
	s.lastOutcome[userID] = domain.SyncStateFailed
	s.mu.Unlock()
}
