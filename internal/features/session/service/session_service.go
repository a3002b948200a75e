package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"drone-pickup/internal/core/logger"
	catalogports "drone-pickup/internal/features/catalog/ports"
	orders "drone-pickup/internal/features/orders/domain"
	"drone-pickup/internal/features/session/domain"
	"drone-pickup/internal/features/session/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// persistTimeout bounds snapshot writes and notifications issued from timers.
	persistTimeout = 5 * time.Second
	// tombstoneTTL is how long a torn down id stays unrestorable. It only has
	// to outlive a repository read that raced the teardown.
	tombstoneTTL = 10 * time.Minute
)

// Options configures a SessionService.
type Options struct {
	// OrderStepDelay is the fixed delay between two order status steps.
	OrderStepDelay time.Duration
	// AuthDelay is the artificial latency of SendCode and VerifyCode.
	AuthDelay time.Duration
	// UnlockDelay is the artificial latency of Unlock.
	UnlockDelay time.Duration
	// IdleTTL is the inactivity after which SweepIdle tears a session down.
	IdleTTL time.Duration
	// OrderingURL is the outbound ordering page template (merchant id via %s).
	OrderingURL string
	// StrictOTP requires the verified code to match the issued one.
	StrictOTP bool
	// MaxAttempts caps failed verifications per issued code.
	MaxAttempts int
	// ExposeCodes returns issued codes to the caller. Never enable in production.
	ExposeCodes bool
	// NotifyTimeout bounds one checkout notification.
	NotifyTimeout time.Duration
}

var _ ports.SessionService = (*SessionService)(nil)

type liveSession struct {
	mu        sync.Mutex
	nav       *Navigator
	challenge *challenge
	lastSeen  time.Time
	closed    bool
}

// SessionService implements ports.SessionService. It keeps one Navigator per
// live session and serializes all mutations of a session behind its lock,
// including the timer-driven order progression.
type SessionService struct {
	catalog   catalogports.Catalog
	repo      ports.SessionRepository
	notifier  ports.CheckoutNotifier
	scheduler ports.TaskScheduler
	opts      Options

	now   func() time.Time
	newID func() string

	mu   sync.Mutex
	live map[string]*liveSession
	// tombstones holds ids torn down recently, with the teardown time.
	tombstones map[string]time.Time
}

// NewSessionService creates a new SessionService. notifier may be nil.
func NewSessionService(
	catalog catalogports.Catalog,
	repo ports.SessionRepository,
	notifier ports.CheckoutNotifier,
	scheduler ports.TaskScheduler,
	opts Options,
) *SessionService {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = persistTimeout
	}
	return &SessionService{
		catalog:    catalog,
		repo:       repo,
		notifier:   notifier,
		scheduler:  scheduler,
		opts:       opts,
		now:        time.Now,
		newID:      uuid.NewString,
		live:       make(map[string]*liveSession),
		tombstones: make(map[string]time.Time),
	}
}

// Create starts a session on LANDING. A known initialLocationID (deep link)
// preselects the location; an unknown one is ignored.
func (s *SessionService) Create(ctx context.Context, initialLocationID string) (domain.Session, error) {
	now := s.now()
	nav := NewNavigator(domain.NewSession(s.newID(), now), s.catalog)
	id := nav.Snapshot().ID
	log := logger.ForSession(id)

	if initialLocationID != "" {
		if err := nav.SetLocation(initialLocationID, now); err != nil {
			log.Warn("Ignoring deep link location",
				zap.String("location_id", initialLocationID),
				zap.Error(err),
			)
		}
	}

	s.mu.Lock()
	s.live[id] = &liveSession{nav: nav, lastSeen: now}
	s.mu.Unlock()

	snap := nav.Snapshot()
	s.persist(ctx, snap)

	log.Info("Session created", zap.String("location_id", snap.LocationID))
	return snap, nil
}

// Get returns the current snapshot, restoring the session if needed.
func (s *SessionService) Get(ctx context.Context, id string) (domain.Session, error) {
	ls, err := s.lookup(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.closed {
		return domain.Session{}, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	ls.lastSeen = s.now()
	return ls.nav.Snapshot(), nil
}

// Teardown cancels pending timers and deletes the session. The snapshot is
// deleted first; if that fails the session stays live and untouched so the
// call can be retried.
func (s *SessionService) Teardown(ctx context.Context, id string) error {
	ls, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.closed {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service: failed to delete session: %w", err)
	}

	ls.closed = true
	s.scheduler.Cancel(id)

	s.mu.Lock()
	if s.live[id] == ls {
		delete(s.live, id)
	}
	s.tombstones[id] = s.now()
	s.mu.Unlock()

	logger.ForSession(id).Info("Session torn down")
	return nil
}

// SetScreen applies a navigation intent and returns the corrected session.
func (s *SessionService) SetScreen(ctx context.Context, id string, target domain.Screen) (domain.Session, error) {
	return s.withSession(ctx, id, func(ls *liveSession, now time.Time) error {
		ls.nav.SetScreen(target, now)
		return nil
	})
}

// SendCode issues a verification code for phone after the artificial delay.
func (s *SessionService) SendCode(ctx context.Context, id, phone string) (ports.SendCodeResult, error) {
	normalized, err := normalizePhone(phone)
	if err != nil {
		return ports.SendCodeResult{}, err
	}
	if _, err := s.lookup(ctx, id); err != nil {
		return ports.SendCodeResult{}, err
	}

	if err := sleep(ctx, s.opts.AuthDelay); err != nil {
		return ports.SendCodeResult{}, err
	}

	code, ch, err := issueChallenge(normalized)
	if err != nil {
		return ports.SendCodeResult{}, err
	}

	err = s.withLocked(ctx, id, func(ls *liveSession, _ time.Time) error {
		ls.challenge = ch
		return nil
	})
	if err != nil {
		return ports.SendCodeResult{}, err
	}

	logger.ForSession(id).Info("Verification code issued")

	result := ports.SendCodeResult{Phone: normalized}
	if s.opts.ExposeCodes {
		result.DemoCode = code
	}
	return result, nil
}

// VerifyCode checks the code issued for phone and signs the user in.
func (s *SessionService) VerifyCode(ctx context.Context, id, phone, code string) (domain.Session, error) {
	normalized, err := normalizePhone(phone)
	if err != nil {
		return domain.Session{}, err
	}
	if _, err := s.lookup(ctx, id); err != nil {
		return domain.Session{}, err
	}

	if err := sleep(ctx, s.opts.AuthDelay); err != nil {
		return domain.Session{}, err
	}

	return s.withSession(ctx, id, func(ls *liveSession, now time.Time) error {
		if ls.challenge == nil || ls.challenge.phone != normalized {
			return domain.ErrCodeNotSent
		}
		if err := ls.challenge.verify(code, s.opts.StrictOTP, s.opts.MaxAttempts); err != nil {
			logger.ForSession(id).Warn("Verification failed",
				zap.Int("attempts", ls.challenge.attempts),
				zap.Error(err),
			)
			return err
		}
		ls.challenge = nil
		ls.nav.Authenticate(normalized, now)
		return nil
	})
}

// SignOut drops the user and any pending verification.
func (s *SessionService) SignOut(ctx context.Context, id string) (domain.Session, error) {
	return s.withSession(ctx, id, func(ls *liveSession, now time.Time) error {
		ls.challenge = nil
		ls.nav.SignOut(now)
		return nil
	})
}

// UpdateDestination edits the destination and, with confirm, moves on to MERCHANTS.
func (s *SessionService) UpdateDestination(ctx context.Context, id, locationID, arrivePointID string, confirm bool) (domain.Session, error) {
	return s.withSession(ctx, id, func(ls *liveSession, now time.Time) error {
		if confirm {
			return ls.nav.SelectDestination(locationID, arrivePointID, now)
		}
		return ls.nav.UpdateDestination(locationID, arrivePointID, now)
	})
}

// SelectMerchant opens the detail screen of an open merchant.
func (s *SessionService) SelectMerchant(ctx context.Context, id, merchantID string) (domain.Session, error) {
	return s.withSession(ctx, id, func(ls *liveSession, now time.Time) error {
		return ls.nav.SelectMerchant(merchantID, now)
	})
}

// Checkout places the order, starts its progression and returns the
// outbound ordering link. The checkout notification is fire-and-forget.
func (s *SessionService) Checkout(ctx context.Context, id string) (ports.CheckoutResult, error) {
	var (
		placed     *orders.Order
		merchantID string
	)

	snap, err := s.withSession(ctx, id, func(ls *liveSession, now time.Time) error {
		order, merchant, err := ls.nav.Checkout(now)
		if err != nil {
			return err
		}
		placed, merchantID = order, merchant.ID
		s.scheduleAdvance(id)
		return nil
	})
	if err != nil {
		return ports.CheckoutResult{}, err
	}

	logger.ForSession(id).Info("Order placed",
		zap.String("order_id", placed.ID),
		zap.String("merchant_id", merchantID),
	)

	if s.notifier != nil {
		go s.notify(snap, placed)
	}

	return ports.CheckoutResult{
		Session:     snap,
		OrderingURL: s.orderingURL(merchantID),
	}, nil
}

// Unlock opens the pickup point once the order is delivered. The check runs
// before and after the artificial delay; an early call changes nothing.
func (s *SessionService) Unlock(ctx context.Context, id string) (domain.Session, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	if current.Order == nil {
		return domain.Session{}, domain.ErrNoOrder
	}
	if !current.Order.Delivered() {
		return domain.Session{}, fmt.Errorf("%w: status is %s", domain.ErrOrderNotDelivered, current.Order.Status)
	}
	if !current.Authenticated() {
		return domain.Session{}, domain.ErrNotAuthenticated
	}
	if !current.DestinationComplete() {
		return domain.Session{}, domain.ErrDestinationIncomplete
	}

	if err := sleep(ctx, s.opts.UnlockDelay); err != nil {
		return domain.Session{}, err
	}

	snap, err := s.withSession(ctx, id, func(ls *liveSession, now time.Time) error {
		return ls.nav.Unlock(now)
	})
	if err != nil {
		return domain.Session{}, err
	}

	logger.ForSession(id).Info("Pickup point unlocked",
		zap.String("order_id", snap.Order.ID),
		zap.String("arrive_point_id", snap.ArrivePointID),
	)
	return snap, nil
}

// Done loops from UNLOCK back to the merchant list.
func (s *SessionService) Done(ctx context.Context, id string) (domain.Session, error) {
	return s.withSession(ctx, id, func(ls *liveSession, now time.Time) error {
		ls.nav.Done(now)
		return nil
	})
}

// ResumeAll restores every stored snapshot into the live registry and
// restarts progression of undelivered orders. It returns how many were restored.
func (s *SessionService) ResumeAll(ctx context.Context) (int, error) {
	ids, err := s.repo.IDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("service: failed to list sessions: %w", err)
	}

	restored := 0
	for _, id := range ids {
		if _, err := s.lookup(ctx, id); err != nil {
			logger.ForSession(id).Warn("Failed to restore session", zap.Error(err))
			continue
		}
		restored++
	}
	return restored, nil
}

// SweepIdle tears down live sessions untouched for longer than IdleTTL.
func (s *SessionService) SweepIdle(ctx context.Context) int {
	if s.opts.IdleTTL <= 0 {
		return 0
	}

	now := s.now()

	s.mu.Lock()
	candidates := make(map[string]*liveSession, len(s.live))
	for id, ls := range s.live {
		candidates[id] = ls
	}
	for id, at := range s.tombstones {
		if now.Sub(at) >= tombstoneTTL {
			delete(s.tombstones, id)
		}
	}
	s.mu.Unlock()

	swept := 0
	for id, ls := range candidates {
		ls.mu.Lock()
		idle := now.Sub(ls.lastSeen) >= s.opts.IdleTTL
		ls.mu.Unlock()
		if !idle {
			continue
		}
		if err := s.Teardown(ctx, id); err != nil {
			logger.ForSession(id).Warn("Failed to sweep idle session", zap.Error(err))
			continue
		}
		swept++
	}
	return swept
}

// RunSweeper calls SweepIdle every interval until ctx is done.
func (s *SessionService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.SweepIdle(ctx); n > 0 {
				logger.Get().Info("Idle sessions swept", zap.Int("count", n))
			}
		}
	}
}

// Close cancels the pending timers of every live session.
func (s *SessionService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.live {
		s.scheduler.Cancel(id)
	}
}

// lookup returns the live session, adopting a stored snapshot if necessary.
func (s *SessionService) lookup(ctx context.Context, id string) (*liveSession, error) {
	s.mu.Lock()
	ls, ok := s.live[id]
	s.mu.Unlock()
	if ok {
		return ls, nil
	}

	snap, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.adopt(*snap)
}

// adopt installs a restored snapshot. A snapshot read before a concurrent
// teardown finished is stale and refused.
func (s *SessionService) adopt(snap domain.Session) (*liveSession, error) {
	s.mu.Lock()
	if ls, ok := s.live[snap.ID]; ok {
		s.mu.Unlock()
		return ls, nil
	}
	if _, gone := s.tombstones[snap.ID]; gone {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, snap.ID)
	}
	// Locked before it is published, so no teardown can slip in before the
	// progression is rescheduled.
	ls := &liveSession{nav: NewNavigator(snap, s.catalog), lastSeen: s.now()}
	ls.mu.Lock()
	s.live[snap.ID] = ls
	s.mu.Unlock()

	if snap.Order != nil && !snap.Order.Delivered() {
		s.scheduleAdvance(snap.ID)
	}
	ls.mu.Unlock()

	logger.ForSession(snap.ID).Info("Session restored from snapshot")
	return ls, nil
}

// withLocked runs fn under the session lock without persisting.
func (s *SessionService) withLocked(ctx context.Context, id string, fn func(ls *liveSession, now time.Time) error) error {
	ls, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.closed {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	now := s.now()
	ls.lastSeen = now
	return fn(ls, now)
}

// withSession runs a mutation under the session lock and persists the result.
func (s *SessionService) withSession(ctx context.Context, id string, fn func(ls *liveSession, now time.Time) error) (domain.Session, error) {
	var snap domain.Session
	err := s.withLocked(ctx, id, func(ls *liveSession, now time.Time) error {
		if err := fn(ls, now); err != nil {
			return err
		}
		snap = ls.nav.Snapshot()
		s.persist(ctx, snap)
		return nil
	})
	if err != nil {
		return domain.Session{}, err
	}
	return snap, nil
}

// scheduleAdvance must be called with the session lock held.
func (s *SessionService) scheduleAdvance(id string) {
	s.scheduler.Schedule(id, s.opts.OrderStepDelay, func() { s.advance(id) })
}

// advance is the timer callback. It never restores sessions, so a torn down
// session stays gone.
func (s *SessionService) advance(id string) {
	s.mu.Lock()
	ls, ok := s.live[id]
	s.mu.Unlock()
	if !ok {
		return
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.closed || !ls.nav.AdvanceOrderStatus(s.now()) {
		return
	}

	snap := ls.nav.Snapshot()
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	s.persist(ctx, snap)

	logger.ForSession(id).Debug("Order advanced",
		zap.String("order_id", snap.Order.ID),
		zap.String("status", string(snap.Order.Status)),
	)

	if !snap.Order.Delivered() {
		s.scheduleAdvance(id)
	}
}

// persist stores a snapshot. The live navigator stays authoritative, so a
// failed write is logged and the intent still succeeds.
func (s *SessionService) persist(ctx context.Context, snap domain.Session) {
	if err := s.repo.Save(ctx, snap); err != nil {
		logger.ForSession(snap.ID).Error("Failed to save session snapshot", zap.Error(err))
	}
}

func (s *SessionService) notify(snap domain.Session, order *orders.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.NotifyTimeout)
	defer cancel()

	if err := s.notifier.NotifyCheckout(ctx, snap, order); err != nil {
		logger.ForSession(snap.ID).Warn("Checkout notification failed",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}
}

func (s *SessionService) orderingURL(merchantID string) string {
	tmpl := s.opts.OrderingURL
	if strings.Contains(tmpl, "%s") {
		return fmt.Sprintf(tmpl, url.PathEscape(merchantID))
	}
	sep := "?"
	if strings.Contains(tmpl, "?") {
		sep = "&"
	}
	return tmpl + sep + "merchant=" + url.QueryEscape(merchantID)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
