package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"drone-pickup/internal/core/cache"
	catalogadapters "drone-pickup/internal/features/catalog/adapters"
	orders "drone-pickup/internal/features/orders/domain"
	"drone-pickup/internal/features/session/adapters"
	"drone-pickup/internal/features/session/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// manualScheduler holds tasks until the test fires them.
type manualScheduler struct {
	mu    sync.Mutex
	tasks map[string]func()
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{tasks: make(map[string]func())}
}

func (m *manualScheduler) Schedule(key string, _ time.Duration, fn func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[key] = fn
	return true
}

func (m *manualScheduler) Cancel(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tasks[key]
	delete(m.tasks, key)
	return ok
}

func (m *manualScheduler) pending(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tasks[key]
	return ok
}

// fire runs the pending task for key, as the timer would.
func (m *manualScheduler) fire(key string) bool {
	m.mu.Lock()
	fn, ok := m.tasks[key]
	delete(m.tasks, key)
	m.mu.Unlock()
	if ok {
		fn()
	}
	return ok
}

// MockCheckoutNotifier is a mock implementation of ports.CheckoutNotifier.
type MockCheckoutNotifier struct {
	mock.Mock
}

func (m *MockCheckoutNotifier) NotifyCheckout(ctx context.Context, session domain.Session, order *orders.Order) error {
	args := m.Called(ctx, session, order)
	return args.Error(0)
}

// MockSessionRepository is a mock implementation of ports.SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Save(ctx context.Context, session domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionRepository) IDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type fixture struct {
	svc   *SessionService
	sched *manualScheduler
	repo  *adapters.CacheSessionRepository
	store *cache.MemoryAdapter
}

func defaultOptions() Options {
	return Options{
		OrderingURL: "https://order.example.com/m/%s",
		MaxAttempts: 3,
		ExposeCodes: true,
		IdleTTL:     time.Minute,
	}
}

func newFixture(opts Options) *fixture {
	store := cache.NewMemoryAdapter()
	repo := adapters.NewCacheSessionRepository(store, time.Hour)
	sched := newManualScheduler()
	svc := NewSessionService(catalogadapters.NewStaticCatalog(), repo, nil, sched, opts)
	return &fixture{svc: svc, sched: sched, repo: repo, store: store}
}

// signIn runs the two-phase verification.
func (f *fixture) signIn(t *testing.T, id string) domain.Session {
	t.Helper()
	ctx := context.Background()

	sent, err := f.svc.SendCode(ctx, id, "(317) 555-0123")
	require.NoError(t, err)
	require.Len(t, sent.DemoCode, 6)

	s, err := f.svc.VerifyCode(ctx, id, "3175550123", sent.DemoCode)
	require.NoError(t, err)
	return s
}

func TestSessionService_Scenario(t *testing.T) {
	f := newFixture(defaultOptions())
	ctx := context.Background()

	s, err := f.svc.Create(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenLanding, s.Screen)
	id := s.ID

	s = f.signIn(t, id)
	assert.Equal(t, domain.ScreenDestination, s.Screen)
	assert.Equal(t, "3175550123", s.User.Phone)

	s, err = f.svc.UpdateDestination(ctx, id, "vp-building-a", "AP-201", true)
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenMerchants, s.Screen)

	_, err = f.svc.SelectMerchant(ctx, id, "merchant-3")
	assert.ErrorIs(t, err, domain.ErrMerchantClosed)

	s, err = f.svc.SelectMerchant(ctx, id, "merchant-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenMerchantDetail, s.Screen)

	res, err := f.svc.Checkout(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "https://order.example.com/m/merchant-1", res.OrderingURL)
	assert.Equal(t, domain.ScreenTracking, res.Session.Screen)
	assert.Equal(t, orders.OrderStatusPlaced, res.Session.Order.Status)

	_, err = f.svc.Unlock(ctx, id)
	assert.ErrorIs(t, err, domain.ErrOrderNotDelivered)

	for f.sched.fire(id) {
	}

	s, err = f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, orders.OrderStatusDelivered, s.Order.Status)
	assert.Len(t, s.Order.History, 7)
	assert.Equal(t, domain.ScreenTracking, s.Screen)

	s, err = f.svc.Unlock(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenUnlock, s.Screen)

	s, err = f.svc.Done(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenMerchants, s.Screen)

	stored, err := f.repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenMerchants, stored.Screen)
	assert.Equal(t, s.Order.ID, stored.Order.ID)
	assert.Equal(t, orders.OrderStatusDelivered, stored.Order.Status)
}

func TestSessionService_DeepLink(t *testing.T) {
	f := newFixture(defaultOptions())
	ctx := context.Background()

	s, err := f.svc.Create(ctx, "vp-building-b")
	require.NoError(t, err)
	assert.Equal(t, "vp-building-b", s.LocationID)
	assert.Equal(t, domain.ScreenLanding, s.Screen)

	unknown, err := f.svc.Create(ctx, "atlantis")
	require.NoError(t, err)
	assert.Empty(t, unknown.LocationID)
	assert.NotEqual(t, s.ID, unknown.ID)
}

func TestSessionService_SetScreenGuards(t *testing.T) {
	f := newFixture(defaultOptions())
	ctx := context.Background()

	s, err := f.svc.Create(ctx, "")
	require.NoError(t, err)

	s, err = f.svc.SetScreen(ctx, s.ID, domain.ScreenMerchants)
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenAuth, s.Screen)

	f.signIn(t, s.ID)
	s, err = f.svc.SetScreen(ctx, s.ID, domain.ScreenTracking)
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenDestination, s.Screen)

	s, err = f.svc.SignOut(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenAuth, s.Screen)
	assert.Nil(t, s.User)
}

func TestSessionService_Verification(t *testing.T) {
	ctx := context.Background()

	t.Run("InvalidPhone", func(t *testing.T) {
		f := newFixture(defaultOptions())
		s, _ := f.svc.Create(ctx, "")

		_, err := f.svc.SendCode(ctx, s.ID, "12345")
		assert.ErrorIs(t, err, domain.ErrInvalidPhone)

		_, err = f.svc.SendCode(ctx, s.ID, "317-555-O123")
		assert.ErrorIs(t, err, domain.ErrInvalidPhone)
	})

	t.Run("NotSent", func(t *testing.T) {
		f := newFixture(defaultOptions())
		s, _ := f.svc.Create(ctx, "")

		_, err := f.svc.VerifyCode(ctx, s.ID, "3175550123", "123456")
		assert.ErrorIs(t, err, domain.ErrCodeNotSent)
	})

	t.Run("OtherPhone", func(t *testing.T) {
		f := newFixture(defaultOptions())
		s, _ := f.svc.Create(ctx, "")
		sent, err := f.svc.SendCode(ctx, s.ID, "3175550123")
		require.NoError(t, err)

		_, err = f.svc.VerifyCode(ctx, s.ID, "3175550999", sent.DemoCode)
		assert.ErrorIs(t, err, domain.ErrCodeNotSent)
	})

	t.Run("LenientAcceptsAnySixDigits", func(t *testing.T) {
		f := newFixture(defaultOptions())
		s, _ := f.svc.Create(ctx, "")
		sent, err := f.svc.SendCode(ctx, s.ID, "3175550123")
		require.NoError(t, err)

		wrong := "000000"
		if sent.DemoCode == wrong {
			wrong = "111111"
		}
		_, err = f.svc.VerifyCode(ctx, s.ID, "3175550123", "12ab56")
		assert.ErrorIs(t, err, domain.ErrInvalidCode)

		got, err := f.svc.VerifyCode(ctx, s.ID, "3175550123", wrong)
		require.NoError(t, err)
		assert.True(t, got.Authenticated())
	})

	t.Run("StrictRejectsWrongCodeAndLocksOut", func(t *testing.T) {
		opts := defaultOptions()
		opts.StrictOTP = true
		f := newFixture(opts)
		s, _ := f.svc.Create(ctx, "")
		sent, err := f.svc.SendCode(ctx, s.ID, "3175550123")
		require.NoError(t, err)

		wrong := "000000"
		if sent.DemoCode == wrong {
			wrong = "111111"
		}
		for i := 0; i < opts.MaxAttempts; i++ {
			_, err = f.svc.VerifyCode(ctx, s.ID, "3175550123", wrong)
			assert.ErrorIs(t, err, domain.ErrInvalidCode)
		}

		_, err = f.svc.VerifyCode(ctx, s.ID, "3175550123", sent.DemoCode)
		assert.ErrorIs(t, err, domain.ErrTooManyAttempts)

		resent, err := f.svc.SendCode(ctx, s.ID, "3175550123")
		require.NoError(t, err)
		got, err := f.svc.VerifyCode(ctx, s.ID, "3175550123", resent.DemoCode)
		require.NoError(t, err)
		assert.Equal(t, domain.ScreenDestination, got.Screen)
	})

	t.Run("CodesHiddenInProduction", func(t *testing.T) {
		opts := defaultOptions()
		opts.ExposeCodes = false
		f := newFixture(opts)
		s, _ := f.svc.Create(ctx, "")

		sent, err := f.svc.SendCode(ctx, s.ID, "+1 317 555 0123")
		require.NoError(t, err)
		assert.Empty(t, sent.DemoCode)
		assert.Equal(t, "13175550123", sent.Phone)
	})
}

func TestSessionService_DelayHonorsContext(t *testing.T) {
	opts := defaultOptions()
	opts.AuthDelay = time.Hour
	f := newFixture(opts)
	s, err := f.svc.Create(context.Background(), "")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = f.svc.SendCode(ctx, s.ID, "3175550123")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSessionService_TeardownDuringDelayIsNoop(t *testing.T) {
	opts := defaultOptions()
	opts.AuthDelay = 50 * time.Millisecond
	f := newFixture(opts)
	ctx := context.Background()
	s, err := f.svc.Create(ctx, "")
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		_, err := f.svc.SendCode(ctx, s.ID, "3175550123")
		errCh <- err
	}()

	require.NoError(t, f.svc.Teardown(ctx, s.ID))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	case <-time.After(2 * time.Second):
		t.Fatal("SendCode did not return")
	}
}

// ready creates a session parked on MERCHANT_DETAIL for merchant-1.
func (f *fixture) ready(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	s, err := f.svc.Create(ctx, "")
	require.NoError(t, err)
	f.signIn(t, s.ID)
	_, err = f.svc.UpdateDestination(ctx, s.ID, "vp-building-a", "AP-201", true)
	require.NoError(t, err)
	_, err = f.svc.SelectMerchant(ctx, s.ID, "merchant-1")
	require.NoError(t, err)
	return s.ID
}

func TestSessionService_TeardownCancelsProgression(t *testing.T) {
	f := newFixture(defaultOptions())
	ctx := context.Background()
	id := f.ready(t)

	_, err := f.svc.Checkout(ctx, id)
	require.NoError(t, err)
	require.True(t, f.sched.pending(id))

	require.NoError(t, f.svc.Teardown(ctx, id))
	assert.False(t, f.sched.pending(id))

	_, err = f.svc.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	err = f.svc.Teardown(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionService_StaleTimerIsNoop(t *testing.T) {
	f := newFixture(defaultOptions())
	ctx := context.Background()
	id := f.ready(t)

	_, err := f.svc.Checkout(ctx, id)
	require.NoError(t, err)

	f.svc.mu.Lock()
	ls := f.svc.live[id]
	f.svc.mu.Unlock()

	require.NoError(t, f.svc.Teardown(ctx, id))
	f.svc.advance(id)

	assert.Equal(t, orders.OrderStatusPlaced, ls.nav.Snapshot().Order.Status)
	_, err = f.repo.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionService_CheckoutErrors(t *testing.T) {
	f := newFixture(defaultOptions())
	ctx := context.Background()

	s, _ := f.svc.Create(ctx, "")
	_, err := f.svc.Checkout(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	f.signIn(t, s.ID)
	_, err = f.svc.UpdateDestination(ctx, s.ID, "vp-building-a", "AP-201", true)
	require.NoError(t, err)
	_, err = f.svc.Checkout(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrNoMerchantSelected)
	assert.False(t, f.sched.pending(s.ID))

	_, err = f.svc.Checkout(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionService_CheckoutNotifies(t *testing.T) {
	notifier := new(MockCheckoutNotifier)
	store := cache.NewMemoryAdapter()
	sched := newManualScheduler()
	svc := NewSessionService(
		catalogadapters.NewStaticCatalog(),
		adapters.NewCacheSessionRepository(store, time.Hour),
		notifier,
		sched,
		defaultOptions(),
	)
	f := &fixture{svc: svc, sched: sched}
	id := f.ready(t)

	done := make(chan struct{})
	notifier.On("NotifyCheckout", mock.Anything, mock.AnythingOfType("domain.Session"), mock.AnythingOfType("*domain.Order")).
		Return(errors.New("webhook down")).
		Run(func(mock.Arguments) { close(done) }).
		Once()

	res, err := svc.Checkout(context.Background(), id)
	require.NoError(t, err, "notification failures are not surfaced")
	assert.Equal(t, domain.ScreenTracking, res.Session.Screen)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not called")
	}
	notifier.AssertExpectations(t)
}

func TestSessionService_SecondCheckoutReplacesOrder(t *testing.T) {
	f := newFixture(defaultOptions())
	ctx := context.Background()
	id := f.ready(t)

	first, err := f.svc.Checkout(ctx, id)
	require.NoError(t, err)
	f.sched.fire(id)

	_, err = f.svc.SetScreen(ctx, id, domain.ScreenMerchantDetail)
	require.NoError(t, err)
	second, err := f.svc.Checkout(ctx, id)
	require.NoError(t, err)

	assert.NotEqual(t, first.Session.Order.ID, second.Session.Order.ID)
	assert.Equal(t, orders.OrderStatusPlaced, second.Session.Order.Status)
	assert.True(t, f.sched.pending(id))
}

func TestSessionService_RestoreResumesProgression(t *testing.T) {
	f := newFixture(defaultOptions())
	ctx := context.Background()
	id := f.ready(t)

	_, err := f.svc.Checkout(ctx, id)
	require.NoError(t, err)
	f.sched.fire(id)

	restarted := NewSessionService(catalogadapters.NewStaticCatalog(), f.repo, nil, f.sched, defaultOptions())
	f.sched.Cancel(id)

	n, err := restarted.ResumeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, f.sched.pending(id))

	for f.sched.fire(id) {
	}

	s, err := restarted.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, orders.OrderStatusDelivered, s.Order.Status)
	assert.Equal(t, domain.ScreenTracking, s.Screen)
}

func TestSessionService_GetRestoresOnDemand(t *testing.T) {
	f := newFixture(defaultOptions())
	ctx := context.Background()

	s, err := f.svc.Create(ctx, "vp-building-a")
	require.NoError(t, err)

	other := NewSessionService(catalogadapters.NewStaticCatalog(), f.repo, nil, newManualScheduler(), defaultOptions())
	got, err := other.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, "vp-building-a", got.LocationID)
	assert.Equal(t, domain.ScreenLanding, got.Screen)
}

func TestSessionService_SweepIdle(t *testing.T) {
	f := newFixture(defaultOptions())
	ctx := context.Background()

	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	stale, err := f.svc.Create(ctx, "")
	require.NoError(t, err)

	now = now.Add(45 * time.Second)
	fresh, err := f.svc.Create(ctx, "")
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, f.svc.SweepIdle(ctx))

	_, err = f.svc.Get(ctx, stale.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = f.svc.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestSessionService_PersistFailureIsNotFatal(t *testing.T) {
	repo := new(MockSessionRepository)
	svc := NewSessionService(catalogadapters.NewStaticCatalog(), repo, nil, newManualScheduler(), defaultOptions())
	ctx := context.Background()

	repo.On("Save", mock.Anything, mock.AnythingOfType("domain.Session")).Return(errors.New("redis down"))

	s, err := svc.Create(ctx, "")
	require.NoError(t, err)

	s, err = svc.SetScreen(ctx, s.ID, domain.ScreenAuth)
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenAuth, s.Screen)
	repo.AssertNumberOfCalls(t, "Save", 2)
}

func TestSessionService_RepositoryErrors(t *testing.T) {
	repo := new(MockSessionRepository)
	svc := NewSessionService(catalogadapters.NewStaticCatalog(), repo, nil, newManualScheduler(), defaultOptions())
	ctx := context.Background()

	repo.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrSessionNotFound).Once()
	_, err := svc.Get(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	repo.On("IDs", mock.Anything).Return(nil, errors.New("scan failed")).Once()
	_, err = svc.ResumeAll(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list sessions")

	repo.AssertExpectations(t)
}

func TestSessionService_OrderingURL(t *testing.T) {
	tests := []struct {
		tmpl     string
		expected string
	}{
		{"https://order.example.com/m/%s", "https://order.example.com/m/merchant-1"},
		{"https://order.example.com/start", "https://order.example.com/start?merchant=merchant-1"},
		{"https://order.example.com/start?src=qr", "https://order.example.com/start?src=qr&merchant=merchant-1"},
	}

	for _, tt := range tests {
		svc := &SessionService{opts: Options{OrderingURL: tt.tmpl}}
		assert.Equal(t, tt.expected, svc.orderingURL("merchant-1"))
	}
}

// interceptingRepository runs onGet once, after reading the snapshot and
// before returning it, to interleave work between a read and its adoption.
type interceptingRepository struct {
	*adapters.CacheSessionRepository
	fired bool
	onGet func()
}

func (r *interceptingRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	snap, err := r.CacheSessionRepository.Get(ctx, id)
	if !r.fired {
		r.fired = true
		r.onGet()
	}
	return snap, err
}

func TestSessionService_TeardownDuringRestoreStaysFinal(t *testing.T) {
	f := newFixture(defaultOptions())
	ctx := context.Background()
	id := f.ready(t)
	_, err := f.svc.Checkout(ctx, id)
	require.NoError(t, err)

	sched := newManualScheduler()
	repo := &interceptingRepository{CacheSessionRepository: f.repo}
	restarted := NewSessionService(catalogadapters.NewStaticCatalog(), repo, nil, sched, defaultOptions())
	repo.onGet = func() {
		require.NoError(t, restarted.Teardown(ctx, id))
	}

	_, err = restarted.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	restarted.mu.Lock()
	assert.Empty(t, restarted.live)
	assert.Contains(t, restarted.tombstones, id)
	restarted.mu.Unlock()
	assert.False(t, sched.pending(id))

	_, err = f.repo.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionService_TombstonesExpire(t *testing.T) {
	f := newFixture(defaultOptions())
	ctx := context.Background()

	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	s, err := f.svc.Create(ctx, "")
	require.NoError(t, err)
	require.NoError(t, f.svc.Teardown(ctx, s.ID))

	f.svc.SweepIdle(ctx)
	assert.Contains(t, f.svc.tombstones, s.ID)

	now = now.Add(tombstoneTTL)
	f.svc.SweepIdle(ctx)
	assert.NotContains(t, f.svc.tombstones, s.ID)
}

// flakyDeleteRepository fails the first failures calls to Delete.
type flakyDeleteRepository struct {
	*adapters.CacheSessionRepository
	failures int
}

func (r *flakyDeleteRepository) Delete(ctx context.Context, id string) error {
	if r.failures > 0 {
		r.failures--
		return errors.New("redis down")
	}
	return r.CacheSessionRepository.Delete(ctx, id)
}

func TestSessionService_FailedTeardownKeepsSessionIntact(t *testing.T) {
	store := cache.NewMemoryAdapter()
	repo := adapters.NewCacheSessionRepository(store, time.Hour)
	sched := newManualScheduler()
	svc := NewSessionService(catalogadapters.NewStaticCatalog(),
		&flakyDeleteRepository{CacheSessionRepository: repo, failures: 1}, nil, sched, defaultOptions())
	f := &fixture{svc: svc, sched: sched, repo: repo, store: store}
	ctx := context.Background()

	id := f.ready(t)
	_, err := svc.Checkout(ctx, id)
	require.NoError(t, err)

	err = svc.Teardown(ctx, id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete session")
	assert.True(t, sched.pending(id))

	s, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenTracking, s.Screen)

	require.NoError(t, svc.Teardown(ctx, id))
	assert.False(t, sched.pending(id))
	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	other := NewSessionService(catalogadapters.NewStaticCatalog(), repo, nil, newManualScheduler(), defaultOptions())
	_, err = other.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionService_UnlockAfterSignOut(t *testing.T) {
	f := newFixture(defaultOptions())
	ctx := context.Background()
	id := f.ready(t)

	_, err := f.svc.Checkout(ctx, id)
	require.NoError(t, err)
	for f.sched.fire(id) {
	}

	_, err = f.svc.SignOut(ctx, id)
	require.NoError(t, err)

	_, err = f.svc.Unlock(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	s, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenAuth, s.Screen)
}
