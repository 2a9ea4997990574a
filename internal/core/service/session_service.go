package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aishop/storefront/internal/core/domain"
	"github.com/aishop/storefront/internal/core/ports"
	"github.com/aishop/storefront/internal/metrics"
	"github.com/aishop/storefront/internal/pkg/validate"
)

const defaultLogoutTimeout = 5 * time.Second

// SessionService owns the client's authentication state.
//
// Network calls that mutate the session are serialized per instance. Logout
// and forced logout never wait for them: they bump the epoch instead, and a
// response that arrives for an older epoch is discarded.
type SessionService struct {
	auth      ports.AuthAPI
	users     ports.UserAPI
	tokens    ports.TokenStore
	nav       ports.Navigator
	validator *validate.Validator
	log       zerolog.Logger

	logoutTimeout time.Duration
	background    sync.WaitGroup

	ops sync.Mutex

	mu          sync.Mutex
	state       domain.SessionState
	user        *domain.UserProfile
	token       string
	loading     bool
	errMsg      string
	epoch       uint64
	initialized bool
	nextID      int
	listeners   map[int]func(domain.Session)
}

// NewSessionService wires the session to its collaborators. When notifier is
// non-nil the session subscribes to its 401 signal and performs the forced
// logout itself.
func NewSessionService(
	auth ports.AuthAPI,
	users ports.UserAPI,
	tokens ports.TokenStore,
	nav ports.Navigator,
	notifier ports.UnauthenticatedNotifier,
	log zerolog.Logger,
) *SessionService {
	s := &SessionService{
		auth:          auth,
		users:         users,
		tokens:        tokens,
		nav:           nav,
		validator:     validate.New(),
		log:           log.With().Str("component", "session").Logger(),
		logoutTimeout: defaultLogoutTimeout,
		state:         domain.StateAnonymous,
		loading:       true,
		listeners:     make(map[int]func(domain.Session)),
	}
	if notifier != nil {
		notifier.OnUnauthenticated(s.forceLogout)
	}
	return s
}

var _ ports.SessionService = (*SessionService)(nil)

// Initialize validates a persisted token once per process start.
func (s *SessionService) Initialize(ctx context.Context) {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return
	}
	s.initialized = true
	s.mu.Unlock()

	s.ops.Lock()
	defer s.ops.Unlock()
	defer s.finishLoading()

	token := s.tokens.Token(ctx)
	if token == "" {
		return
	}

	var epoch uint64
	s.update(func() {
		epoch = s.epoch
		s.setState(domain.StateInitializing)
	})

	resp, err := s.auth.Validate(ctx)
	if err == nil && (resp == nil || resp.User == nil) {
		err = &domain.Error{Kind: domain.KindServer}
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("stored token rejected")
		s.apply(epoch, func() {
			s.tokens.ClearToken(ctx)
			s.token = ""
			s.user = nil
			s.errMsg = domain.MsgSessionExpired
			s.setState(domain.StateAnonymous)
		})
		return
	}

	s.apply(epoch, func() {
		s.token = token
		s.user = resp.User.Clone()
		s.setState(domain.StateAuthenticated)
	})
	s.log.Info().Str("user_id", resp.User.ID.String()).Msg("session restored")
}

// Login authenticates with email and password and navigates home on success.
func (s *SessionService) Login(ctx context.Context, email, password string) bool {
	creds := domain.Credentials{Email: email, Password: password}
	if err := s.validator.Struct(creds); err != nil {
		s.rejectInput(err, true)
		return false
	}
	return s.authenticate(ctx, "login", domain.MsgLoginFailed, func() (*domain.AuthResponse, error) {
		return s.auth.Login(ctx, creds)
	})
}

// Register creates an account, then behaves like a successful Login.
func (s *SessionService) Register(ctx context.Context, in domain.RegisterInput) bool {
	if err := s.validator.Struct(in); err != nil {
		s.rejectInput(err, true)
		return false
	}
	return s.authenticate(ctx, "register", domain.MsgRegisterFailed, func() (*domain.AuthResponse, error) {
		return s.auth.Register(ctx, in)
	})
}

func (s *SessionService) authenticate(ctx context.Context, op, fallback string, call func() (*domain.AuthResponse, error)) bool {
	s.ops.Lock()
	defer s.ops.Unlock()

	epoch := s.clearError()

	resp, err := call()
	if err == nil && (resp == nil || resp.Token == "") {
		err = &domain.Error{Kind: domain.KindServer}
	}
	if err != nil {
		s.log.Warn().Err(err).Str("op", op).Msg("authentication failed")
		s.applyFailure(epoch, err, fallback, true)
		return false
	}

	applied := s.apply(epoch, func() {
		s.tokens.SaveToken(ctx, resp.Token)
		s.token = resp.Token
		s.user = resp.User.Clone()
		s.setState(domain.StateAuthenticated)
	})
	if !applied {
		return false
	}

	s.log.Info().Str("op", op).Msg("authenticated")
	s.nav.Navigate(domain.RouteHome)
	return true
}

// Logout clears local state immediately and revokes the token server-side in
// the background; a failed revocation is only logged.
func (s *SessionService) Logout() {
	ctx := context.Background()

	s.mu.Lock()
	token := s.token
	if token == "" {
		token = s.tokens.Token(ctx)
	}
	s.epoch++
	s.tokens.ClearToken(ctx)
	s.token = ""
	s.user = nil
	s.setState(domain.StateAnonymous)
	snap := s.snapshotLocked()
	listeners := s.listenersLocked()
	s.mu.Unlock()

	notify(listeners, snap)
	s.nav.Navigate(domain.RouteHome)

	if token != "" {
		s.background.Add(1)
		go s.revoke(token)
	}
}

func (s *SessionService) revoke(token string) {
	defer s.background.Done()
	ctx, cancel := context.WithTimeout(context.Background(), s.logoutTimeout)
	defer cancel()
	if err := s.auth.Logout(ctx, token); err != nil {
		s.log.Warn().Err(err).Msg("server logout failed")
	}
}

// Wait blocks until background server logouts have finished.
func (s *SessionService) Wait() {
	s.background.Wait()
}

// forceLogout reacts to the client's 401 signal. The token is already purged
// from the store by then.
func (s *SessionService) forceLogout(ctx context.Context) {
	s.mu.Lock()
	s.epoch++
	s.tokens.ClearToken(ctx)
	s.token = ""
	s.user = nil
	s.errMsg = domain.MsgSessionExpired
	s.loading = false
	s.setState(domain.StateAnonymous)
	snap := s.snapshotLocked()
	listeners := s.listenersLocked()
	s.mu.Unlock()

	s.log.Warn().Msg("session expired, forced logout")
	notify(listeners, snap)
	s.nav.Navigate(domain.RouteLoginExpired)
}

// ResetPassword asks the server to email a reset link. Authentication state is
// left alone; only the error message changes.
func (s *SessionService) ResetPassword(ctx context.Context, email string) bool {
	if err := s.validator.Email(email); err != nil {
		s.rejectInput(err, false)
		return false
	}
	s.clearError()

	if err := s.auth.ResetPassword(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("password reset failed")
		s.update(func() { s.errMsg = domain.MessageOr(err, domain.MsgResetFailed) })
		return false
	}
	return true
}

// UpdateProfile replaces the cached user with the server's answer. On failure
// the previous user stays in place.
func (s *SessionService) UpdateProfile(ctx context.Context, in domain.ProfileInput) bool {
	if !s.IsAuthenticated() {
		s.rejectInput(domain.NewValidationError("Please login to update your profile"), false)
		return false
	}
	if err := s.validator.Struct(in); err != nil {
		s.rejectInput(err, false)
		return false
	}
	return s.refreshUser(ctx, "update_profile", domain.MsgProfileFailed, func() (*domain.UserResponse, error) {
		return s.users.UpdateProfile(ctx, in)
	})
}

// RefreshProfile reloads the cached user from the profile endpoint.
func (s *SessionService) RefreshProfile(ctx context.Context) bool {
	if !s.IsAuthenticated() {
		return false
	}
	return s.refreshUser(ctx, "profile", domain.MsgProfileFailed, func() (*domain.UserResponse, error) {
		return s.users.Profile(ctx)
	})
}

func (s *SessionService) refreshUser(ctx context.Context, op, fallback string, call func() (*domain.UserResponse, error)) bool {
	s.ops.Lock()
	defer s.ops.Unlock()

	epoch := s.clearError()

	resp, err := call()
	if err == nil && (resp == nil || resp.User == nil) {
		err = &domain.Error{Kind: domain.KindServer}
	}
	if err != nil {
		s.log.Warn().Err(err).Str("op", op).Msg("profile request failed")
		s.applyFailure(epoch, err, fallback, false)
		return false
	}
	return s.apply(epoch, func() { s.user = resp.User.Clone() })
}

// Reload drops in-memory state and initializes again from the store.
func (s *SessionService) Reload(ctx context.Context) {
	s.update(func() {
		s.epoch++
		s.initialized = false
		s.token = ""
		s.user = nil
		s.errMsg = ""
		s.loading = true
		s.setState(domain.StateAnonymous)
	})
	s.Initialize(ctx)
}

// SyncToken re-initializes the session when the persisted token differs from
// the one in memory, i.e. another process logged in or out. Writes made by this
// session leave both equal and are ignored, so a forced logout keeps its message.
func (s *SessionService) SyncToken(ctx context.Context) {
	s.mu.Lock()
	unchanged := s.initialized && s.tokens.Token(ctx) == s.token
	s.mu.Unlock()
	if unchanged {
		return
	}
	s.log.Debug().Msg("persisted token changed elsewhere")
	s.Reload(ctx)
}

// Snapshot returns the current session.
func (s *SessionService) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *SessionService) IsAuthenticated() bool {
	return s.Snapshot().IsAuthenticated
}

// Subscribe calls fn with every new snapshot until the returned func is called.
func (s *SessionService) Subscribe(fn func(domain.Session)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// ── state helpers ─────────────────────────────────────────────────────────────

// update mutates state under the lock and notifies listeners.
func (s *SessionService) update(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	listeners := s.listenersLocked()
	s.mu.Unlock()
	notify(listeners, snap)
}

// apply runs fn only if no logout happened since epoch was taken.
func (s *SessionService) apply(epoch uint64, fn func()) bool {
	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		metrics.StaleResponsesTotal.WithLabelValues("session").Inc()
		s.log.Debug().Msg("discarding response for a superseded session")
		return false
	}
	fn()
	snap := s.snapshotLocked()
	listeners := s.listenersLocked()
	s.mu.Unlock()
	notify(listeners, snap)
	return true
}

func (s *SessionService) applyFailure(epoch uint64, err error, fallback string, authFlow bool) {
	s.apply(epoch, func() {
		s.errMsg = domain.MessageOr(err, fallback)
		if authFlow && s.state != domain.StateAuthenticated {
			s.setState(domain.StateError)
		}
	})
}

// rejectInput records a client-side validation failure.
func (s *SessionService) rejectInput(err error, authFlow bool) {
	s.update(func() {
		s.errMsg = err.Error()
		if authFlow && s.state != domain.StateAuthenticated {
			s.setState(domain.StateError)
		}
	})
}

func (s *SessionService) clearError() uint64 {
	var epoch uint64
	s.update(func() {
		s.errMsg = ""
		epoch = s.epoch
	})
	return epoch
}

func (s *SessionService) finishLoading() {
	s.update(func() { s.loading = false })
}

func (s *SessionService) setState(to domain.SessionState) {
	if s.state == to {
		return
	}
	metrics.SessionTransitionsTotal.WithLabelValues(string(s.state), string(to)).Inc()
	s.log.Debug().Str("from", string(s.state)).Str("to", string(to)).Msg("session transition")
	s.state = to
}

func (s *SessionService) snapshotLocked() domain.Session {
	authenticated := s.state == domain.StateAuthenticated && s.token != ""
	return domain.Session{
		State:           s.state,
		User:            s.user.Clone(),
		IsAuthenticated: authenticated,
		Token:           s.token,
		Loading:         s.loading,
		Error:           s.errMsg,
	}
}

func (s *SessionService) listenersLocked() []func(domain.Session) {
	out := make([]func(domain.Session), 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}
	return out
}

func notify(listeners []func(domain.Session), snap domain.Session) {
	for _, fn := range listeners {
		fn(snap)
	}
}
