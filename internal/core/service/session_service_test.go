package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/aishop/storefront/internal/core/domain"
	"github.com/aishop/storefront/internal/metrics"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubAuthAPI struct {
	login    func(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error)
	register func(ctx context.Context, in domain.RegisterInput) (*domain.AuthResponse, error)
	reset    func(ctx context.Context, email string) error
	validate func(ctx context.Context) (*domain.UserResponse, error)

	mu         sync.Mutex
	calls      int
	logoutWith []string
	logoutErr  error
}

func (a *stubAuthAPI) hit() {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
}

func (a *stubAuthAPI) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error) {
	a.hit()
	return a.login(ctx, creds)
}

func (a *stubAuthAPI) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResponse, error) {
	a.hit()
	return a.register(ctx, in)
}

func (a *stubAuthAPI) ResetPassword(ctx context.Context, email string) error {
	a.hit()
	return a.reset(ctx, email)
}

func (a *stubAuthAPI) Validate(ctx context.Context) (*domain.UserResponse, error) {
	a.hit()
	return a.validate(ctx)
}

func (a *stubAuthAPI) Logout(_ context.Context, token string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logoutWith = append(a.logoutWith, token)
	return a.logoutErr
}

type stubUserAPI struct {
	profile func(ctx context.Context) (*domain.UserResponse, error)
	update  func(ctx context.Context, in domain.ProfileInput) (*domain.UserResponse, error)
}

func (u *stubUserAPI) Profile(ctx context.Context) (*domain.UserResponse, error) {
	return u.profile(ctx)
}

func (u *stubUserAPI) UpdateProfile(ctx context.Context, in domain.ProfileInput) (*domain.UserResponse, error) {
	return u.update(ctx, in)
}

type memTokens struct {
	mu    sync.Mutex
	token string
}

func (m *memTokens) Token(context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *memTokens) SaveToken(_ context.Context, token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

func (m *memTokens) ClearToken(context.Context) { m.SaveToken(context.Background(), "") }

type recordingNav struct {
	mu     sync.Mutex
	routes []domain.Route
}

func (n *recordingNav) Navigate(r domain.Route) {
	n.mu.Lock()
	n.routes = append(n.routes, r)
	n.mu.Unlock()
}

func (n *recordingNav) last() domain.Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.routes) == 0 {
		return ""
	}
	return n.routes[len(n.routes)-1]
}

// stubNotifier mimics the HTTP client: the test calls fire where the client
// would have seen a 401 for the stored token.
type stubNotifier struct {
	handlers []func(ctx context.Context)
}

func (n *stubNotifier) OnUnauthenticated(fn func(ctx context.Context)) {
	n.handlers = append(n.handlers, fn)
}

func (n *stubNotifier) fire(ctx context.Context) {
	for _, fn := range n.handlers {
		fn(ctx)
	}
}

type sessionFixture struct {
	svc      *SessionService
	auth     *stubAuthAPI
	users    *stubUserAPI
	tokens   *memTokens
	nav      *recordingNav
	notifier *stubNotifier
}

func newSessionFixture() *sessionFixture {
	f := &sessionFixture{
		auth:     &stubAuthAPI{},
		users:    &stubUserAPI{},
		tokens:   &memTokens{},
		nav:      &recordingNav{},
		notifier: &stubNotifier{},
	}
	f.svc = NewSessionService(f.auth, f.users, f.tokens, f.nav, f.notifier, zerolog.Nop())
	return f
}

func user(id, name string) *domain.UserProfile {
	return &domain.UserProfile{ID: domain.Identifier(id), Name: name, Email: name + "@example.com"}
}

// loggedIn returns a fixture already authenticated as user 1 with token t1.
func loggedIn(t *testing.T) *sessionFixture {
	t.Helper()
	f := newSessionFixture()
	f.auth.login = func(context.Context, domain.Credentials) (*domain.AuthResponse, error) {
		return &domain.AuthResponse{Token: "t1", User: user("1", "A")}, nil
	}
	f.svc.Initialize(context.Background())
	if !f.svc.Login(context.Background(), "a@example.com", "secret1") {
		t.Fatalf("login failed: %+v", f.svc.Snapshot())
	}
	return f
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestInitialize_NoTokenSkipsNetwork(t *testing.T) {
	f := newSessionFixture()
	if !f.svc.Snapshot().Loading {
		t.Fatal("expected loading before Initialize")
	}

	f.svc.Initialize(context.Background())

	snap := f.svc.Snapshot()
	if snap.Loading || snap.IsAuthenticated || snap.State != domain.StateAnonymous {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if f.auth.calls != 0 {
		t.Fatalf("expected no network calls, got %d", f.auth.calls)
	}
}

func TestInitialize_ValidToken(t *testing.T) {
	f := newSessionFixture()
	f.tokens.token = "stored"
	f.auth.validate = func(context.Context) (*domain.UserResponse, error) {
		return &domain.UserResponse{User: user("7", "Bea")}, nil
	}

	f.svc.Initialize(context.Background())

	snap := f.svc.Snapshot()
	if !snap.IsAuthenticated || snap.State != domain.StateAuthenticated || snap.Loading {
		t.Fatalf("expected authenticated session, got %+v", snap)
	}
	if snap.User == nil || snap.User.ID != "7" || snap.Token != "stored" {
		t.Fatalf("unexpected user/token: %+v", snap)
	}
}

func TestInitialize_RunsOnce(t *testing.T) {
	f := newSessionFixture()
	f.tokens.token = "stored"
	f.auth.validate = func(context.Context) (*domain.UserResponse, error) {
		return &domain.UserResponse{User: user("7", "Bea")}, nil
	}

	f.svc.Initialize(context.Background())
	f.svc.Initialize(context.Background())

	if f.auth.calls != 1 {
		t.Fatalf("expected a single validation attempt, got %d", f.auth.calls)
	}
}

func TestInitialize_FailurePurgesToken(t *testing.T) {
	f := newSessionFixture()
	f.tokens.token = "stored"
	f.auth.validate = func(context.Context) (*domain.UserResponse, error) {
		return nil, domain.NewNetworkError(errors.New("connection refused"))
	}

	f.svc.Initialize(context.Background())

	snap := f.svc.Snapshot()
	if snap.IsAuthenticated || snap.Loading || snap.User != nil {
		t.Fatalf("expected anonymous session, got %+v", snap)
	}
	if snap.Error != domain.MsgSessionExpired {
		t.Fatalf("error = %q", snap.Error)
	}
	if f.tokens.token != "" {
		t.Fatalf("expected token purged, got %q", f.tokens.token)
	}
}

func TestInitialize_UnauthorizedForcesLogout(t *testing.T) {
	f := newSessionFixture()
	f.tokens.token = "expired"
	f.auth.validate = func(ctx context.Context) (*domain.UserResponse, error) {
		f.tokens.ClearToken(ctx)
		f.notifier.fire(ctx)
		return nil, domain.NewServerError(401, "Invalid token")
	}

	f.svc.Initialize(context.Background())

	snap := f.svc.Snapshot()
	if snap.IsAuthenticated || snap.Loading {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.Error != domain.MsgSessionExpired {
		t.Fatalf("error = %q", snap.Error)
	}
	if got := f.nav.last(); got != domain.RouteLoginExpired {
		t.Fatalf("navigated to %q, want %q", got, domain.RouteLoginExpired)
	}
}

func TestLogin_Success(t *testing.T) {
	f := loggedIn(t)

	snap := f.svc.Snapshot()
	if !snap.IsAuthenticated || snap.State != domain.StateAuthenticated {
		t.Fatalf("expected authenticated, got %+v", snap)
	}
	if snap.User.ID != "1" || snap.User.Name != "A" {
		t.Fatalf("unexpected user %+v", snap.User)
	}
	if f.tokens.token != "t1" {
		t.Fatalf("persisted token = %q, want t1", f.tokens.token)
	}
	if got := f.nav.last(); got != domain.RouteHome {
		t.Fatalf("navigated to %q", got)
	}
}

func TestLogin_ServerMessageSurfaced(t *testing.T) {
	f := newSessionFixture()
	f.auth.login = func(context.Context, domain.Credentials) (*domain.AuthResponse, error) {
		return nil, domain.NewServerError(401, "Invalid credentials")
	}
	f.svc.Initialize(context.Background())

	if f.svc.Login(context.Background(), "a@example.com", "wrong-pass") {
		t.Fatal("expected login to fail")
	}
	snap := f.svc.Snapshot()
	if snap.Error != "Invalid credentials" || snap.State != domain.StateError || snap.IsAuthenticated {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if len(f.nav.routes) != 0 {
		t.Fatalf("expected no navigation, got %v", f.nav.routes)
	}
}

func TestLogin_FallbackMessage(t *testing.T) {
	f := newSessionFixture()
	f.auth.login = func(context.Context, domain.Credentials) (*domain.AuthResponse, error) {
		return &domain.AuthResponse{}, nil
	}

	if f.svc.Login(context.Background(), "a@example.com", "secret1") {
		t.Fatal("expected login without token to fail")
	}
	if got := f.svc.Snapshot().Error; got != domain.MsgLoginFailed {
		t.Fatalf("error = %q, want %q", got, domain.MsgLoginFailed)
	}
}

func TestLogin_InvalidInputSkipsNetwork(t *testing.T) {
	f := newSessionFixture()

	if f.svc.Login(context.Background(), "not-an-email", "") {
		t.Fatal("expected validation failure")
	}
	if f.auth.calls != 0 {
		t.Fatalf("expected no network calls, got %d", f.auth.calls)
	}
	if f.svc.Snapshot().Error == "" {
		t.Fatal("expected error message")
	}
}

func TestLogin_FailureWhileAuthenticatedKeepsSession(t *testing.T) {
	f := loggedIn(t)
	f.auth.login = func(context.Context, domain.Credentials) (*domain.AuthResponse, error) {
		return nil, domain.NewNetworkError(errors.New("offline"))
	}

	f.svc.Login(context.Background(), "b@example.com", "secret2")

	snap := f.svc.Snapshot()
	if snap.State != domain.StateAuthenticated || !snap.IsAuthenticated {
		t.Fatalf("expected session kept, got %+v", snap)
	}
	if snap.Error != domain.MsgNetwork {
		t.Fatalf("error = %q", snap.Error)
	}
}

func TestRegister_Success(t *testing.T) {
	f := newSessionFixture()
	var got domain.RegisterInput
	f.auth.register = func(_ context.Context, in domain.RegisterInput) (*domain.AuthResponse, error) {
		got = in
		return &domain.AuthResponse{Token: "r1", User: user("2", "Ray")}, nil
	}

	in := domain.RegisterInput{Name: "Ray", Email: "ray@example.com", Password: "secret1", Extra: map[string]any{"phone": "555"}}
	if !f.svc.Register(context.Background(), in) {
		t.Fatalf("register failed: %+v", f.svc.Snapshot())
	}
	if got.Name != in.Name || got.Email != in.Email || got.Password != in.Password || got.Extra["phone"] != "555" {
		t.Fatalf("server got %+v", got)
	}
	if f.tokens.token != "r1" || !f.svc.IsAuthenticated() {
		t.Fatalf("expected authenticated with r1, got %+v", f.svc.Snapshot())
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	f := newSessionFixture()

	ok := f.svc.Register(context.Background(), domain.RegisterInput{Name: "Ray", Email: "ray@example.com", Password: "123"})
	if ok || f.auth.calls != 0 {
		t.Fatalf("expected rejection without network, ok=%v calls=%d", ok, f.auth.calls)
	}
	if want := "password must be at least 6 characters"; f.svc.Snapshot().Error != want {
		t.Fatalf("error = %q, want %q", f.svc.Snapshot().Error, want)
	}
}

func TestLogout_ClearsStateAndRevokesInBackground(t *testing.T) {
	f := loggedIn(t)
	f.auth.logoutErr = errors.New("server down")

	f.svc.Logout()

	snap := f.svc.Snapshot()
	if snap.IsAuthenticated || snap.User != nil || snap.State != domain.StateAnonymous {
		t.Fatalf("expected anonymous, got %+v", snap)
	}
	if f.tokens.token != "" {
		t.Fatalf("token not purged: %q", f.tokens.token)
	}
	if got := f.nav.last(); got != domain.RouteHome {
		t.Fatalf("navigated to %q", got)
	}

	f.svc.Wait()
	if len(f.auth.logoutWith) != 1 || f.auth.logoutWith[0] != "t1" {
		t.Fatalf("server logout called with %v", f.auth.logoutWith)
	}
}

func TestLogout_Anonymous(t *testing.T) {
	f := newSessionFixture()
	f.svc.Initialize(context.Background())

	f.svc.Logout()
	f.svc.Wait()

	if len(f.auth.logoutWith) != 0 {
		t.Fatalf("expected no server logout, got %v", f.auth.logoutWith)
	}
	if f.svc.IsAuthenticated() {
		t.Fatal("expected anonymous")
	}
}

func TestLogin_ResponseAfterLogoutIsDiscarded(t *testing.T) {
	f := newSessionFixture()
	entered := make(chan struct{})
	release := make(chan struct{})
	f.auth.login = func(context.Context, domain.Credentials) (*domain.AuthResponse, error) {
		close(entered)
		<-release
		return &domain.AuthResponse{Token: "late", User: user("1", "A")}, nil
	}

	stale := metrics.StaleResponsesTotal.WithLabelValues("session")
	before := testutil.ToFloat64(stale)

	done := make(chan bool)
	go func() { done <- f.svc.Login(context.Background(), "a@example.com", "secret1") }()

	<-entered
	f.svc.Logout()
	close(release)

	if <-done {
		t.Fatal("expected superseded login to report failure")
	}
	if got := testutil.ToFloat64(stale) - before; got != 1 {
		t.Fatalf("stale responses counted %v, want 1", got)
	}
	if f.svc.IsAuthenticated() || f.tokens.token != "" {
		t.Fatalf("late response was applied: %+v token=%q", f.svc.Snapshot(), f.tokens.token)
	}
}

func TestForcedLogout_RedirectsToExpiredLogin(t *testing.T) {
	f := loggedIn(t)

	f.notifier.fire(context.Background())

	snap := f.svc.Snapshot()
	if snap.IsAuthenticated || snap.User != nil {
		t.Fatalf("expected anonymous, got %+v", snap)
	}
	if snap.Error != domain.MsgSessionExpired {
		t.Fatalf("error = %q", snap.Error)
	}
	if got := f.nav.last(); got != domain.RouteLoginExpired {
		t.Fatalf("navigated to %q", got)
	}
}

func TestResetPassword(t *testing.T) {
	f := newSessionFixture()
	f.svc.Initialize(context.Background())
	f.auth.reset = func(_ context.Context, email string) error {
		if email != "a@example.com" {
			t.Fatalf("unexpected email %q", email)
		}
		return nil
	}

	if !f.svc.ResetPassword(context.Background(), "a@example.com") {
		t.Fatal("expected success")
	}
	if f.svc.Snapshot().State != domain.StateAnonymous {
		t.Fatalf("state changed: %+v", f.svc.Snapshot())
	}
}

func TestResetPassword_FailureSetsErrorOnly(t *testing.T) {
	f := loggedIn(t)
	f.auth.reset = func(context.Context, string) error {
		return domain.NewServerError(500, "")
	}

	if f.svc.ResetPassword(context.Background(), "a@example.com") {
		t.Fatal("expected failure")
	}
	snap := f.svc.Snapshot()
	if snap.State != domain.StateAuthenticated {
		t.Fatalf("state changed: %+v", snap)
	}
	if snap.Error == "" {
		t.Fatal("expected error message")
	}
}

func TestResetPassword_InvalidEmail(t *testing.T) {
	f := newSessionFixture()

	if f.svc.ResetPassword(context.Background(), "nope") {
		t.Fatal("expected failure")
	}
	if f.auth.calls != 0 {
		t.Fatal("expected no network call")
	}
	if got := f.svc.Snapshot().Error; got != "Please enter a valid email address" {
		t.Fatalf("error = %q", got)
	}
}

func TestUpdateProfile_ReplacesUser(t *testing.T) {
	f := loggedIn(t)
	f.users.update = func(_ context.Context, in domain.ProfileInput) (*domain.UserResponse, error) {
		return &domain.UserResponse{User: &domain.UserProfile{ID: "1", Name: in.Name, Email: "a@example.com"}}, nil
	}

	if !f.svc.UpdateProfile(context.Background(), domain.ProfileInput{Name: "Alice"}) {
		t.Fatalf("update failed: %+v", f.svc.Snapshot())
	}
	if got := f.svc.Snapshot().User.Name; got != "Alice" {
		t.Fatalf("name = %q", got)
	}
}

func TestUpdateProfile_FailureKeepsUser(t *testing.T) {
	f := loggedIn(t)
	f.users.update = func(context.Context, domain.ProfileInput) (*domain.UserResponse, error) {
		return nil, domain.NewServerError(400, "Email already taken")
	}

	if f.svc.UpdateProfile(context.Background(), domain.ProfileInput{Email: "b@example.com"}) {
		t.Fatal("expected failure")
	}
	snap := f.svc.Snapshot()
	if snap.User.Name != "A" || snap.Error != "Email already taken" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestUpdateProfile_RequiresSession(t *testing.T) {
	f := newSessionFixture()
	f.users.update = func(context.Context, domain.ProfileInput) (*domain.UserResponse, error) {
		t.Fatal("network call made while anonymous")
		return nil, nil
	}

	if f.svc.UpdateProfile(context.Background(), domain.ProfileInput{Name: "X"}) {
		t.Fatal("expected failure")
	}
}

func TestRefreshProfile(t *testing.T) {
	f := loggedIn(t)
	f.users.profile = func(context.Context) (*domain.UserResponse, error) {
		return &domain.UserResponse{User: user("1", "Fresh")}, nil
	}

	if !f.svc.RefreshProfile(context.Background()) {
		t.Fatal("refresh failed")
	}
	if got := f.svc.Snapshot().User.Name; got != "Fresh" {
		t.Fatalf("name = %q", got)
	}
}

func TestReload_PicksUpExternalLogout(t *testing.T) {
	f := loggedIn(t)
	f.tokens.ClearToken(context.Background())

	f.svc.Reload(context.Background())

	if f.svc.IsAuthenticated() {
		t.Fatalf("expected anonymous after reload, got %+v", f.svc.Snapshot())
	}
}

func TestSyncToken_KeepsExpiredMessageAfterOwnPurge(t *testing.T) {
	f := loggedIn(t)
	ctx := context.Background()
	f.tokens.ClearToken(ctx)
	f.notifier.fire(ctx)

	f.svc.SyncToken(ctx)

	snap := f.svc.Snapshot()
	if snap.IsAuthenticated || snap.Error != domain.MsgSessionExpired {
		t.Fatalf("expected expired message to survive, got %+v", snap)
	}
}

func TestSyncToken_FollowsForeignLogin(t *testing.T) {
	f := loggedIn(t)
	ctx := context.Background()
	f.auth.validate = func(context.Context) (*domain.UserResponse, error) {
		return &domain.UserResponse{User: user("2", "B")}, nil
	}

	f.svc.SyncToken(ctx)
	if f.auth.calls != 1 {
		t.Fatalf("unchanged token must not revalidate, calls=%d", f.auth.calls)
	}

	f.tokens.SaveToken(ctx, "t2")
	f.svc.SyncToken(ctx)

	snap := f.svc.Snapshot()
	if !snap.IsAuthenticated || snap.User == nil || snap.User.ID != "2" {
		t.Fatalf("expected session of the new token, got %+v", snap)
	}
}

func TestSubscribe(t *testing.T) {
	f := newSessionFixture()
	f.auth.login = func(context.Context, domain.Credentials) (*domain.AuthResponse, error) {
		return &domain.AuthResponse{Token: "t1", User: user("1", "A")}, nil
	}

	var states []domain.SessionState
	unsubscribe := f.svc.Subscribe(func(s domain.Session) { states = append(states, s.State) })
	f.svc.Login(context.Background(), "a@example.com", "secret1")
	unsubscribe()
	f.svc.Logout()

	if len(states) == 0 || states[len(states)-1] != domain.StateAuthenticated {
		t.Fatalf("unexpected notifications %v", states)
	}
}
