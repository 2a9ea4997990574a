package domain

// SessionState is the authentication state machine of a client session.
type SessionState string

const (
	StateAnonymous     SessionState = "anonymous"
	StateInitializing  SessionState = "initializing"
	StateAuthenticated SessionState = "authenticated"
	StateError         SessionState = "error"
)

// Persisted store keys.
const (
	KeyToken          = "token"
	KeyDarkMode       = "darkMode"
	KeyRecentlyViewed = "recentlyViewed"
)

// Route is a view the navigator can move to.
type Route string

const (
	RouteHome         Route = "/"
	RouteLogin        Route = "/login"
	RouteLoginExpired Route = "/login?session=expired"
)

// Session is a point-in-time view of the client's authentication belief.
// IsAuthenticated implies Token != "".
type Session struct {
	State           SessionState `json:"state"`
	User            *UserProfile `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	Token           string       `json:"-"`
	Loading         bool         `json:"loading"`
	Error           string       `json:"error,omitempty"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

// UserResponse wraps a profile returned by validate and profile endpoints.
type UserResponse struct {
	User *UserProfile `json:"user"`
}
