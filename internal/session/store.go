package session

import (
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/logger"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/types"
)

// ErrNoSession is returned when no token is stored; callers route the user
// back to login.
var ErrNoSession = types.NewAuthenticationError(types.ErrCodeNoSession, "no active session, please log in")

// tokenClaims mirrors the claims the authentication service embeds in its
// tokens. The client never verifies the signature; it has no secret and
// treats the token as an opaque credential plus readable identity claims,
// exactly as the server will re-verify every request anyway.
type tokenClaims struct {
	UserID   string `json:"userId"`
	Role     string `json:"role"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Store is the process-wide session accessor. Workflow components only read
// from it; it is written by login/logout and invalidated on any 401.
type Store struct {
	mu     sync.RWMutex
	token  string
	claims *types.Session
	logger *logger.Logger
}

// NewStore creates an empty session store
func NewStore(log *logger.Logger) *Store {
	return &Store{logger: log}
}

// SetToken stores a bearer token and eagerly decodes its identity claims.
// An undecodable token is rejected so a broken session can never be entered.
func (s *Store) SetToken(token string) error {
	claims, err := decodeClaims(token)
	if err != nil {
		s.logger.WithComponent("session").WithError(err).Warn("Rejected malformed token")
		return types.NewAuthenticationError(types.ErrCodeUnauthorized, "received a malformed session token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.claims = claims

	s.logger.WithComponent("session").WithField("user_id", claims.UserID).Info("Session established")
	return nil
}

// Token returns the stored bearer token, or ErrNoSession
func (s *Store) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrNoSession
	}
	return s.token, nil
}

// Claims returns the identity claims decoded from the current token, or
// ErrNoSession. The returned value is a copy; callers cannot mutate the
// session through it.
func (s *Store) Claims() (*types.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.claims == nil {
		return nil, ErrNoSession
	}
	claims := *s.claims
	return &claims, nil
}

// Active reports whether a session is currently established
func (s *Store) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Invalidate clears the session. Called on logout and on any unauthorized
// response from the remote service.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return
	}
	s.token = ""
	s.claims = nil
	s.logger.WithComponent("session").Info("Session invalidated")
}

// decodeClaims decodes the token payload without signature verification
func decodeClaims(token string) (*types.Session, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}

	return &types.Session{
		UserID:   claims.UserID,
		Role:     claims.Role,
		Username: claims.Username,
		Email:    claims.Email,
	}, nil
}
