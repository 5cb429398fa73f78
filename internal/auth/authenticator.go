package auth

import (
	"context"
	"strings"

	"github.com/llamayondu/Non-Invasive-Anemia-Detection/internal/session"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/logger"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/monitoring"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/types"
)

// AccountAPI is the slice of the remote client the authenticator needs
type AccountAPI interface {
	Login(ctx context.Context, emailOrUsername, password string) (*types.AuthToken, error)
	Register(ctx context.Context, username, email, password, role string) (*types.AuthToken, error)
	GetProfile(ctx context.Context) (*types.UserProfile, error)
	UpdateProfile(ctx context.Context, username string) error
	VerifyDocument(ctx context.Context, image *types.CapturedImage) error
}

// Authenticator signs users in and out and keeps the session store current.
// A successful login or registration always lands its token in the store
// before the caller sees success.
type Authenticator struct {
	client   AccountAPI
	sessions *session.Store
	logger   *logger.Logger
	metrics  *monitoring.MetricsCollector
}

// NewAuthenticator creates an authenticator bound to the session store
func NewAuthenticator(client AccountAPI, sessions *session.Store, log *logger.Logger, metrics *monitoring.MetricsCollector) *Authenticator {
	return &Authenticator{
		client:   client,
		sessions: sessions,
		logger:   log,
		metrics:  metrics,
	}
}

// Login authenticates with either an email address or a username plus a
// password and establishes the session.
func (a *Authenticator) Login(ctx context.Context, emailOrUsername, password string) error {
	emailOrUsername = strings.TrimSpace(emailOrUsername)
	if emailOrUsername == "" || password == "" {
		return types.NewValidationError(types.ErrCodeInvalidInput, "email/username and password are required", nil)
	}

	token, err := a.client.Login(ctx, emailOrUsername, password)
	if err != nil {
		a.record("login", "failed")
		return err
	}

	if err := a.sessions.SetToken(token.Token); err != nil {
		a.record("login", "failed")
		return err
	}

	a.record("login", "ok")
	return nil
}

// Register creates an account and, when the service hands back a token,
// establishes the session immediately so the user skips a second login.
func (a *Authenticator) Register(ctx context.Context, username, email, password, role string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	problems := map[string]interface{}{}
	if username == "" {
		problems["username"] = "username is required"
	}
	if !strings.Contains(email, "@") {
		problems["email"] = "a valid email address is required"
	}
	if len(password) < 6 {
		problems["password"] = "password must be at least 6 characters"
	}
	if len(problems) > 0 {
		return types.NewValidationError(types.ErrCodeInvalidInput, "registration form has invalid fields", problems)
	}

	token, err := a.client.Register(ctx, username, email, password, role)
	if err != nil {
		a.record("register", "failed")
		return err
	}

	if token != nil && token.Token != "" {
		if err := a.sessions.SetToken(token.Token); err != nil {
			a.record("register", "failed")
			return err
		}
	}

	a.record("register", "ok")
	return nil
}

// Logout drops the session. Purely local; the token simply stops being sent.
func (a *Authenticator) Logout() {
	a.sessions.Invalidate()
	a.logger.WithComponent("auth").Info("User logged out")
}

// CurrentUser returns the identity claims of the active session
func (a *Authenticator) CurrentUser() (*types.Session, error) {
	return a.sessions.Claims()
}

// Profile fetches the account profile from the service
func (a *Authenticator) Profile(ctx context.Context) (*types.UserProfile, error) {
	return a.client.GetProfile(ctx)
}

// UpdateProfile changes the account's display username
func (a *Authenticator) UpdateProfile(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return types.NewValidationError(types.ErrCodeInvalidInput, "username is required", nil)
	}
	return a.client.UpdateProfile(ctx, username)
}

// VerifyIdentity submits the operator's identity document for verification
// against their account.
func (a *Authenticator) VerifyIdentity(ctx context.Context, image *types.CapturedImage) error {
	if err := a.client.VerifyDocument(ctx, image); err != nil {
		a.record("verify_document", "failed")
		return err
	}
	a.record("verify_document", "ok")
	return nil
}

func (a *Authenticator) record(method, status string) {
	if a.metrics != nil {
		a.metrics.RecordAuthAttempt(method, status)
	}
}
