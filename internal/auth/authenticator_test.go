package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/llamayondu/Non-Invasive-Anemia-Detection/internal/session"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/logger"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/types"
)

// MockAccountAPI is a mock implementation of AccountAPI
type MockAccountAPI struct {
	mock.Mock
}

func (m *MockAccountAPI) Login(ctx context.Context, emailOrUsername, password string) (*types.AuthToken, error) {
	args := m.Called(ctx, emailOrUsername, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AuthToken), args.Error(1)
}

func (m *MockAccountAPI) Register(ctx context.Context, username, email, password, role string) (*types.AuthToken, error) {
	args := m.Called(ctx, username, email, password, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AuthToken), args.Error(1)
}

func (m *MockAccountAPI) GetProfile(ctx context.Context) (*types.UserProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserProfile), args.Error(1)
}

func (m *MockAccountAPI) UpdateProfile(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockAccountAPI) VerifyDocument(ctx context.Context, image *types.CapturedImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func signedToken(t *testing.T, userID, username, email, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"userId":   userID,
		"role":     role,
		"username": username,
		"email":    email,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func newTestAuthenticator(client AccountAPI) (*Authenticator, *session.Store) {
	log := logger.New("error")
	sessions := session.NewStore(log)
	return NewAuthenticator(client, sessions, log, nil), sessions
}

func TestLoginEstablishesSession(t *testing.T) {
	client := new(MockAccountAPI)
	auth, sessions := newTestAuthenticator(client)
	ctx := context.Background()

	token := signedToken(t, "u-1", "phcworker", "worker@phc.example", "health_worker")
	client.On("Login", ctx, "worker@phc.example", "secret123").
		Return(&types.AuthToken{Token: token, TokenType: "Bearer"}, nil)

	require.NoError(t, auth.Login(ctx, "worker@phc.example", "secret123"))

	require.True(t, sessions.Active())
	claims, err := sessions.Claims()
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "health_worker", claims.Role)
}

func TestLoginFailureLeavesNoSession(t *testing.T) {
	client := new(MockAccountAPI)
	auth, sessions := newTestAuthenticator(client)
	ctx := context.Background()

	client.On("Login", ctx, "phcworker", "wrong").
		Return(nil, types.NewAuthenticationError(types.ErrCodeUnauthorized, "invalid credentials"))

	err := auth.Login(ctx, "phcworker", "wrong")
	require.Error(t, err)
	assert.False(t, sessions.Active())
}

func TestLoginRejectsMalformedToken(t *testing.T) {
	client := new(MockAccountAPI)
	auth, sessions := newTestAuthenticator(client)
	ctx := context.Background()

	client.On("Login", ctx, "phcworker", "secret123").
		Return(&types.AuthToken{Token: "not-a-jwt"}, nil)

	err := auth.Login(ctx, "phcworker", "secret123")
	require.Error(t, err)
	assert.False(t, sessions.Active())
}

func TestLoginValidatesInput(t *testing.T) {
	client := new(MockAccountAPI)
	auth, _ := newTestAuthenticator(client)

	require.Error(t, auth.Login(context.Background(), "", "secret123"))
	require.Error(t, auth.Login(context.Background(), "phcworker", ""))
	client.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterWithTokenSkipsSecondLogin(t *testing.T) {
	client := new(MockAccountAPI)
	auth, sessions := newTestAuthenticator(client)
	ctx := context.Background()

	token := signedToken(t, "u-2", "newworker", "new@phc.example", "health_worker")
	client.On("Register", ctx, "newworker", "new@phc.example", "secret123", "health_worker").
		Return(&types.AuthToken{Token: token}, nil)

	require.NoError(t, auth.Register(ctx, "newworker", "new@phc.example", "secret123", "health_worker"))
	assert.True(t, sessions.Active())
}

func TestRegisterValidationProblems(t *testing.T) {
	client := new(MockAccountAPI)
	auth, _ := newTestAuthenticator(client)

	err := auth.Register(context.Background(), "", "not-an-email", "abc", "health_worker")
	require.Error(t, err)
	var screenErr *types.ScreenError
	require.ErrorAs(t, err, &screenErr)
	assert.Len(t, screenErr.Details, 3)
	client.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogoutClearsSession(t *testing.T) {
	client := new(MockAccountAPI)
	auth, sessions := newTestAuthenticator(client)
	ctx := context.Background()

	token := signedToken(t, "u-1", "phcworker", "worker@phc.example", "health_worker")
	client.On("Login", ctx, "phcworker", "secret123").
		Return(&types.AuthToken{Token: token}, nil)

	require.NoError(t, auth.Login(ctx, "phcworker", "secret123"))
	auth.Logout()

	assert.False(t, sessions.Active())
	_, err := auth.CurrentUser()
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestVerifyIdentityPropagatesRejection(t *testing.T) {
	client := new(MockAccountAPI)
	auth, _ := newTestAuthenticator(client)
	ctx := context.Background()

	img := &types.CapturedImage{Data: []byte("doc"), MIMEType: "image/jpeg"}
	client.On("VerifyDocument", ctx, img).
		Return(types.NewRejectedError(types.ErrCodeServerRejected, "document does not match account", nil))

	err := auth.VerifyIdentity(ctx, img)
	require.Error(t, err)
	var screenErr *types.ScreenError
	require.ErrorAs(t, err, &screenErr)
	assert.Equal(t, types.ErrorTypeRejected, screenErr.Type)
}

func TestUpdateProfileRequiresUsername(t *testing.T) {
	client := new(MockAccountAPI)
	auth, _ := newTestAuthenticator(client)

	err := auth.UpdateProfile(context.Background(), "   ")
	require.Error(t, err)
	client.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
}
