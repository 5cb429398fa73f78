package api

import (
	"context"
	"errors"
	"strings"

	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/types"
)

// Login authenticates with either an email address or a username; the
// service decides which field it received by shape, so the client sends
// only the one that applies.
func (c *Client) Login(ctx context.Context, emailOrUsername, password string) (*types.AuthToken, error) {
	if emailOrUsername == "" || password == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "email/username and password are required", nil)
	}

	body := loginRequest{Password: password}
	if strings.Contains(emailOrUsername, "@") {
		body.Email = emailOrUsername
	} else {
		body.Username = emailOrUsername
	}

	req, requestID, err := c.newRequest(ctx, false)
	if err != nil {
		return nil, err
	}

	resp, err := req.SetBody(body).Post("/api/login")

	var out authResponse
	if err := c.call("login", requestID, resp, err, &out); err != nil {
		// A 401 here is just wrong credentials, not an expired session
		var screenErr *types.ScreenError
		if errors.As(err, &screenErr) && screenErr.Type == types.ErrorTypeAuthentication {
			return nil, types.NewAuthenticationError(types.ErrCodeUnauthorized, "invalid credentials")
		}
		return nil, err
	}

	if resp.StatusCode() != 200 || !out.Success || out.Token == "" {
		msg := serverMessage(out.Error, "", "invalid credentials")
		return nil, types.NewAuthenticationError(types.ErrCodeUnauthorized, msg)
	}

	return &types.AuthToken{Token: out.Token, TokenType: "Bearer"}, nil
}

// Register creates a new operator account and returns its first token
func (c *Client) Register(ctx context.Context, username, email, password, role string) (*types.AuthToken, error) {
	req, requestID, err := c.newRequest(ctx, false)
	if err != nil {
		return nil, err
	}

	resp, err := req.
		SetBody(registerRequest{
			Username: username,
			Email:    email,
			Password: password,
			Role:     role,
		}).
		Post("/api/register")

	var out authResponse
	if err := c.call("register", requestID, resp, err, &out); err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 || !out.Success || out.Token == "" {
		msg := serverMessage(out.Error, "", "registration failed")
		return nil, types.NewRejectedError(types.ErrCodeServerRejected, msg, nil)
	}

	return &types.AuthToken{Token: out.Token, TokenType: "Bearer"}, nil
}

// GetProfile fetches the operator's account record
func (c *Client) GetProfile(ctx context.Context) (*types.UserProfile, error) {
	req, requestID, err := c.newRequest(ctx, true)
	if err != nil {
		return nil, err
	}

	resp, err := req.Get("/api/user/profile")

	var out profileResponse
	if err := c.call("get_profile", requestID, resp, err, &out); err != nil {
		return nil, err
	}

	if out.User == nil {
		msg := serverMessage(out.Error, "", "could not load profile")
		return nil, types.NewMalformedError(types.ErrCodeBadResponse, msg, nil)
	}

	return &types.UserProfile{
		UserID:         string(out.User.UserID),
		Username:       out.User.Username,
		Email:          out.User.Email,
		Role:           out.User.Role,
		AadharVerified: out.User.AadharVerified,
		CreatedAt:      out.User.CreatedAt,
	}, nil
}

// UpdateProfile changes the operator's username
func (c *Client) UpdateProfile(ctx context.Context, username string) error {
	if username == "" {
		return types.NewValidationError(types.ErrCodeInvalidInput, "username is required", nil)
	}

	req, requestID, err := c.newRequest(ctx, true)
	if err != nil {
		return err
	}

	resp, err := req.
		SetBody(map[string]string{"username": username}).
		Put("/api/user/profile")

	var out profileResponse
	if err := c.call("update_profile", requestID, resp, err, &out); err != nil {
		return err
	}

	if resp.StatusCode() >= 400 {
		msg := serverMessage(out.Error, "", "failed to update profile")
		return types.NewRejectedError(types.ErrCodeServerRejected, msg, nil)
	}

	return nil
}
