package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/llamayondu/Non-Invasive-Anemia-Detection/internal/session"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/config"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/logger"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/monitoring"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/types"
)

// Client talks to the remote analysis service. All calls are synchronous;
// callers suspend on them and the orchestrators decide what each response
// means. Retries happen only at the transport level; a response, however
// unwelcome, is never silently retried here.
type Client struct {
	httpClient *resty.Client
	sessions   *session.Store
	logger     *logger.Logger
	metrics    *monitoring.MetricsCollector
}

// NewClient creates a remote service client
func NewClient(cfg *config.APIConfig, sessions *session.Store, log *logger.Logger, metrics *monitoring.MetricsCollector) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(time.Duration(cfg.RetryWaitMs) * time.Millisecond).
		SetRetryMaxWaitTime(time.Duration(cfg.RetryMaxWaitMs) * time.Millisecond).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		sessions:   sessions,
		logger:     log,
		metrics:    metrics,
	}
}

// newRequest prepares a request with a correlation ID and, when authed is
// set, the bearer token from the session store.
func (c *Client) newRequest(ctx context.Context, authed bool) (*resty.Request, string, error) {
	requestID := uuid.New().String()
	req := c.httpClient.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID)

	if authed {
		token, err := c.sessions.Token()
		if err != nil {
			return nil, "", err
		}
		req.SetAuthToken(token)
	}

	return req, requestID, nil
}

// call executes a prepared request and handles the failure modes every
// endpoint shares: transport faults, 401s (which invalidate the session) and
// bodies that are not the JSON we were promised. On success the body is
// decoded into out.
func (c *Client) call(operation, requestID string, resp *resty.Response, err error, out interface{}) error {
	duration := int64(0)
	status := 0
	if resp != nil {
		duration = resp.Time().Milliseconds()
		status = resp.StatusCode()
	}

	if err != nil {
		c.logger.RemoteCall(operation, requestID, status, duration, false)
		c.recordRemote(operation, "transport_error", resp)
		return transportError(err)
	}

	if status == 401 || status == 403 {
		c.logger.RemoteCall(operation, requestID, status, duration, false)
		c.recordRemote(operation, "unauthorized", resp)
		// The session is gone; every component reading it must see that
		c.sessions.Invalidate()
		return types.NewAuthenticationError(types.ErrCodeUnauthorized, "session expired, please log in again")
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		c.logger.RemoteCall(operation, requestID, status, duration, false)
		c.logger.WithComponent("api").WithError(err).WithField("operation", operation).Error("Response body is not valid JSON")
		c.recordRemote(operation, "malformed", resp)
		return types.NewMalformedError(types.ErrCodeBadResponse, "the analysis service returned an unexpected response", err)
	}

	c.logger.RemoteCall(operation, requestID, status, duration, true)
	c.recordRemote(operation, "ok", resp)
	return nil
}

func (c *Client) recordRemote(operation, status string, resp *resty.Response) {
	if c.metrics == nil {
		return
	}
	d := time.Duration(0)
	if resp != nil {
		d = resp.Time()
	}
	c.metrics.RecordRemoteRequest(operation, status, d)
}

// transportError maps a transport-level failure to the error taxonomy.
// Timeouts get their own code so the presenter can suggest trying again.
func transportError(err error) *types.ScreenError {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() || errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return types.NewTransportError(types.ErrCodeTimeout, "the analysis service took too long to respond", err)
	}
	return types.NewTransportError(types.ErrCodeNetwork, "could not reach the analysis service", err)
}

// serverMessage picks the most useful human-readable string out of an error
// envelope, falling back to a generic message so raw detail never leaks to
// the user verbatim.
func serverMessage(errMsg, message, fallback string) string {
	if errMsg != "" {
		return errMsg
	}
	if message != "" {
		return message
	}
	return fallback
}
