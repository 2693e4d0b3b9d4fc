package userclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/abekenza/order-service/internal/ports"
)

const (
	defaultMaxAttempts    = 3
	defaultInitialBackoff = 1000 * time.Millisecond
	defaultMultiplier     = 1.5
	requestTimeout        = 5 * time.Second
)

// Client fetches user profiles from the user service over HTTP. Transient
// failures are retried with exponential backoff; when the budget is exhausted
// the caller receives a degraded lookup instead of an error, so order
// operations never fail solely because the user directory is unreachable.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger

	maxAttempts    int
	initialBackoff time.Duration
	multiplier     float64
}

var _ ports.UserDirectory = (*Client)(nil)

// Option customises Client behaviour.
type Option func(*Client)

// WithRetryPolicy overrides the default 3-attempt, 1000ms x1.5 backoff policy.
func WithRetryPolicy(attempts int, initialBackoff time.Duration, multiplier float64) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.maxAttempts = attempts
		}
		if initialBackoff > 0 {
			c.initialBackoff = initialBackoff
		}
		if multiplier >= 1 {
			c.multiplier = multiplier
		}
	}
}

// New builds a Client for the given user-service base URL.
func New(baseURL string, log *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:        baseURL,
		http:           &http.Client{Timeout: requestTimeout},
		log:            log,
		maxAttempts:    defaultMaxAttempts,
		initialBackoff: defaultInitialBackoff,
		multiplier:     defaultMultiplier,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves the profile for userID, forwarding the caller's token.
func (c *Client) Fetch(ctx context.Context, userID int64, token string) ports.UserLookup {
	backoff := c.initialBackoff

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		profile, retryable, err := c.fetchOnce(ctx, userID, token)
		if err == nil {
			return ports.UserLookup{Profile: *profile}
		}

		c.log.Warn("user service call failed",
			zap.Int64("user_id", userID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if !retryable {
			break
		}
		if attempt < c.maxAttempts {
			if !sleepWithContext(ctx, backoff) {
				break
			}
			backoff = time.Duration(float64(backoff) * c.multiplier)
		}
	}

	c.log.Warn("unable to get response from user service, returning degraded profile",
		zap.Int64("user_id", userID),
		zap.Int("max_attempts", c.maxAttempts),
	)
	return ports.UserLookup{Profile: ports.UserProfile{ID: userID}, Degraded: true}
}

// fetchOnce performs a single GET /api/user/me call. Server-side (5xx) and
// transport failures are retryable; client-side rejections are not.
func (c *Client) fetchOnce(ctx context.Context, userID int64, token string) (*ports.UserProfile, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/user/me", nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("X-User-Id", fmt.Sprintf("%d", userID))
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("user service returned %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("user service returned %d", resp.StatusCode)
	}

	var body struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		Surname   string `json:"surname"`
		BirthDate string `json:"birthDate"`
		Email     string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, false, fmt.Errorf("decode user response: %w", err)
	}

	return &ports.UserProfile{
		ID:        body.ID,
		Name:      body.Name,
		Surname:   body.Surname,
		BirthDate: body.BirthDate,
		Email:     body.Email,
	}, false, nil
}

// sleepWithContext waits for d, returning false if ctx is cancelled first.
func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
