package userapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/TemirB/patterns/internal/domain"
)

type breaker interface {
	Allow() error
	Success()
	Failure()
}

// Client is the remote user service step of the lookup chain. It is the
// origin of the data and is never backfilled.
type Client struct {
	baseURL string
	http    *http.Client
	breaker breaker
	logger  *zap.Logger
}

func New(baseURL string, timeout time.Duration, brk breaker, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		breaker: brk,
		logger:  logger,
	}
}

func (c *Client) Name() string { return "api" }

func Route(id int64) string { return fmt.Sprintf("/users/%d", id) }

func (c *Client) Fetch(ctx context.Context, id int64) (domain.User, bool, error) {
	body, found, err := c.SendGetRequest(ctx, Route(id))
	if err != nil || !found {
		return domain.User{}, false, err
	}

	var u domain.User
	if err := json.Unmarshal(body, &u); err != nil {
		return domain.User{}, false, fmt.Errorf("%w: decode user %d: %v", domain.ErrSourceUnavailable, id, err)
	}
	return u, true, nil
}

// SendGetRequest returns the body of a 200 response. A 404 is reported as
// found == false. Every other outcome wraps domain.ErrSourceUnavailable; only
// transport errors and 5xx count against the breaker.
func (c *Client) SendGetRequest(ctx context.Context, route string) ([]byte, bool, error) {
	if err := c.breaker.Allow(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+route, nil)
	if err != nil {
		c.breaker.Failure()
		return nil, false, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	t0 := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.breaker.Failure()
		c.logger.Warn("user api request failed", zap.String("route", route), zap.Error(err))
		return nil, false, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("user api responded",
		zap.String("route", route),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(t0)),
	)

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			c.breaker.Failure()
			return nil, false, fmt.Errorf("%w: read body: %v", domain.ErrSourceUnavailable, err)
		}
		c.breaker.Success()
		return body, true, nil
	case resp.StatusCode == http.StatusNotFound:
		c.breaker.Success()
		return nil, false, nil
	default:
		// every call past Allow reports an outcome, or a half-open trial leaks
		if resp.StatusCode >= http.StatusInternalServerError {
			c.breaker.Failure()
		} else {
			c.breaker.Success()
		}
		return nil, false, fmt.Errorf("%w: %s returned %d", domain.ErrSourceUnavailable, route, resp.StatusCode)
	}
}
