package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwalitptl/care-console/pkg/circuitbreaker"
	apperrors "github.com/jwalitptl/care-console/pkg/errors"
	"github.com/jwalitptl/care-console/pkg/metrics"
)

type Config struct {
	BaseURL         string
	Timeout         time.Duration
	BreakerFailures int
	BreakerCooldown time.Duration
}

// Client is the shared transport of all resource repositories: one base URL,
// one circuit breaker, one set of metrics.
type Client struct {
	baseURL string
	http    *http.Client
	cb      *circuitbreaker.CircuitBreaker
	metrics *metrics.Metrics
}

func NewClient(cfg Config, m *metrics.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		cb: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "backend",
			MaxFailures: cfg.BreakerFailures,
			Timeout:     cfg.BreakerCooldown,
		}),
		metrics: m,
	}
}

// Ping lists a cheap collection to check the backend answers.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "specialties", "ping", http.MethodGet, "/api/specialties", nil, nil)
}

func resourcePath(resource string, id ...string) string {
	p := "/api/" + resource
	if len(id) > 0 {
		p += "/" + url.PathEscape(id[0])
	}
	return p
}

func (c *Client) do(ctx context.Context, resource, operation, method, path string, body, out interface{}) error {
	op := operation + " " + resource
	var timer *prometheus.Timer
	if c.metrics != nil {
		timer = prometheus.NewTimer(c.metrics.BackendLatency.WithLabelValues(resource, operation))
	}

	err := c.cb.Execute(func() error {
		return c.roundTrip(ctx, op, method, path, body, out)
	}, func(err error) bool {
		// Status and decode failures leave the shared breaker alone.
		return apperrors.IsCode(err, apperrors.ErrTransport)
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		err = apperrors.NewTransport(op, err)
	}

	if c.metrics != nil {
		timer.ObserveDuration()
		c.metrics.BackendRequests.WithLabelValues(resource, operation, outcome(err)).Inc()
	}
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case apperrors.IsCode(err, apperrors.ErrStatus):
		return "status"
	case apperrors.IsCode(err, apperrors.ErrDecode):
		return "decode"
	default:
		return "transport"
	}
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternal(fmt.Errorf("%s: encode body: %w", op, err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.NewInternal(fmt.Errorf("%s: build request: %w", op, err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.NewTransport(op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewTransport(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.NewStatus(op, resp.StatusCode)
	}

	// Success may come without a body (updates, deletes).
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.NewDecode(op, err)
	}
	return nil
}
