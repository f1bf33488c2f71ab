package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Receipt describes an accepted submission.
type Receipt struct {
	ID          string    `json:"id"`
	Accepted    int       `json:"accepted"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Submitter hands a parsed dataset to whatever stores it.
type Submitter interface {
	Submit(ctx context.Context, data Dataset) (Receipt, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, data Dataset) (Receipt, error)

func (f SubmitterFunc) Submit(ctx context.Context, data Dataset) (Receipt, error) {
	return f(ctx, data)
}

const (
	DefaultSimulatedDelay = 1500 * time.Millisecond
	DefaultSuccessRate    = 0.8
)

// SimulatedSubmitter stands in for a backend: it waits Delay and then
// succeeds with probability SuccessRate.
type SimulatedSubmitter struct {
	Delay       time.Duration
	SuccessRate float64

	// Float64 returns a value in [0, 1). Defaults to the unseeded global source.
	Float64 func() float64
}

// NewSimulatedSubmitter returns a simulator with the given delay and success rate.
// A negative delay or a rate outside [0, 1] falls back to the defaults.
func NewSimulatedSubmitter(delay time.Duration, successRate float64) *SimulatedSubmitter {
	if delay < 0 {
		delay = DefaultSimulatedDelay
	}
	if successRate < 0 || successRate > 1 {
		successRate = DefaultSuccessRate
	}
	return &SimulatedSubmitter{
		Delay:       delay,
		SuccessRate: successRate,
		Float64:     rand.Float64,
	}
}

func (s *SimulatedSubmitter) Submit(ctx context.Context, data Dataset) (Receipt, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Receipt{}, ctx.Err()
		case <-timer.C:
		}
	}

	roll := rand.Float64
	if s.Float64 != nil {
		roll = s.Float64
	}
	if roll() >= s.SuccessRate {
		return Receipt{}, ErrSimulatedFailure
	}

	slog.Debug("simulated submission accepted", "rows", len(data))
	return Receipt{
		ID:          uuid.NewString(),
		Accepted:    len(data),
		SubmittedAt: time.Now(),
	}, nil
}

// HTTPSubmitter posts the dataset as a JSON array to Endpoint.
type HTTPSubmitter struct {
	Endpoint string
	Token    string // sent as a Bearer token when set
	Client   *http.Client
}

// NewHTTPSubmitter returns a submitter for endpoint with the given client timeout.
func NewHTTPSubmitter(endpoint, token string, timeout time.Duration) *HTTPSubmitter {
	return &HTTPSubmitter{
		Endpoint: endpoint,
		Token:    token,
		Client:   &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSubmitter) Submit(ctx context.Context, data Dataset) (Receipt, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: encode dataset: %w", ErrSubmission, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: build request: %w", ErrSubmission, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Receipt{}, ctx.Err()
		}
		return Receipt{}, fmt.Errorf("%w: %w", ErrSubmission, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Receipt{}, fmt.Errorf("%w: endpoint returned %d: %s", ErrSubmission, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	receipt := Receipt{Accepted: len(data), SubmittedAt: time.Now()}
	// The endpoint may echo its own receipt; an empty or foreign body is fine.
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&receipt)
	if receipt.ID == "" {
		receipt.ID = uuid.NewString()
	}
	if receipt.Accepted == 0 {
		receipt.Accepted = len(data)
	}
	return receipt, nil
}
