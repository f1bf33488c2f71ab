package importer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedRoll(v float64) func() float64 {
	return func() float64 { return v }
}

func TestSimulatedSubmitter_Outcome(t *testing.T) {
	data := Dataset{Row{"a": 1.0}, Row{"a": 2.0}}

	sub := &SimulatedSubmitter{SuccessRate: 0.8, Float64: fixedRoll(0.79)}
	receipt, err := sub.Submit(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 2, receipt.Accepted)
	assert.NotEmpty(t, receipt.ID)

	sub.Float64 = fixedRoll(0.8)
	_, err = sub.Submit(context.Background(), data)
	assert.ErrorIs(t, err, ErrSimulatedFailure)
	assert.ErrorIs(t, err, ErrSubmission)
}

func TestSimulatedSubmitter_WaitsDelay(t *testing.T) {
	sub := &SimulatedSubmitter{Delay: 30 * time.Millisecond, SuccessRate: 1}

	start := time.Now()
	_, err := sub.Submit(context.Background(), Dataset{1})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestSimulatedSubmitter_ContextCancelled(t *testing.T) {
	sub := &SimulatedSubmitter{Delay: time.Second, SuccessRate: 1}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sub.Submit(ctx, Dataset{1})
	assert.ErrorIs(t, err, context.Canceled)
}

// The split is unseeded, so only the long-run rate is checked.
func TestSimulatedSubmitter_SuccessRateStatistical(t *testing.T) {
	sub := NewSimulatedSubmitter(0, DefaultSuccessRate)

	const trials = 5000
	successes := 0
	for i := 0; i < trials; i++ {
		if _, err := sub.Submit(context.Background(), Dataset{i}); err == nil {
			successes++
		}
	}
	rate := float64(successes) / trials
	assert.InDelta(t, 0.8, rate, 0.05)
}

func TestNewSimulatedSubmitter_Defaults(t *testing.T) {
	sub := NewSimulatedSubmitter(-1, 2)
	assert.Equal(t, DefaultSimulatedDelay, sub.Delay)
	assert.Equal(t, DefaultSuccessRate, sub.SuccessRate)
	assert.NotNil(t, sub.Float64)
}

func TestHTTPSubmitter_Success(t *testing.T) {
	var got []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"rcpt-1"}`))
	}))
	defer srv.Close()

	sub := NewHTTPSubmitter(srv.URL, "secret", time.Second)
	receipt, err := sub.Submit(context.Background(), Dataset{Row{"a": 1.0}, Row{"a": "x"}})
	require.NoError(t, err)

	assert.Equal(t, "rcpt-1", receipt.ID)
	assert.Equal(t, 2, receipt.Accepted)
	assert.Equal(t, []map[string]any{{"a": 1.0}, {"a": "x"}}, got)
}

func TestHTTPSubmitter_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	sub := NewHTTPSubmitter(srv.URL, "", time.Second)
	_, err := sub.Submit(context.Background(), Dataset{1})
	assert.ErrorIs(t, err, ErrSubmission)
	assert.Contains(t, err.Error(), "500")
}

func TestHTTPSubmitter_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	sub := NewHTTPSubmitter(url, "", time.Second)
	_, err := sub.Submit(context.Background(), Dataset{1})
	assert.ErrorIs(t, err, ErrSubmission)
}

func TestSubmitterFunc(t *testing.T) {
	var calls int
	var sub Submitter = SubmitterFunc(func(ctx context.Context, data Dataset) (Receipt, error) {
		calls++
		return Receipt{Accepted: len(data)}, nil
	})

	receipt, err := sub.Submit(context.Background(), Dataset{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 3, receipt.Accepted)
	assert.Equal(t, 1, calls)
}
