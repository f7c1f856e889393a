package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probe(t *testing.T, handler http.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func TestLivenessHandler_AlwaysReturns200(t *testing.T) {
	h := NewHandler()
	h.Register("catalog", func(ctx context.Context) error { return fmt.Errorf("not loaded") })

	rec, resp := probe(t, h.LivenessHandler())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, StatusUp, resp.Status)
	assert.False(t, resp.Timestamp.IsZero())
	assert.Empty(t, resp.Checks)
}

func TestReadinessHandler_AllHealthy(t *testing.T) {
	h := NewHandler()
	h.Register("catalog", func(ctx context.Context) error { return nil })
	h.RegisterOptional("redis", func(ctx context.Context) error { return nil })

	rec, resp := probe(t, h.ReadinessHandler())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusUp, resp.Status)
	assert.Equal(t, StatusUp, resp.Checks["catalog"].Status)
	assert.True(t, resp.Checks["catalog"].Critical)
	assert.False(t, resp.Checks["redis"].Critical)
}

func TestReadinessHandler_CriticalDown(t *testing.T) {
	h := NewHandler()
	h.Register("catalog", func(ctx context.Context) error { return fmt.Errorf("catalog unavailable") })
	h.RegisterOptional("redis", func(ctx context.Context) error { return nil })

	rec, resp := probe(t, h.ReadinessHandler())

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, StatusDown, resp.Status)
	assert.Equal(t, "catalog unavailable", resp.Checks["catalog"].Error)
}

func TestReadinessHandler_OptionalDownDegrades(t *testing.T) {
	h := NewHandler()
	h.Register("catalog", func(ctx context.Context) error { return nil })
	h.RegisterOptional("kafka", func(ctx context.Context) error { return fmt.Errorf("broker unreachable") })

	rec, resp := probe(t, h.ReadinessHandler())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.Equal(t, StatusDown, resp.Checks["kafka"].Status)
}

func TestReadinessHandler_NoCheckers(t *testing.T) {
	rec, resp := probe(t, NewHandler().ReadinessHandler())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusUp, resp.Status)
}

func TestCheck_RunsConcurrently(t *testing.T) {
	h := NewHandler()
	slow := func(ctx context.Context) error {
		time.Sleep(100 * time.Millisecond)
		return nil
	}
	h.Register("a", slow)
	h.Register("b", slow)
	h.Register("c", slow)

	start := time.Now()
	resp := h.Check(context.Background())

	assert.Equal(t, StatusUp, resp.Status)
	assert.Len(t, resp.Checks, 3)
	assert.Less(t, time.Since(start), 250*time.Millisecond)
}

func TestCheck_HonoursContext(t *testing.T) {
	h := NewHandler()
	h.Register("blocked", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	resp := h.Check(ctx)
	assert.Equal(t, StatusDown, resp.Status)
	assert.Contains(t, resp.Checks["blocked"].Error, "deadline exceeded")
}

func TestRegister_Overwrites(t *testing.T) {
	h := NewHandler()
	h.Register("catalog", func(ctx context.Context) error { return fmt.Errorf("first") })
	h.Register("catalog", func(ctx context.Context) error { return nil })

	assert.Equal(t, []string{"catalog"}, h.Names())
	assert.Equal(t, StatusUp, h.Check(context.Background()).Status)
}
