package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharehub/internal/models"
)

// echoUpstream records the last request it saw and answers 200 with a
// fixed body.
type echoUpstream struct {
	method  string
	path    string
	query   string
	body    string
	headers http.Header
}

func newEchoUpstream(t *testing.T) (*echoUpstream, *httptest.Server) {
	t.Helper()
	echo := &echoUpstream{}
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		echo.method = r.Method
		echo.path = r.URL.Path
		echo.query = r.URL.RawQuery
		echo.body = string(raw)
		echo.headers = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(backend.Close)
	return echo, backend
}

func newGateway(t *testing.T, upstreamURL string, limiter Limiter) http.Handler {
	t.Helper()
	logger := zerolog.Nop()
	proxy := NewProxy(upstreamURL, &logger)
	return NewServer(":0", proxy, limiter, &logger).Handler()
}

func send(handler http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "192.0.2.10:51234"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestForwardRelaysRequestAndResponse(t *testing.T) {
	echo, backend := newEchoUpstream(t)
	handler := newGateway(t, backend.URL, nil)

	rec := send(handler, http.MethodGet, "/bookings/42?approved=true", "", map[string]string{
		userHeader:      "7",
		"Content-Type":  "application/json",
		"Authorization": "Bearer secret",
		requestIDHeader: "req-123",
		"X-Custom-Junk": "dropped",
	})

	assert.Equal(t, http.StatusTeapot, rec.Code, "upstream status is relayed")
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	assert.Equal(t, http.MethodGet, echo.method)
	assert.Equal(t, "/bookings/42", echo.path)
	assert.Equal(t, "approved=true", echo.query)
	assert.Equal(t, "7", echo.headers.Get(userHeader))
	assert.Equal(t, "req-123", echo.headers.Get(requestIDHeader))
	assert.Empty(t, echo.headers.Get("Authorization"), "unlisted headers stay behind")
	assert.Empty(t, echo.headers.Get("X-Custom-Junk"))
}

func TestValidatedBodySurvivesForwarding(t *testing.T) {
	echo, backend := newEchoUpstream(t)
	handler := newGateway(t, backend.URL, nil)

	payload := `{"name":"Alice","email":"alice@example.com"}`
	rec := send(handler, http.MethodPost, "/users", payload, nil)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, payload, echo.body, "the original bytes reach the core")
}

func TestRequestIDInjection(t *testing.T) {
	echo, backend := newEchoUpstream(t)
	handler := newGateway(t, backend.URL, nil)

	rec := send(handler, http.MethodGet, "/users", "", nil)
	generated := rec.Header().Get(requestIDHeader)
	assert.NotEmpty(t, generated, "missing id gets generated")
	assert.Equal(t, generated, echo.headers.Get(requestIDHeader))

	rec = send(handler, http.MethodGet, "/users", "", map[string]string{requestIDHeader: "keep-me"})
	assert.Equal(t, "keep-me", rec.Header().Get(requestIDHeader))
}

func TestValidationRejections(t *testing.T) {
	echo, backend := newEchoUpstream(t)
	handler := newGateway(t, backend.URL, nil)

	future := models.NewDateTime(time.Now().Add(time.Hour)).String()
	past := models.NewDateTime(time.Now().Add(-time.Hour)).String()

	cases := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"UserWithoutEmail", http.MethodPost, "/users", `{"name":"Alice"}`},
		{"UserBadEmail", http.MethodPost, "/users", `{"name":"Alice","email":"not-an-email"}`},
		{"UpdateUserBadEmail", http.MethodPatch, "/users/1", `{"email":"nope"}`},
		{"ItemWithoutAvailable", http.MethodPost, "/items", `{"name":"Drill","description":"cordless"}`},
		{"ItemEmptyName", http.MethodPost, "/items", `{"name":"","description":"x","available":true}`},
		{"BookingWithoutItem", http.MethodPost, "/bookings", `{"start":"` + future + `","end":"` + future + `"}`},
		{"BookingStartInPast", http.MethodPost, "/bookings", `{"itemId":1,"start":"` + past + `","end":"` + future + `"}`},
		{"BookingEndNotAfterStart", http.MethodPost, "/bookings", `{"itemId":1,"start":"` + future + `","end":"` + future + `"}`},
		{"RequestBlankDescription", http.MethodPost, "/requests", `{"description":""}`},
		{"CommentBlankText", http.MethodPost, "/items/1/comment", `{"text":""}`},
		{"NotJSON", http.MethodPost, "/users", `{{{`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			echo.method = ""
			rec := send(handler, tc.method, tc.path, tc.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Empty(t, echo.method, "rejected requests never reach the core")
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestPaginationGuards(t *testing.T) {
	echo, backend := newEchoUpstream(t)
	handler := newGateway(t, backend.URL, nil)

	for _, query := range []string{"from=-1", "size=0", "size=-5", "from=abc"} {
		echo.method = ""
		rec := send(handler, http.MethodGet, "/bookings?"+query, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
		assert.Empty(t, echo.method)
	}

	rec := send(handler, http.MethodGet, "/bookings?from=0&size=10", "", nil)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestUpstreamDownIsBadGateway(t *testing.T) {
	handler := newGateway(t, "http://127.0.0.1:1", nil)

	rec := send(handler, http.MethodGet, "/users", "", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "upstream unavailable")
}

func TestRedisLimiter(t *testing.T) {
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { client.Close() })

	limiter := NewRedisLimiter(client, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "user:1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, err := limiter.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.False(t, allowed, "fourth request in the window is over budget")

	// Budgets are per key.
	allowed, err = limiter.Allow(ctx, "user:2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryLimiter(t *testing.T) {
	limiter := NewMemoryLimiter(0, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, "addr:192.0.2.10")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, err := limiter.Allow(ctx, "addr:192.0.2.10")
	require.NoError(t, err)
	assert.False(t, allowed, "burst spent, zero refill")
}

func TestFailoverLimiterFallsBack(t *testing.T) {
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { client.Close() })
	logger := zerolog.Nop()

	limiter := NewFailoverLimiter(
		NewRedisLimiter(client, 1, time.Minute),
		NewMemoryLimiter(0, 2),
		&logger,
	)
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, allowed)

	mini.Close()

	// Redis is gone; the local bucket takes over without surfacing errors.
	allowed, err = limiter.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, allowed)
	allowed, err = limiter.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, allowed)
	allowed, err = limiter.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestGatewayThrottlesPerUser(t *testing.T) {
	_, backend := newEchoUpstream(t)
	handler := newGateway(t, backend.URL, NewMemoryLimiter(0, 2))

	for i := 0; i < 2; i++ {
		rec := send(handler, http.MethodGet, "/users", "", map[string]string{userHeader: "7"})
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}
	rec := send(handler, http.MethodGet, "/users", "", map[string]string{userHeader: "7"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different user still has a full bucket.
	rec = send(handler, http.MethodGet, "/users", "", map[string]string{userHeader: "8"})
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
