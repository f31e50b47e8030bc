package gateway

import (
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// forwardedHeaders are the only request headers the gateway passes on.
var forwardedHeaders = []string{"Content-Type", "X-Sharer-User-Id", "X-Request-Id"}

// Proxy relays a validated request to the core server and copies the
// response back verbatim.
type Proxy struct {
	baseURL string
	client  *http.Client
	logger  *zerolog.Logger
}

func NewProxy(baseURL string, logger *zerolog.Logger) *Proxy {
	return &Proxy{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

func (p *Proxy) Forward(w http.ResponseWriter, r *http.Request) {
	target := p.baseURL + r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	for _, header := range forwardedHeaders {
		if value := r.Header.Get(header); value != "" {
			req.Header.Set(header, value)
		}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error().Err(err).Str("target", target).Msg("forward failed")
		writeError(w, http.StatusBadGateway, "upstream unavailable")
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}
