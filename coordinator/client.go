// Package coordinator implements the thin HTTP wrapper the Supervisor uses
// to talk to the coordinator (spec §4.6, §6). Grounded on
// original_source/seot/agent/agent.py:_request (bounded timeout, JSON
// body, per-kind error logging) and graph/tool/http.go's HTTPTool for the
// net/http request-building idiom the corpus uses.
package coordinator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/fossabot/seot-agent/seotlog"
	"github.com/rs/zerolog"
)

// requestTimeout is the fixed deadline spec §5/§6 places on every outbound
// HTTP request.
const requestTimeout = 10 * time.Second

// userAgentPrefix, followed by the agent version, identifies the agent to
// the coordinator (spec §6).
const userAgentPrefix = "seot-agent "

// Client is a minimal request/response wrapper around net/http with
// bounded timeout, error classification, and the JSON body contract of
// spec §4.6.
type Client struct {
	baseURL    string
	version    string
	httpClient *http.Client
}

// New constructs a Client against baseURL (spec §6: "base_url configurable").
// version is embedded in the User-Agent header.
func New(baseURL, version string) *Client {
	return &Client{
		baseURL: baseURL,
		version: version,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Request performs method against endpoint (relative to baseURL), encoding
// body as JSON if non-nil, and decodes the JSON response into result (if
// result is non-nil). Status >= 400, and any connection/DNS/timeout
// failure, is logged and reported as (false, nil), the Go form of spec
// §4.6's "return null", so callers can distinguish "no body" from
// "request failed" without inspecting error internals.
func (c *Client) Request(ctx context.Context, method, endpoint string, body, result interface{}) (ok bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, mErr := json.Marshal(body)
		if mErr != nil {
			return false, mErr
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", userAgentPrefix+c.version)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := seotlog.WithComponent("coordinator")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		classifyNetworkError(log, method, endpoint, err)
		return false, nil
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).Str("method", method).Str("endpoint", endpoint).
			Msg("failed to read coordinator response body")
		return false, nil
	}

	if resp.StatusCode >= 400 {
		log.Error().Int("status", resp.StatusCode).Str("method", method).
			Str("endpoint", endpoint).Str("body", string(respBody)).
			Msg("coordinator returned an error status")
		return false, nil
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			log.Error().Err(err).Str("endpoint", endpoint).
				Msg("failed to decode coordinator response")
			return false, nil
		}
	}
	return true, nil
}

// classifyNetworkError logs a request failure at the granularity spec §7
// calls for (NetworkError family: DNS, connection, timeout, other),
// mirroring the DNSError/ClientOSError/ClientTimeoutError triage in
// original_source/seot/agent/agent.py.
func classifyNetworkError(log zerolog.Logger, method, endpoint string, err error) {
	evt := log.Error().Str("method", method).Str("endpoint", endpoint)

	var dnsErr *net.DNSError
	var netErr net.Error
	switch {
	case errors.As(err, &dnsErr):
		evt.Str("kind", "dns").Err(err).Msg("coordinator request failed: DNS lookup error")
	case errors.As(err, &netErr) && netErr.Timeout():
		evt.Str("kind", "timeout").Err(err).Msg("coordinator request failed: timed out")
	case errors.Is(err, context.DeadlineExceeded):
		evt.Str("kind", "timeout").Err(err).Msg("coordinator request failed: deadline exceeded")
	default:
		evt.Str("kind", "connection").Err(err).Msg("coordinator request failed")
	}
}
