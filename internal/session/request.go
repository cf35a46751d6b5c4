package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request identifier so client and server logs
// can be correlated.
const RequestIDHeader = "X-Request-ID"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// redacted replaces secret values in verbose request logs.
const redacted = "********"

// secretFields are payload keys never written to logs.
var secretFields = map[string]bool{"password": true}

// Response is the status and decoded body of one API call. Body is nil when
// the payload is empty or not a JSON object.
type Response struct {
	StatusCode int
	Body       map[string]interface{}
}

// send issues one JSON request against the API and returns its response.
// Only transport failures produce an error; any HTTP status is a Response.
func (c *Client) send(ctx context.Context, method, path string, payload interface{}, verbose bool) (*Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s %s request: %w", method, path, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	if verbose {
		c.logger.Debug("(%s - %s) <- %s [%s]: %s", method, c.baseURL, path, requestID, redactPayload(data))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(method, 0, time.Since(start))
		return nil, classifyNetworkError(err, c.baseURL)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.metrics.ObserveRequest(method, 0, time.Since(start))
		return nil, classifyNetworkError(err, c.baseURL)
	}
	c.metrics.ObserveRequest(method, resp.StatusCode, time.Since(start))

	res := &Response{
		StatusCode: resp.StatusCode,
		Body:       decodeBody(raw),
	}

	if verbose {
		c.logger.Debug("(%s - %s) -> %s (%d) [%s]: %s", method, c.baseURL, path, res.StatusCode, requestID, bytes.TrimSpace(raw))
	}

	return res, nil
}

// decodeBody decodes a JSON object, returning nil for anything else.
func decodeBody(raw []byte) map[string]interface{} {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var body map[string]interface{}
	if err := dec.Decode(&body); err != nil {
		return nil
	}
	return body
}

// redactPayload renders an encoded request payload with secret fields masked.
func redactPayload(data []byte) string {
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return string(data)
	}

	for key := range fields {
		if secretFields[key] {
			fields[key] = redacted
		}
	}

	out, err := json.Marshal(fields)
	if err != nil {
		return string(data)
	}
	return string(out)
}
