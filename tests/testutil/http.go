package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartinventory/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope is the response wrapper every API endpoint returns.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

// Client issues JSON requests against an http.Handler with an optional
// bearer token.
type Client struct {
	t       *testing.T
	handler http.Handler
	Token   string
}

// NewClient creates a client for handler.
func NewClient(t *testing.T, handler http.Handler) *Client {
	return &Client{t: t, handler: handler}
}

// WithToken returns a copy of the client that sends token.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.Token = token
	return &clone
}

// Do sends body encoded as JSON. A nil body sends no payload.
func (c *Client) Do(method, path string, body any) (*httptest.ResponseRecorder, Envelope) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		reader = ToJSONReader(c.t, body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)

	var env Envelope
	if w.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &env), "Failed to parse response: %s", w.Body.String())
	}
	return w, env
}

// DataAs decodes the envelope's data into T.
func DataAs[T any](t *testing.T, env Envelope) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out), "Failed to parse data: %s", string(env.Data))
	return out
}

// RequireSuccess asserts status and a successful envelope.
func RequireSuccess(t *testing.T, w *httptest.ResponseRecorder, env Envelope, status int) {
	t.Helper()

	require.Equal(t, status, w.Code, "Unexpected status: %s", w.Body.String())
	assert.True(t, env.Success, "Expected success to be true")
	assert.Nil(t, env.Error, "Expected no error")
}

// RequireError asserts status and the error code of a failed envelope.
func RequireError(t *testing.T, w *httptest.ResponseRecorder, env Envelope, status int, code string) {
	t.Helper()

	require.Equal(t, status, w.Code, "Unexpected status: %s", w.Body.String())
	assert.False(t, env.Success, "Expected success to be false")
	require.NotNil(t, env.Error, "Expected error object in response")
	assert.Equal(t, code, env.Error.Code, "Unexpected error code")
}

// ToJSONReader converts a value to a JSON io.Reader.
func ToJSONReader(t *testing.T, v any) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal to JSON")
	return bytes.NewReader(data)
}
