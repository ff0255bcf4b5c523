package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope mirrors the API response envelope with a typed data field
type Envelope[T any] struct {
	Status  string `json:"status"`
	Results *int   `json:"results"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}

// AuthData matches the data of signup, login and refresh responses
type AuthData struct {
	User struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// DecodeEnvelope decodes a response envelope with data of type T
func DecodeEnvelope[T any](t *testing.T, resp *http.Response) Envelope[T] {
	t.Helper()

	var env Envelope[T]
	AssertJSONResponse(t, resp, &env)
	return env
}

// AssertErrorResponse verifies a failure envelope with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	env := DecodeEnvelope[json.RawMessage](t, resp)
	if expectedStatus >= http.StatusInternalServerError {
		assert.Equal(t, "error", env.Status)
	} else {
		assert.Equal(t, "fail", env.Status)
	}
	assert.Equal(t, expectedMessage, env.Message, "error message mismatch")
}
