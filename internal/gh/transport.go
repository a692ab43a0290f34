package gh

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// RemoteAPIError is returned for every failed GraphQL exchange with GitHub:
// a non-2xx status, a response carrying an errors array, or a response
// without data.
type RemoteAPIError struct {
	StatusCode int
	Message    string
}

func (e *RemoteAPIError) Error() string {
	return e.Message
}

// errNoData is the message used when a 2xx response carries no data.
const errNoData = "GitHub GraphQL response did not include data."

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// checkEnvelope applies the GraphQL response rules to a raw body.
// Bodies that are not JSON are treated as empty envelopes.
func checkEnvelope(status int, body []byte) error {
	var env envelope
	_ = json.Unmarshal(body, &env)

	messages := make([]string, 0, len(env.Errors))
	for _, e := range env.Errors {
		messages = append(messages, e.Message)
	}
	detail := strings.Join(messages, "; ")

	if status < 200 || status > 299 {
		if detail == "" {
			detail = fmt.Sprintf("GitHub GraphQL error: %d", status)
		}
		return &RemoteAPIError{StatusCode: status, Message: detail}
	}

	if len(env.Errors) > 0 {
		return &RemoteAPIError{StatusCode: status, Message: detail}
	}

	if len(env.Data) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return &RemoteAPIError{StatusCode: status, Message: errNoData}
	}

	return nil
}

// envelopeTransport authenticates requests to GitHub and rejects responses
// that fail the envelope rules before the GraphQL client decodes them.
type envelopeTransport struct {
	token     string
	userAgent string
	wrapped   http.RoundTripper
}

func (t *envelopeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.wrapped.RoundTrip(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to perform RoundTrip in envelopeTransport")
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read GitHub GraphQL response")
	}

	if err := checkEnvelope(resp.StatusCode, body); err != nil {
		return nil, err
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
