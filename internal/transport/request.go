package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/proverbs/pkg/constants"
	"github.com/agentstation/proverbs/pkg/errors"
)

// ErrorBody is the error envelope returned by the API.
type ErrorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// ReadBody reads at most constants.MaxResponseBytes of the body and closes it.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxResponseBytes))
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}
	return body, nil
}

// Success reports whether resp has a 2xx status.
func Success(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// ErrorFromResponse converts a non-2xx response into an APIError, using the
// API's error envelope when present.
func ErrorFromResponse(resp *http.Response, body []byte) *errors.APIError {
	apiErr := errors.NewAPIError(endpoint(resp), resp.StatusCode, http.StatusText(resp.StatusCode))

	var envelope ErrorBody
	if err := json.Unmarshal(body, &envelope); err == nil && (envelope.Error != "" || len(envelope.Details) > 0) {
		if envelope.Error != "" {
			apiErr.Message = envelope.Error
		}
		if len(envelope.Details) > 0 {
			apiErr.Details = errors.FieldErrors(envelope.Details)
		}
		return apiErr
	}

	if text := strings.TrimSpace(string(body)); text != "" && len(text) < 200 {
		apiErr.Message = text
	}
	return apiErr
}

// DecodeResponse reads resp and decodes a 2xx JSON body into target.
func DecodeResponse(resp *http.Response, target any) error {
	body, err := ReadBody(resp)
	if err != nil {
		return err
	}
	if !Success(resp) {
		return ErrorFromResponse(resp, body)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", endpoint(resp), err)
	}
	return nil
}

func endpoint(resp *http.Response) string {
	if resp.Request == nil || resp.Request.URL == nil {
		return "response"
	}
	return resp.Request.URL.Path
}
