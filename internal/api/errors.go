package api

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Error is a request the server rejected with a non-2xx status. Anything
// else coming out of the client (dial failures, timeouts, bad JSON) is a
// transport error and carries no server message.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

func decodeError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	// A rejection with an unreadable body is still a rejection.
	_ = json.NewDecoder(resp.Body).Decode(&body)

	return &Error{Status: resp.StatusCode, Message: body.Message}
}

// Message returns the server's message for a rejected request, or fallback
// when the server sent none or the failure never reached the server.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// UserMessage is like Message but words transport failures generically,
// keeping them distinct from server rejections.
func UserMessage(err error, fallback string) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return "Network error. Please try again."
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// NotFound reports whether err is a server rejection with status 404.
func NotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
