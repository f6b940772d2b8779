package lark

import (
	"errors"
	"fmt"
	"net/http"
)

// Open platform error codes.
const (
	// CodeRateLimited is returned when the app exceeds the request quota.
	CodeRateLimited = 99991400

	// CodeTokenInvalid is returned for a missing or invalid access token.
	CodeTokenInvalid = 99991663

	// CodeTokenExpired is returned for an expired access token.
	CodeTokenExpired = 99991677

	// CodeForbidden is returned when the app lacks a required scope.
	CodeForbidden = 99991672

	// CodeBlockNotFound is returned when a docx block does not exist.
	CodeBlockNotFound = 1770002
)

// APIError is a failed open platform call.
type APIError struct {
	// HTTPStatus is the HTTP status code of the response.
	HTTPStatus int

	// Code is the platform error code from the response envelope.
	Code int

	// Msg is the platform's message.
	Msg string

	// Path is the endpoint that failed.
	Path string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lark: %s (code %d, status %d, %s)", e.Msg, e.Code, e.HTTPStatus, e.Path)
}

// IsNotFound checks if the error indicates a missing document or block.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatus == http.StatusNotFound || apiErr.Code == CodeBlockNotFound
	}
	return false
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatus == http.StatusTooManyRequests || apiErr.Code == CodeRateLimited
	}
	return false
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatus == http.StatusUnauthorized ||
			apiErr.Code == CodeTokenInvalid || apiErr.Code == CodeTokenExpired
	}
	return false
}

// IsForbidden checks if the error indicates a missing permission scope.
func IsForbidden(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatus == http.StatusForbidden || apiErr.Code == CodeForbidden
	}
	return false
}
