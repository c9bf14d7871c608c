package github

import (
	"errors"
	"fmt"
	"strings"
)

// AuthError indicates that no usable GitHub credentials were found.
type AuthError struct {
	Message string
	cause   error
}

func (e *AuthError) Error() string {
	if e == nil || e.Message == "" {
		return "GitHub authentication failed"
	}
	return "GitHub authentication failed: " + e.Message
}

func (e *AuthError) Unwrap() error { return e.cause }

func IsAuthError(err error) bool {
	var e *AuthError
	return errors.As(err, &e)
}

// UserNotFoundError indicates that the requested GitHub user does not exist.
// This is surfaced as a typed error so callers can adjust UX (e.g., avoid auth hints).
type UserNotFoundError struct {
	Login string
	cause error
}

func (e *UserNotFoundError) Error() string {
	if e == nil || e.Login == "" {
		return "user was not found"
	}
	return fmt.Sprintf("user %q was not found", e.Login)
}

func (e *UserNotFoundError) Unwrap() error { return e.cause }

func IsUserNotFound(err error) bool {
	var e *UserNotFoundError
	return errors.As(err, &e)
}

// InvalidCalendarError reports a malformed contribution day in the API payload.
type InvalidCalendarError struct {
	Week   int
	Day    int
	Reason string
}

func (e *InvalidCalendarError) Error() string {
	return fmt.Sprintf("invalid contribution calendar (week %d, day %d): %s", e.Week, e.Day, e.Reason)
}

func isGraphQLUserNotFound(err error) bool {
	if err == nil {
		return false
	}
	// Observed from GitHub GraphQL:
	// "GraphQL: Could not resolve to a User with the login of 'xxx'. (user)"
	return strings.Contains(err.Error(), "Could not resolve to a User")
}
