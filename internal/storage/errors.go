package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/aws/smithy-go"
)

var (
	// ErrMissingCredentials is returned when a remote driver is built without an access key pair.
	ErrMissingCredentials = errors.New("storage: access key and secret key are required")
	// ErrUnknownDriver is returned by Open for an unsupported driver name.
	ErrUnknownDriver = errors.New("storage: unknown driver")
	// ErrNotFound is returned by drivers for a missing bucket or object.
	ErrNotFound = errors.New("storage: not found")
	// ErrInvalidKey is returned for empty object keys or folder names.
	ErrInvalidKey = errors.New("storage: invalid key")
)

// ErrorKind is the closed set of gateway failure classes.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindAuthFailure
	KindNetworkError
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAuthFailure:
		return "auth_failure"
	case KindNetworkError:
		return "network_error"
	default:
		return "unknown"
	}
}

// Error is returned by every failed Gateway operation.
type Error struct {
	Op     string
	Bucket string
	Key    string
	Kind   ErrorKind
	Err    error
}

func (e *Error) Error() string {
	target := e.Bucket
	if e.Key != "" {
		target += "/" + e.Key
	}
	return fmt.Sprintf("storage %s %s (%s): %v", e.Op, target, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// kindError lets drivers tag an error with the kind they already know.
type kindError struct {
	kind ErrorKind
	err  error
}

func (e *kindError) Error() string { return e.err.Error() }
func (e *kindError) Unwrap() error { return e.err }

func withKind(kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: err}
}

// KindOf classifies err. Unrecognised errors are KindUnknown.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, os.ErrNotExist):
		return KindNotFound
	case errors.Is(err, ErrMissingCredentials), errors.Is(err, os.ErrPermission):
		return KindAuthFailure
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if kind, ok := kindForCode(apiErr.ErrorCode()); ok {
			return kind
		}
	}

	var withStatus interface{ HTTPStatusCode() int }
	if errors.As(err, &withStatus) {
		if kind, ok := kindForStatus(withStatus.HTTPStatusCode()); ok {
			return kind
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return KindNetworkError
	}

	return KindUnknown
}

func kindForCode(code string) (ErrorKind, bool) {
	switch code {
	case "NoSuchKey", "NoSuchBucket", "NotFound", "NoSuchUpload":
		return KindNotFound, true
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch",
		"ExpiredToken", "InvalidToken", "Forbidden", "AllAccessDisabled":
		return KindAuthFailure, true
	}
	return KindUnknown, false
}

func kindForStatus(status int) (ErrorKind, bool) {
	switch status {
	case http.StatusNotFound:
		return KindNotFound, true
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuthFailure, true
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return KindNetworkError, true
	}
	return KindUnknown, false
}
