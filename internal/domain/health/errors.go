package health

import (
	"errors"
	"fmt"
)

// Sentinel kinds for fetch failures. A *FetchError unwraps to one of them.
var (
	ErrNetwork          = errors.New("network error")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrParse            = errors.New("parse error")
)

// ErrorKind classifies why a fetch produced no report.
type ErrorKind int

const (
	// KindNetwork means the request never completed.
	KindNetwork ErrorKind = iota + 1
	// KindUnexpectedStatus means an HTTP status other than 200 or 503.
	KindUnexpectedStatus
	// KindParse means the body was not a valid health payload.
	KindParse
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnexpectedStatus:
		return "unexpected_status"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindNetwork:
		return ErrNetwork
	case KindUnexpectedStatus:
		return ErrUnexpectedStatus
	case KindParse:
		return ErrParse
	default:
		return nil
	}
}

// FetchError is the failure side of a fetch. All kinds are shown to the
// user the same way: the endpoint URL plus RawBody.
type FetchError struct {
	Kind       ErrorKind
	URL        string
	StatusCode int
	Message    string
	RawBody    string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %s (status %d): %s", e.URL, e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fetch %s: %s: %s", e.URL, e.Kind, e.Message)
}

// Unwrap exposes the kind sentinel and the underlying cause.
func (e *FetchError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// AsFetchError converts any error into a *FetchError, defaulting to the
// network kind for errors that are not already one.
func AsFetchError(url string, err error) *FetchError {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return &FetchError{Kind: KindNetwork, URL: url, Message: err.Error(), Err: err}
}
