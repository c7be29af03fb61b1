package domain

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures. Messages are shown to end users verbatim.
type Kind string

const (
	KindInvalidURL        Kind = "invalid_url"
	KindUnsupportedFormat Kind = "unsupported_format"
	KindProviderAccess    Kind = "provider_access"
	KindProviderRequest   Kind = "provider_request"
	KindNoResults         Kind = "no_results"
	KindNoReviews         Kind = "no_reviews"
)

// Sentinels for errors.Is; they match any *Error of the same Kind.
var (
	ErrInvalidURL        = &Error{Kind: KindInvalidURL, Msg: "invalid URL"}
	ErrUnsupportedFormat = &Error{Kind: KindUnsupportedFormat, Msg: "unsupported URL format"}
	ErrProviderAccess    = &Error{Kind: KindProviderAccess, Msg: "place provider access denied"}
	ErrProviderRequest   = &Error{Kind: KindProviderRequest, Msg: "place provider request failed"}
	ErrNoResults         = &Error{Kind: KindNoResults, Msg: "no places found"}
	ErrNoReviews         = &Error{Kind: KindNoReviews, Msg: "no reviews found"}
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Errorf builds a typed error whose message is formatted from the arguments.
func Errorf(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
