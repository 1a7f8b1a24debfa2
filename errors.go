package devdocs

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECANCELED    = "canceled"
	EINTERNAL    = "internal"
	EINVALID     = "invalid"
	ENOTFOUND    = "not_found"
	EUNAVAILABLE = "unavailable"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code and message.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("devdocs error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var re *RunError
	if errors.As(err, &re) {
		return re.Kind.code()
	}
	var fe *FetchError
	if errors.As(err, &fe) && fe.Kind == FetchNotFound {
		return ENOTFOUND
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// FetchKind classifies a page-level fetch failure.
type FetchKind int

// Fetch failure kinds.
const (
	FetchHTTP FetchKind = iota + 1
	FetchTimeout
	FetchDecode
	FetchNotFound
	FetchIO
	FetchRedirect
	FetchUnsupported
	FetchDisallowed
)

func (k FetchKind) String() string {
	switch k {
	case FetchHTTP:
		return "http"
	case FetchTimeout:
		return "timeout"
	case FetchDecode:
		return "decode"
	case FetchNotFound:
		return "not_found"
	case FetchIO:
		return "io"
	case FetchRedirect:
		return "redirect"
	case FetchUnsupported:
		return "unsupported"
	case FetchDisallowed:
		return "disallowed"
	default:
		return "unknown"
	}
}

// FetchError is returned by a ContentSource when a single path cannot be
// turned into text. It never aborts a run.
type FetchError struct {
	Kind   FetchKind
	Path   string
	URL    string
	Status int // HTTP status for FetchHTTP
	Err    error
}

func (e *FetchError) Error() string {
	target := e.URL
	if target == "" {
		target = e.Path
	}
	switch {
	case e.Kind == FetchHTTP:
		return fmt.Sprintf("fetch %s: HTTP %d", target, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("fetch %s: %s: %v", target, e.Kind, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %s", target, e.Kind)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt could plausibly succeed.
func (e *FetchError) Retryable() bool {
	switch e.Kind {
	case FetchTimeout:
		return true
	case FetchHTTP:
		return e.Status == 429 || e.Status >= 500
	}
	return false
}

// FilterError identifies the filter that failed and the page it failed on.
type FilterError struct {
	Filter string
	Path   string
	Err    error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("filter %s on %s: %v", e.Filter, e.Path, e.Err)
}

func (e *FilterError) Unwrap() error { return e.Err }

// RunErrorKind classifies a run-level failure.
type RunErrorKind int

// Run failure kinds.
const (
	RunInvalidSpec RunErrorKind = iota + 1
	RunStoreUnavailable
	RunCanceled
)

func (k RunErrorKind) String() string {
	switch k {
	case RunInvalidSpec:
		return "invalid spec"
	case RunStoreUnavailable:
		return "store unavailable"
	case RunCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

func (k RunErrorKind) code() string {
	switch k {
	case RunInvalidSpec:
		return EINVALID
	case RunStoreUnavailable:
		return EUNAVAILABLE
	case RunCanceled:
		return ECANCELED
	default:
		return EINTERNAL
	}
}

// RunError aborts a scraper run. Pages stored before it occurred remain valid.
type RunError struct {
	Kind RunErrorKind
	Doc  string
	Err  error
}

func (e *RunError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("run %s: %s", e.Doc, e.Kind)
	}
	return fmt.Sprintf("run %s: %s: %v", e.Doc, e.Kind, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// IsCanceled reports whether err is a run-level cancellation.
func IsCanceled(err error) bool {
	var re *RunError
	return errors.As(err, &re) && re.Kind == RunCanceled
}
