package manager

import "errors"

// notRegisteredError signals an operation on an unknown resource name (404 mapping).
type notRegisteredError struct{ name string }

func (e notRegisteredError) Error() string { return "resource not registered: " + e.name }

// ErrNotRegistered constructs a notRegisteredError.
func ErrNotRegistered(name string) error { return notRegisteredError{name: name} }

// IsNotRegistered reports whether err indicates an unknown resource name.
func IsNotRegistered(err error) bool {
	var t notRegisteredError
	return errors.As(err, &t)
}

// alreadyRegisteredError signals a duplicate Register call (409 mapping).
type alreadyRegisteredError struct{ name string }

func (e alreadyRegisteredError) Error() string { return "resource already registered: " + e.name }

// ErrAlreadyRegistered constructs an alreadyRegisteredError.
func ErrAlreadyRegistered(name string) error { return alreadyRegisteredError{name: name} }

// IsAlreadyRegistered reports whether err indicates a duplicate registration.
func IsAlreadyRegistered(err error) bool {
	var t alreadyRegisteredError
	return errors.As(err, &t)
}

// DenyReason identifies which admission check refused a load.
type DenyReason string

const (
	DenyInsufficientHeadroom DenyReason = "insufficient_headroom"
	DenyThresholdExceeded    DenyReason = "threshold_exceeded"
)

// admissionDeniedError signals that the load was refused before the builder
// ran: the caller should wait for memory to free up (503 mapping).
type admissionDeniedError struct {
	name   string
	reason DenyReason
}

func (e admissionDeniedError) Error() string {
	return "admission denied for " + e.name + ": " + string(e.reason)
}

// ErrAdmissionDenied constructs an admissionDeniedError.
func ErrAdmissionDenied(name string, reason DenyReason) error {
	return admissionDeniedError{name: name, reason: reason}
}

// IsAdmissionDenied reports whether err indicates a refused load.
func IsAdmissionDenied(err error) bool {
	var t admissionDeniedError
	return errors.As(err, &t)
}

// DenyReasonOf returns the admission denial reason, or "" when err is not an
// admission denial.
func DenyReasonOf(err error) DenyReason {
	var t admissionDeniedError
	if errors.As(err, &t) {
		return t.reason
	}
	return ""
}

// constructionFailedError signals that the builder ran and failed: the caller
// should fix or retry the underlying resource (500 mapping).
type constructionFailedError struct {
	name  string
	cause error
}

func (e constructionFailedError) Error() string {
	return "construction failed for " + e.name + ": " + e.cause.Error()
}

func (e constructionFailedError) Unwrap() error { return e.cause }

// ErrConstructionFailed wraps a builder failure.
func ErrConstructionFailed(name string, cause error) error {
	return constructionFailedError{name: name, cause: cause}
}

// IsConstructionFailed reports whether err indicates a builder failure.
func IsConstructionFailed(err error) bool {
	var t constructionFailedError
	return errors.As(err, &t)
}
