package vfs

import "errors"

// An ErrorKind is the taxonomy of failures this package can report, mirroring the last-error slot of the
// reference implementation (spec §7). Every error returned by this package resolves, via KindOf, to exactly one
// of these.
type ErrorKind int

const (
	// KindNone is never carried by an *Error (KindOf reports it only for a nil error); it exists so the zero value
	// of ErrorKind reads as "no error".
	KindNone ErrorKind = iota
	KindNotInitializedYet
	KindAlreadyInitialized
	KindAlreadyExists
	KindNotFound
	KindInvalidParameter
	KindGeneric
	KindInvalidErrorCode
	KindNoRootPathsDefined
	KindPermissionDenied
	KindInUse
	KindCantManipulateArchives
	KindNotAnArchive
	KindInvalidArchiveFormat
	KindMissingFilters
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindNotInitializedYet:
		return "NotInitializedYet"
	case KindAlreadyInitialized:
		return "AlreadyInitialized"
	case KindAlreadyExists:
		return "AlreadyExists"
	case KindNotFound:
		return "NotFound"
	case KindInvalidParameter:
		return "InvalidParameter"
	case KindGeneric:
		return "Generic"
	case KindNoRootPathsDefined:
		return "NoRootPathsDefined"
	case KindPermissionDenied:
		return "PermissionDenied"
	case KindInUse:
		return "InUse"
	case KindCantManipulateArchives:
		return "CantManipulateArchives"
	case KindNotAnArchive:
		return "NotAnArchive"
	case KindInvalidArchiveFormat:
		return "InvalidArchiveFormat"
	case KindMissingFilters:
		return "MissingFilters"
	default:
		return "InvalidErrorCode"
	}
}

// A Error is the error type this package constructs for its own failures (Shutdown aggregates several of them
// into one *multierror.Error). It carries the Kind the reference implementation would
// have stashed in its last-error slot (spec §7), plus a human readable Message and an optional Cause - following
// the teacher's struct-per-failure, Unwrap-enabled error style (see the original errors.go).
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return "vfs: " + e.Kind.String()
	}
	return "vfs: " + e.Kind.String() + ": " + e.Message
}

// Unwrap returns nil or the cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

func newErr(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapErr(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the ErrorKind from err, or KindGeneric if err is non-nil but is not (and does not wrap) a
// *Error, or KindNone if err is nil. It is the equivalent of consuming the reference implementation's global
// last-error slot (spec §7 "Propagation"), but without the shared mutable state: callers get the kind directly
// off the error value they already hold.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Kind
	}
	return KindGeneric
}

// MountPointNotFoundError is the cause wrapped into the *Error (KindNotFound) that archive-prefix resolution
// returns once every split point of a path has been tried and none named a usable archive or entry. Exported so
// callers can distinguish "no split point worked" from other NotFound causes with errors.As.
type MountPointNotFoundError struct {
	Path  string
	Cause error
}

func (e *MountPointNotFoundError) Error() string {
	return "vfs: no archive or host entity found for " + e.Path
}

func (e *MountPointNotFoundError) Unwrap() error {
	return e.Cause
}
