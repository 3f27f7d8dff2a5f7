// Package galaxyerr defines the error kinds surfaced by the core
// fetch-resolve-render pipeline, each carrying the operation and paths
// that were involved so the top-level driver can print a full causal
// chain without re-deriving context from scratch.
package galaxyerr

import (
	"errors"
	"fmt"
)

// Kind identifies one of the error categories the core can raise.
type Kind string

const (
	KindResourceMissing    Kind = "resource-missing"
	KindResourceConflict   Kind = "resource-conflict"
	KindDownloadFailed     Kind = "download-failed"
	KindNeedsManualMerge   Kind = "needs-manual-merge"
	KindParseFailed        Kind = "parse-failed"
	KindRenderMissingVar   Kind = "render-missing-variable"
	KindLogic              Kind = "logic"
)

// Error is the context tuple every core operation attaches on failure:
// the operation name, the filesystem paths or addresses touched, and the
// causal chain leading to it.
type Error struct {
	Kind  Kind
	Op    string
	Paths []string
	Cause error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if len(e.Paths) > 0 {
		msg += fmt.Sprintf(" (paths: %v)", e.Paths)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target names the same Kind, so callers can write
// errors.Is(err, galaxyerr.New(galaxyerr.KindDownloadFailed, "", nil)).
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// New wraps cause in an Error tagged with kind and op, touching paths.
func New(kind Kind, op string, cause error, paths ...string) *Error {
	return &Error{Kind: kind, Op: op, Paths: paths, Cause: cause}
}

// Sentinel returns an unpopulated Error of the given Kind, suitable only
// for errors.Is comparisons (New() instances compare equal on Kind via
// Is above).
func Sentinel(kind Kind) error {
	return &Error{Kind: kind}
}

// IsOptionalMissing reports whether err is a resource-missing error,
// which callers treat as "absent" rather than fatal for optional files.
func IsOptionalMissing(err error) bool {
	return errors.Is(err, Sentinel(KindResourceMissing))
}
