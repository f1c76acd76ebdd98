package scanner

import (
	"errors"
	"fmt"
)

// FailureKind classifies fatal pipeline failures. Callers receive exactly
// one kind per failed scan; everything recoverable is degraded silently
// inside the stage that hit it.
type FailureKind string

const (
	// KindNoReadableText means the OCR text was too short to identify anything.
	KindNoReadableText FailureKind = "no_readable_text"
	// KindComposerUnresolved means identification ran but the composer came
	// back empty or as the "unknown" sentinel. Always fatal, whatever
	// confidence the model claimed.
	KindComposerUnresolved FailureKind = "composer_unresolved"
	// KindLowConfidence means the model itself judged the text unrelated to music.
	KindLowConfidence FailureKind = "low_confidence"
	// KindNoVideosFound means every search strategy came back empty.
	KindNoVideosFound FailureKind = "no_videos_found"
	// KindCredentialsExhausted means every pooled API key failed at the
	// transport level for a query.
	KindCredentialsExhausted FailureKind = "credentials_exhausted"
	// KindUpstreamParse means a reasoning-service response carried no
	// usable JSON payload.
	KindUpstreamParse FailureKind = "upstream_parse"
	// KindExtraction means the OCR service failed outright.
	KindExtraction FailureKind = "extraction_failed"
)

// Error is a classified pipeline failure with a reason suitable for
// showing to the caller.
type Error struct {
	Kind   FailureKind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Fail builds a classified failure.
func Fail(kind FailureKind, reason string, err error) *Error {
	return &Error{Kind: kind, Reason: reason, Err: err}
}

// KindOf extracts the failure kind from an error chain; unclassified
// errors report an empty kind.
func KindOf(err error) FailureKind {
	var scanErr *Error
	if errors.As(err, &scanErr) {
		return scanErr.Kind
	}
	return ""
}

// ReasonOf extracts the human-readable reason, falling back to the plain
// error text for unclassified errors.
func ReasonOf(err error) string {
	var scanErr *Error
	if errors.As(err, &scanErr) {
		return scanErr.Reason
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
