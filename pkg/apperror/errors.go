package apperror

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks across the capture pipeline.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrStructuring   = errors.New("structuring failed")
	ErrTranscription = errors.New("transcription failed")
	ErrPersistence   = errors.New("persistence failed")
	ErrCalendar      = errors.New("calendar sync failed")
	ErrRelatedness   = errors.New("relatedness lookup failed")
	ErrValidation    = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
)

// ConfigurationError reports a missing credential or setting. It is raised
// before any network call is attempted.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s is not set", e.Setting)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// StructuringError wraps a failed or unusable completion call.
type StructuringError struct {
	Message string
	Err     error
}

func (e *StructuringError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("structuring failed: %s: %v", e.Message, e.Err)
	}
	return "structuring failed: " + e.Message
}

func (e *StructuringError) Unwrap() error { return e.Err }

func (e *StructuringError) Is(target error) bool {
	return target == ErrStructuring
}

// TranscriptionError wraps a failed or unusable transcription call.
type TranscriptionError struct {
	Message string
	Err     error
}

func (e *TranscriptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transcription failed: %s: %v", e.Message, e.Err)
	}
	return "transcription failed: " + e.Message
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

func (e *TranscriptionError) Is(target error) bool {
	return target == ErrTranscription
}

// PersistenceError means the durable write failed after the in-memory state
// already changed. Callers decide whether to retry.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed for %q: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

type CalendarErrorKind string

const (
	CalendarNotConnected     CalendarErrorKind = "not_connected"
	CalendarMissingEventDate CalendarErrorKind = "missing_event_date"
	CalendarSessionExpired   CalendarErrorKind = "session_expired"
	CalendarRemote           CalendarErrorKind = "remote"
)

// CalendarError never blocks note creation; it is logged by the orchestrator
// and only surfaced by the explicit calendar endpoints.
type CalendarError struct {
	Kind    CalendarErrorKind
	Message string
	Err     error
}

func (e *CalendarError) Error() string {
	return fmt.Sprintf("calendar %s: %s", e.Kind, e.Message)
}

func (e *CalendarError) Unwrap() error { return e.Err }

func (e *CalendarError) Is(target error) bool {
	if target == ErrCalendar {
		return true
	}
	t, ok := target.(*CalendarError)
	return ok && t.Kind == e.Kind
}

// RelatednessError is always degraded to an empty result by its callers.
type RelatednessError struct {
	Err error
}

func (e *RelatednessError) Error() string {
	return fmt.Sprintf("relatedness lookup failed: %v", e.Err)
}

func (e *RelatednessError) Unwrap() error { return e.Err }

func (e *RelatednessError) Is(target error) bool {
	return target == ErrRelatedness
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func NewCalendarError(kind CalendarErrorKind, message string, err error) *CalendarError {
	return &CalendarError{Kind: kind, Message: message, Err: err}
}

// IsCalendarKind reports whether err is a CalendarError of the given kind.
func IsCalendarKind(err error, kind CalendarErrorKind) bool {
	var ce *CalendarError
	return errors.As(err, &ce) && ce.Kind == kind
}
