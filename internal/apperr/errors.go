package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Sentinels for errors.Is checks against the typed errors below.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrRemote     = errors.New("remote call failed")
	ErrStale      = errors.New("derived state may be stale")
)

// ValidationError rejects bad cart or status input before any network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Validation builds a ValidationError with a formatted message.
func Validation(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an id that is absent from the current snapshot.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %s not found", e.Kind, e.ID) }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound builds a NotFoundError for an entity kind and id.
func NotFound(kind string, id interface{}) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: fmt.Sprint(id)}
}

// RemoteError wraps a transport or server failure. Message is the server-provided
// message when one was sent, otherwise a generic fallback for the operation.
type RemoteError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string { return e.Message }

func (e *RemoteError) Unwrap() error { return e.Err }

func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

// RaceWarning is non-fatal: the mutation went through but the follow-up refresh
// did not, so stats and notifications still reflect the previous snapshot.
type RaceWarning struct {
	Op  string
	Err error
}

func (e *RaceWarning) Error() string {
	return fmt.Sprintf("%s succeeded but the dashboard could not be refreshed: %v", e.Op, e.Err)
}

func (e *RaceWarning) Unwrap() error { return e.Err }

func (e *RaceWarning) Is(target error) bool { return target == ErrStale }

// IsWarning reports whether err only signals staleness and the caller may proceed.
func IsWarning(err error) bool {
	var w *RaceWarning
	return errors.As(err, &w)
}

// HTTPStatus maps an error kind to the status code handlers respond with.
func HTTPStatus(err error) int {
	var (
		ve *ValidationError
		nf *NotFoundError
		re *RemoteError
		rw *RaceWarning
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &rw):
		return http.StatusOK
	case errors.As(err, &re):
		if re.Status >= 400 && re.Status < 500 {
			return re.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ── banner ────────────────────────────────────────────────────────────────────

// BannerTTL is how long a banner stays on screen before it dismisses itself.
const BannerTTL = 3 * time.Second

// Severity tags a banner for the presentation layer.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Banner is the transient, auto-dismissing message shown after an action.
type Banner struct {
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Success builds a success banner.
func Success(message string, now time.Time) Banner {
	return Banner{Message: message, Severity: SeveritySuccess, ExpiresAt: now.Add(BannerTTL)}
}

// BannerFor builds the banner for an action's outcome; a nil error yields nothing.
func BannerFor(err error, now time.Time) *Banner {
	if err == nil {
		return nil
	}
	severity := SeverityError
	if IsWarning(err) {
		severity = SeverityWarning
	}
	return &Banner{Message: err.Error(), Severity: severity, ExpiresAt: now.Add(BannerTTL)}
}
