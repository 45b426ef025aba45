package release

import (
	"errors"
	"fmt"
)

// Kind classifies failures of the stub so the top-level renderer can react per category.
type Kind uint8

const (
	// KindUnknown marks errors that carry no classification.
	KindUnknown Kind = iota
	// KindConfig is a missing or invalid build-time or file configuration value.
	KindConfig
	// KindNetwork is a transport failure or an unexpected HTTP status.
	KindNetwork
	// KindManifestParse is a manifest body that is not the expected JSON object.
	KindManifestParse
	// KindVersionParse is a version string that is not a semantic version.
	KindVersionParse
	// KindInstall is any failure while downloading or applying a package.
	KindInstall
	// KindLaunch is a failure to start the target executable.
	KindLaunch
)

// String returns a short human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "configuration error"
	case KindNetwork:
		return "network error"
	case KindManifestParse:
		return "manifest parse error"
	case KindVersionParse:
		return "version parse error"
	case KindInstall:
		return "install error"
	case KindLaunch:
		return "launch error"
	default:
		return "unknown error"
	}
}

// Error is a classified error. Err holds the underlying cause.
type Error struct {
	// Kind is the failure category.
	Kind Kind
	// Err is the wrapped cause, nil only for the package sentinels.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}

	return e.Err.Error()
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of the same kind.
func (e *Error) Is(target error) bool {
	var sentinel *Error
	if !errors.As(target, &sentinel) || sentinel.Err != nil {
		return false
	}

	return sentinel.Kind == e.Kind
}

// Kind sentinels, use with errors.Is.
var (
	// ErrConfig matches configuration errors.
	ErrConfig = &Error{Kind: KindConfig}
	// ErrNetwork matches network errors.
	ErrNetwork = &Error{Kind: KindNetwork}
	// ErrManifestParse matches manifest parse errors.
	ErrManifestParse = &Error{Kind: KindManifestParse}
	// ErrVersionParse matches version parse errors.
	ErrVersionParse = &Error{Kind: KindVersionParse}
	// ErrInstall matches install errors.
	ErrInstall = &Error{Kind: KindInstall}
	// ErrLaunch matches launch errors.
	ErrLaunch = &Error{Kind: KindLaunch}
)

// Cause sentinels wrapped inside classified errors.
var (
	// ErrBadHTTPStatus is returned when a server answers with a non-success status.
	ErrBadHTTPStatus = errors.New("unexpected http status")
	// ErrInvalidURL is returned when a download location is not an absolute URL.
	ErrInvalidURL = errors.New("invalid download url")
	// ErrDownload is returned when the release package cannot be fetched or stored.
	ErrDownload = errors.New("unable to download package")
	// ErrExtraction is returned when the release package cannot be extracted.
	ErrExtraction = errors.New("unable to extract archive")
	// ErrInstallInProgress is returned when another stub is installing right now.
	ErrInstallInProgress = errors.New("another update is in progress")
)

// Wrap classifies err with kind. A nil err stays nil.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}

	return &Error{Kind: kind, Err: err}
}

// Errorf formats a message and classifies it with kind. Use %w to keep the cause.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the outermost classified error in err's chain.
func KindOf(err error) Kind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}

	return KindUnknown
}
