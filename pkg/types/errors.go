package types

import "errors"

// Source errors. A failure to open the source stops the program before any
// plotting starts; a failure to read ends the running session.
var (
	ErrSourceOpen   = errors.New("open source")
	ErrSourceRead   = errors.New("read source")
	ErrSourceClosed = errors.New("source closed")
)

// Recorder errors.
var (
	ErrRecorderDetached = errors.New("recorder is detached")
	ErrAlreadyAttached  = errors.New("recorder is already attached")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionAmbiguous = errors.New("session prefix matches more than one session")
	ErrNoSession        = errors.New("no session has been started")
)

// Render errors.
var (
	ErrUnknownFormat = errors.New("unknown image format")
)
