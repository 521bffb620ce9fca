package model

import "errors"

// Error kinds shared across the sync pipeline. Every failure is wrapped
// around exactly one of these so callers can classify with errors.Is.

// ErrInvalidInput indicates a malformed URL or a missing required field.
var ErrInvalidInput = errors.New("invalid input")

// ErrUpstream indicates a transport failure or non-success status from YouTrack.
var ErrUpstream = errors.New("upstream error")

// ErrDecode indicates a YouTrack response that does not match the expected shape.
var ErrDecode = errors.New("decode error")

// ErrStore indicates a task store lookup or creation failure.
var ErrStore = errors.New("store error")
