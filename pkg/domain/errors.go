package domain

import "errors"

// ErrBadRoot is returned when a document root is neither a mapping nor a sequence.
var ErrBadRoot = errors.New("root must be a mapping or sequence")

// ErrDocumentNotFound is returned when the document source does not exist.
var ErrDocumentNotFound = errors.New("document not found")

// ErrParse is returned when the document source cannot be parsed.
var ErrParse = errors.New("document parse error")

// ErrNameConflict is returned by a registry when creating a slot whose name
// already exists. It indicates a reconciler bug, not a user error.
var ErrNameConflict = errors.New("slot name conflict")

// ErrUnknownSlot is returned by a registry when setting a value on a slot
// that does not exist. It indicates a reconciler bug, not a user error.
var ErrUnknownSlot = errors.New("unknown slot")
