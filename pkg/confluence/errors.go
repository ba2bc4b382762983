package confluence

import "errors"

// Precondition errors are returned before any request is sent. Server and
// network failures are never returned as errors by resources; they are
// reported through the resource's last Response instead.
var (
	// ErrBaseURLNotSet is returned by NewClient when no base URL is given.
	ErrBaseURLNotSet = errors.New("base URL not set")
	// ErrIdentifierNotSet is returned when an operation needs the resource's
	// primary identifier and it has no value.
	ErrIdentifierNotSet = errors.New("identifier not set")
	// ErrSpaceNotLoaded is returned by space operations that need a
	// successfully loaded space.
	ErrSpaceNotLoaded = errors.New("space not loaded")
	// ErrInvalidParent is returned when a parent reference cannot be turned
	// into a content id.
	ErrInvalidParent = errors.New("invalid parent")
	// ErrScanFailed is wrapped by the error a content scan returns when the
	// server rejects one of its pages.
	ErrScanFailed = errors.New("content scan failed")
	// ErrDecodingFailed is returned when a response body does not match the
	// expected record.
	ErrDecodingFailed = errors.New("failed to decode response")
)
