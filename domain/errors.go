package domain

import "errors"

var (
	// ErrMalformedPayload indicates a timeline response that does not decode
	// into posts. The page is discarded rather than merged partially.
	ErrMalformedPayload = errors.New("malformed timeline payload")

	// ErrInvalidCursor indicates a pagination id that is not a positive integer.
	ErrInvalidCursor = errors.New("invalid pagination cursor")
)
