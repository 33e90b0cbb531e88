package scanning

import (
	"context"
	"errors"
)

var (
	// ErrUnsupportedFormat is returned for content types no recognizer handles
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrNoVision is returned when a document needs a vision model but none is configured
	ErrNoVision = errors.New("no vision recognizer configured")
	// ErrEmptyTranscript is returned when a recognizer produced no text
	ErrEmptyTranscript = errors.New("recognizer returned no text")
)

// Recognizer turns an uploaded document into the plain text printed on it
type Recognizer interface {
	// Recognize returns the document text with its original line breaks
	Recognize(ctx context.Context, data []byte, contentType string) (string, error)
	// Close releases resources held by the recognizer
	Close() error
}
