package pipeline

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindEncoding          Kind = "encoding_failure"
	KindRequest           Kind = "request_failure"
	KindUploadFailed      Kind = "upload_failed"
	KindMalformedResponse Kind = "malformed_response"
)

var (
	ErrEncoding          = errors.New("encoding failure")
	ErrRequest           = errors.New("request failure")
	ErrUploadFailed      = errors.New("upload failed")
	ErrMalformedResponse = errors.New("malformed response")
)

func (k Kind) sentinel() error {
	switch k {
	case KindEncoding:
		return ErrEncoding
	case KindRequest:
		return ErrRequest
	case KindUploadFailed:
		return ErrUploadFailed
	case KindMalformedResponse:
		return ErrMalformedResponse
	}
	return nil
}

// UploadError is the single error type a submission fails with.
// StatusCode and StatusText are only set for KindUploadFailed.
type UploadError struct {
	Kind       Kind
	StatusCode int
	StatusText string
	Err        error
}

func (e *UploadError) Error() string {
	if e.Kind == KindUploadFailed {
		return fmt.Sprintf("Upload failed: %s", e.StatusText)
	}
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind, so errors.Is(err, ErrUploadFailed) works.
func (e *UploadError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}
