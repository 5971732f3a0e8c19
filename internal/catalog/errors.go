package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNoClips is returned when the source tree holds no .wav files.
	ErrNoClips = errors.New("no .wav files found")
	// ErrValidation matches every ClipError.
	ErrValidation = errors.New("clip validation failed")
)

// ClipError is a single clip that cannot be packed.
type ClipError struct {
	Path   string
	Reason string
}

func (e *ClipError) Error() string {
	return fmt.Sprintf("%s %s", e.Path, e.Reason)
}

func (e *ClipError) Is(target error) bool {
	return target == ErrValidation
}

var _ error = (*ClipError)(nil)
