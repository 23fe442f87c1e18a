package pkce

import (
	"errors"
	"fmt"
)

// ErrGeneration matches every GenerationError with errors.Is
var ErrGeneration = errors.New("pkce generation failed")

// Phase identifies the pipeline step that failed
type Phase string

const (
	PhaseVerifier  Phase = "verifier"
	PhaseChallenge Phase = "challenge"
)

// GenerationError wraps the collaborator failure that aborted GenerateCodes
type GenerationError struct {
	Phase Phase
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrGeneration.Error(), e.Phase, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}

func newGenerationError(phase Phase, err error) *GenerationError {
	return &GenerationError{Phase: phase, Err: err}
}
