package agent

import "errors"

// ErrGeneration marks any failure of the text-generation backend: transport,
// auth, timeout, or an empty response. The refinement loop does not retry
// these; they fail the whole request.
var ErrGeneration = errors.New("text generation failed")

// IsGenerationError reports whether err originated in the generation backend.
func IsGenerationError(err error) bool {
	return errors.Is(err, ErrGeneration)
}
