package service

import "errors"

var (
	// ErrAIGenerationFailed wraps any backend failure during text generation.
	ErrAIGenerationFailed = errors.New("AI text generation failed")
	// ErrAIPermission marks an authorization failure from the cloud backend.
	// The adapter treats it as fatal for the run.
	ErrAIPermission = errors.New("AI backend rejected the credentials")
	// ErrTurnInProgress is returned when advance is called while a turn is
	// already being resolved. The call is a no-op.
	ErrTurnInProgress = errors.New("a turn is already being resolved")
	// ErrGameNotPlaying is returned for turn requests outside the PLAYING phase.
	ErrGameNotPlaying = errors.New("game is not in the playing phase")
	// ErrInvalidAllocation is returned for a starting allocation that does not
	// spend exactly the point budget or goes negative.
	ErrInvalidAllocation = errors.New("invalid starting stat allocation")
	// ErrTooManyTalents is returned when more than the allowed number of
	// talents is picked.
	ErrTooManyTalents = errors.New("too many talents selected")
)
