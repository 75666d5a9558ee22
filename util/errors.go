package util

import "fmt"

// ValidationError means the caller's input is wrong and retrying the same
// request can never succeed. The message tells the user what to fix.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// GenerationError means a collaborator call failed or returned unusable
// content. It is isolated to the affected scene or asset; the run continues.
type GenerationError struct {
	Stage       string // "scenes", "image" or "speech"
	SceneNumber int
	Err         error
}

func (e *GenerationError) Error() string {
	if e.SceneNumber > 0 {
		return fmt.Sprintf("%s generation failed for scene %d: %v", e.Stage, e.SceneNumber, e.Err)
	}
	return fmt.Sprintf("%s generation failed: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// RenderError is fatal to the whole compose/submit/poll attempt. Timeout
// distinguishes "attempts exhausted, might still finish" from an explicit
// failed status reported by the render service.
type RenderError struct {
	Reason  string
	Timeout bool
	Err     error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("render failed: %s", e.Reason)
}

func (e *RenderError) Unwrap() error { return e.Err }
