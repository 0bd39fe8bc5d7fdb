// Package workflow implements the guided slideshow creation flow: which step the
// user is on, what they have selected, and how the two audio branches are
// skipped or re-entered.
package workflow

import "fmt"

// Step is one stage of the creation flow.
type Step string

const (
	StepImageSelection     Step = "image_selection"
	StepAudioMethod        Step = "audio_method"
	StepAIAudioGeneration  Step = "ai_audio_generation"
	StepAudioFileSelection Step = "audio_file_selection"
	StepVideoGeneration    Step = "video_generation"
)

// stepOrder is the canonical forward order. The two audio steps are
// alternatives; a single pass visits only one of them.
var stepOrder = [...]Step{
	StepImageSelection,
	StepAudioMethod,
	StepAIAudioGeneration,
	StepAudioFileSelection,
	StepVideoGeneration,
}

// Steps returns the canonical order of all steps.
func Steps() []Step {
	return append([]Step(nil), stepOrder[:]...)
}

func (s Step) index() int {
	for i, step := range stepOrder {
		if step == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	return s.index() >= 0
}

// ParseStep converts a wire value into a Step.
func ParseStep(v string) (Step, error) {
	s := Step(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown workflow step %q", v)
	}
	return s, nil
}

// AudioMethod is the user's choice of how the soundtrack is produced. The zero
// value means no choice has been made yet.
type AudioMethod string

const (
	AudioMethodNone         AudioMethod = ""
	AudioMethodAIGeneration AudioMethod = "ai_generation"
	AudioMethodFileUpload   AudioMethod = "file_upload"
)

// ParseAudioMethod converts a wire value into a chosen AudioMethod.
func ParseAudioMethod(v string) (AudioMethod, error) {
	switch m := AudioMethod(v); m {
	case AudioMethodAIGeneration, AudioMethodFileUpload:
		return m, nil
	}
	return AudioMethodNone, fmt.Errorf("unknown audio method %q", v)
}

// branchStep is the audio step reachable under method, or "" when unset.
func (m AudioMethod) branchStep() Step {
	switch m {
	case AudioMethodAIGeneration:
		return StepAIAudioGeneration
	case AudioMethodFileUpload:
		return StepAudioFileSelection
	}
	return ""
}
