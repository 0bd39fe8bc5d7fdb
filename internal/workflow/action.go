package workflow

import "slidecast/internal/domain"

// Action is a command applied to a State by Reduce. The set of actions is
// closed: only the types in this file implement it.
type Action interface {
	isAction()
}

type (
	// GoToStep jumps directly to a step without validation.
	GoToStep struct{ Step Step }
	// NextStep advances, resolving the audio branch.
	NextStep struct{}
	// PreviousStep steps back, never landing on the branch not taken.
	PreviousStep struct{}
	// SelectImage appends an image unless it is already selected.
	SelectImage struct{ Asset domain.AssetRef }
	// RemoveImage drops an image and renumbers the rest.
	RemoveImage struct{ AssetID string }
	// SetAudioMethod records the soundtrack choice.
	SetAudioMethod struct{ Method AudioMethod }
	// SelectAudio appends an audio track unless it is already selected.
	SelectAudio struct{ Asset domain.AssetRef }
	// RemoveAudio drops an audio track and renumbers the rest.
	RemoveAudio struct{ AssetID string }
	// SetLyrics replaces the lyrics text.
	SetLyrics struct{ Text string }
	// SetGenerating flags an in-flight generation call.
	SetGenerating struct{ Generating bool }
	// Reset restores the initial state.
	Reset struct{}
)

func (GoToStep) isAction()       {}
func (NextStep) isAction()       {}
func (PreviousStep) isAction()   {}
func (SelectImage) isAction()    {}
func (RemoveImage) isAction()    {}
func (SetAudioMethod) isAction() {}
func (SelectAudio) isAction()    {}
func (RemoveAudio) isAction()    {}
func (SetLyrics) isAction()      {}
func (SetGenerating) isAction()  {}
func (Reset) isAction()          {}
