package creator

import (
	"slidecast/internal/workflow"
)

// MaxLyricsLength is the longest lyrics text, in characters, sent for audio
// generation.
const MaxLyricsLength = 600

// Music styles and moods accepted for AI audio.
var (
	MusicStyles = []string{"pop", "rock", "jazz", "classical", "electronic", "acoustic", "hip-hop", "folk"}
	Moods       = []string{"happy", "energetic", "calm", "romantic", "dramatic", "mysterious"}
)

// CreateProjectRequest creates a project.
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"nonblank,max=120"`
	Description string `json:"description" validate:"max=1000"`
}

// GenerateAudioRequest picks the musical direction for the session's lyrics.
type GenerateAudioRequest struct {
	Style string `json:"style" validate:"required,oneof=pop rock jazz classical electronic acoustic hip-hop folk"`
	Mood  string `json:"mood" validate:"required,oneof=happy energetic calm romantic dramatic mysterious"`
}

// Prompt is the style prompt sent alongside the lyrics.
func (r GenerateAudioRequest) Prompt() string { return r.Style + " " + r.Mood }

type lyricsInput struct {
	Lyrics string `json:"lyrics" validate:"nonblank,max=600"`
}

// ActionType names a workflow action on the wire.
type ActionType string

const (
	ActionGoToStep       ActionType = "go_to_step"
	ActionNextStep       ActionType = "next_step"
	ActionPreviousStep   ActionType = "previous_step"
	ActionSelectImage    ActionType = "select_image"
	ActionRemoveImage    ActionType = "remove_image"
	ActionSetAudioMethod ActionType = "set_audio_method"
	ActionSelectAudio    ActionType = "select_audio"
	ActionRemoveAudio    ActionType = "remove_audio"
	ActionSetLyrics      ActionType = "set_lyrics"
	ActionReset          ActionType = "reset"
)

// ActionRequest is a workflow action as posted by a client. Only the fields
// the type needs are read.
type ActionRequest struct {
	Type    ActionType `json:"type" validate:"required,oneof=go_to_step next_step previous_step select_image remove_image set_audio_method select_audio remove_audio set_lyrics reset"`
	Step    string     `json:"step,omitempty"`
	AssetID string     `json:"assetId,omitempty"`
	Method  string     `json:"method,omitempty"`
	Text    string     `json:"text,omitempty"`
}

// needsAsset reports whether the action selects an asset that must be
// resolved against the project first.
func (r ActionRequest) needsAsset() bool {
	return r.Type == ActionSelectImage || r.Type == ActionSelectAudio
}

// simpleAction converts requests that need no lookups.
func (r ActionRequest) simpleAction() (workflow.Action, error) {
	switch r.Type {
	case ActionGoToStep:
		step, err := workflow.ParseStep(r.Step)
		if err != nil {
			return nil, invalid("step", "must be a workflow step")
		}
		return workflow.GoToStep{Step: step}, nil
	case ActionNextStep:
		return workflow.NextStep{}, nil
	case ActionPreviousStep:
		return workflow.PreviousStep{}, nil
	case ActionRemoveImage, ActionRemoveAudio:
		if r.AssetID == "" {
			return nil, invalid("assetId", "is required")
		}
		if r.Type == ActionRemoveImage {
			return workflow.RemoveImage{AssetID: r.AssetID}, nil
		}
		return workflow.RemoveAudio{AssetID: r.AssetID}, nil
	case ActionSetAudioMethod:
		m, err := workflow.ParseAudioMethod(r.Method)
		if err != nil {
			return nil, invalid("method", "must be one of: ai_generation, file_upload")
		}
		return workflow.SetAudioMethod{Method: m}, nil
	case ActionSetLyrics:
		return workflow.SetLyrics{Text: r.Text}, nil
	case ActionReset:
		return workflow.Reset{}, nil
	}
	return nil, invalid("type", "is invalid")
}
