package workflow

import (
	"fmt"
	"math"
)

// StepStatus places a visible step relative to the current one.
type StepStatus string

const (
	StepCompleted StepStatus = "completed"
	StepCurrent   StepStatus = "current"
	StepUpcoming  StepStatus = "upcoming"
)

// StepView is one entry of the progress indicator.
type StepView struct {
	Step        Step       `json:"step"`
	Number      int        `json:"number"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      StepStatus `json:"status"`
}

// ProgressView is what a progress indicator renders for a state.
type ProgressView struct {
	Steps        []StepView `json:"steps"`
	CurrentIndex int        `json:"currentIndex"`
	Percent      float64    `json:"percent"`
}

// VisibleSteps lists the steps a user walks through under method. Only the
// audio branch matching the method appears; none does while it is unset.
func VisibleSteps(method AudioMethod) []Step {
	steps := []Step{StepImageSelection, StepAudioMethod}
	if branch := method.branchStep(); branch != "" {
		steps = append(steps, branch)
	}
	return append(steps, StepVideoGeneration)
}

// Progress builds the progress indicator for s with copy in locale.
func Progress(s State, locale string) ProgressView {
	p := printerFor(locale)
	steps := VisibleSteps(s.AudioMethod)
	current := -1
	for i, step := range steps {
		if step == s.CurrentStep {
			current = i
			break
		}
	}
	view := ProgressView{Steps: make([]StepView, 0, len(steps)), CurrentIndex: current}
	for i, step := range steps {
		status := StepUpcoming
		switch {
		case i < current:
			status = StepCompleted
		case i == current:
			status = StepCurrent
		}
		c := copyByStep[step]
		view.Steps = append(view.Steps, StepView{
			Step:        step,
			Number:      i + 1,
			Title:       p.Sprintf(c.title),
			Description: p.Sprintf(c.description),
			Status:      status,
		})
	}
	if current > 0 {
		view.Percent = float64(current) / float64(len(steps)-1) * 100
	}
	return view
}

// Navigation drives the previous/continue controls.
type Navigation struct {
	CanGoBack      bool   `json:"canGoBack"`
	IsLastStep     bool   `json:"isLastStep"`
	CanProceed     bool   `json:"canProceed"`
	NextLabel      string `json:"nextLabel"`
	ProceedMessage string `json:"proceedMessage"`
}

// Navigate builds the navigation controls for s.
func Navigate(s State, locale string) Navigation {
	return Navigation{
		CanGoBack:      s.CurrentStep != StepImageSelection,
		IsLastStep:     s.CurrentStep == StepVideoGeneration,
		CanProceed:     s.CanProceed,
		NextLabel:      NextLabel(s.CurrentStep, locale),
		ProceedMessage: ProceedMessage(s.CurrentStep, locale),
	}
}

// Summary is the render request preview shown on the last step.
type Summary struct {
	ImageIDs          []string    `json:"imageIds"`
	AudioIDs          []string    `json:"audioIds"`
	AudioMethod       AudioMethod `json:"audioMethod,omitempty"`
	Lyrics            string      `json:"lyrics,omitempty"`
	EstimatedDuration string      `json:"estimatedDuration"`
}

// DurationUnknown is reported when no selected audio carries a duration.
const DurationUnknown = "unknown"

// Summarize collects the ordered ids and the estimated running time.
func Summarize(s State) Summary {
	return Summary{
		ImageIDs:          s.ImageIDs(),
		AudioIDs:          s.AudioIDs(),
		AudioMethod:       s.AudioMethod,
		Lyrics:            s.Lyrics,
		EstimatedDuration: estimatedDuration(s.SelectedAudios),
	}
}

func estimatedDuration(audios []Selection) string {
	var total float64
	for _, a := range audios {
		total += a.Asset.DurationSeconds()
	}
	if total <= 0 {
		return DurationUnknown
	}
	secs := int(math.Floor(total))
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
