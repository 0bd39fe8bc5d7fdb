package workflow

// Reduce applies a to s and returns the resulting state. It never modifies the
// slices of s, so callers may keep earlier states around.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case GoToStep:
		if !a.Step.Valid() {
			return s
		}
		return land(s, a.Step)
	case NextStep:
		next, ok := nextStep(s.CurrentStep, s.AudioMethod)
		if !ok {
			return s
		}
		return land(s, next)
	case PreviousStep:
		prev, ok := previousStep(s.CurrentStep, s.AudioMethod)
		if !ok {
			return s
		}
		return land(s, prev)
	case SelectImage:
		images, added := appendSelection(s.SelectedImages, a.Asset)
		if !added {
			return s
		}
		s.SelectedImages = images
		s.CanProceed = len(images) > 0
		return s
	case RemoveImage:
		s.SelectedImages = removeSelection(s.SelectedImages, a.AssetID)
		s.CanProceed = len(s.SelectedImages) > 0
		return s
	case SetAudioMethod:
		s.AudioMethod = a.Method
		s.CanProceed = true
		return s
	case SelectAudio:
		audios, added := appendSelection(s.SelectedAudios, a.Asset)
		if !added {
			return s
		}
		s.SelectedAudios = audios
		s.CanProceed = len(audios) > 0
		return s
	case RemoveAudio:
		s.SelectedAudios = removeSelection(s.SelectedAudios, a.AssetID)
		s.CanProceed = len(s.SelectedAudios) > 0
		return s
	case SetLyrics:
		s.Lyrics = a.Text
		s.CanProceed = hasText(a.Text)
		return s
	case SetGenerating:
		s.IsGenerating = a.Generating
		return s
	case Reset:
		return Initial()
	}
	return s
}

// nextStep resolves the step after current. ok is false at the last step.
func nextStep(current Step, method AudioMethod) (Step, bool) {
	idx := current.index()
	if idx < 0 || idx >= len(stepOrder)-1 {
		return current, false
	}
	next := stepOrder[idx+1]
	if next == StepAIAudioGeneration && method == AudioMethodFileUpload {
		next = StepAudioFileSelection
	}
	if next == StepAudioFileSelection && method == AudioMethodAIGeneration {
		next = StepVideoGeneration
	}
	return next, true
}

// previousStep resolves the step before current. ok is false at the first step.
func previousStep(current Step, method AudioMethod) (Step, bool) {
	idx := current.index()
	if idx <= 0 {
		return current, false
	}
	switch current {
	case StepVideoGeneration:
		if branch := method.branchStep(); branch != "" {
			return branch, true
		}
	case StepAIAudioGeneration, StepAudioFileSelection:
		return StepAudioMethod, true
	}
	return stepOrder[idx-1], true
}

// land moves to step and derives CanProceed from the field that governs it.
func land(s State, step Step) State {
	s.CurrentStep = step
	s.CanProceed = satisfied(s, step)
	return s
}

func satisfied(s State, step Step) bool {
	switch step {
	case StepImageSelection:
		return len(s.SelectedImages) > 0
	case StepAudioMethod:
		return s.AudioMethod != AudioMethodNone
	case StepAIAudioGeneration:
		return hasText(s.Lyrics)
	case StepAudioFileSelection:
		return len(s.SelectedAudios) > 0
	case StepVideoGeneration:
		return true
	}
	return false
}
