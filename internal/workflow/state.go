package workflow

import (
	"strings"

	"slidecast/internal/domain"
)

// Selection is one chosen asset and its position within its kind. Orders of
// the selections of one kind always form 1..N.
type Selection struct {
	AssetID string          `json:"assetId"`
	Order   int             `json:"order"`
	Asset   domain.AssetRef `json:"asset"`
}

// State is the single mutable aggregate of one editing session.
type State struct {
	CurrentStep    Step        `json:"currentStep"`
	SelectedImages []Selection `json:"selectedImages"`
	AudioMethod    AudioMethod `json:"audioMethod,omitempty"`
	SelectedAudios []Selection `json:"selectedAudios"`
	Lyrics         string      `json:"lyrics,omitempty"`
	IsGenerating   bool        `json:"isGenerating"`
	CanProceed     bool        `json:"canProceed"`
}

// Initial returns the state of a freshly opened session.
func Initial() State {
	return State{
		CurrentStep:    StepImageSelection,
		SelectedImages: []Selection{},
		SelectedAudios: []Selection{},
	}
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	out := s
	out.SelectedImages = append(make([]Selection, 0, len(s.SelectedImages)), s.SelectedImages...)
	out.SelectedAudios = append(make([]Selection, 0, len(s.SelectedAudios)), s.SelectedAudios...)
	return out
}

// ImageIDs returns the selected image asset ids in display order.
func (s State) ImageIDs() []string {
	return selectionIDs(s.SelectedImages)
}

// AudioIDs returns the selected audio asset ids in playback order.
func (s State) AudioIDs() []string {
	return selectionIDs(s.SelectedAudios)
}

// HasImage reports whether the asset is among the selected images.
func (s State) HasImage(assetID string) bool {
	return indexOf(s.SelectedImages, assetID) >= 0
}

// HasAudio reports whether the asset is among the selected audios.
func (s State) HasAudio(assetID string) bool {
	return indexOf(s.SelectedAudios, assetID) >= 0
}

func selectionIDs(sel []Selection) []string {
	ids := make([]string, 0, len(sel))
	for _, s := range sel {
		ids = append(ids, s.AssetID)
	}
	return ids
}

func indexOf(sel []Selection, assetID string) int {
	for i, s := range sel {
		if s.AssetID == assetID {
			return i
		}
	}
	return -1
}

// appendSelection returns a new slice with asset appended at order N+1, or
// sel itself when the asset is already present.
func appendSelection(sel []Selection, asset domain.AssetRef) ([]Selection, bool) {
	if indexOf(sel, asset.ID) >= 0 {
		return sel, false
	}
	out := make([]Selection, len(sel), len(sel)+1)
	copy(out, sel)
	out = append(out, Selection{AssetID: asset.ID, Order: len(sel) + 1, Asset: asset})
	return out, true
}

// removeSelection drops assetID and renumbers the survivors to 1..N in their
// existing relative order.
func removeSelection(sel []Selection, assetID string) []Selection {
	out := make([]Selection, 0, len(sel))
	for _, s := range sel {
		if s.AssetID == assetID {
			continue
		}
		s.Order = len(out) + 1
		out = append(out, s)
	}
	return out
}

func hasText(v string) bool {
	return strings.TrimSpace(v) != ""
}
