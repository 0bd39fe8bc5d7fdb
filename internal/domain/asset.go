package domain

import "time"

// AssetFormat enumerates asset types tracked by the rendering backend.
type AssetFormat string

const (
	AssetFormatImage   AssetFormat = "image"
	AssetFormatAudio   AssetFormat = "audio"
	AssetFormatAIAudio AssetFormat = "ai_audio"
	AssetFormatVideo   AssetFormat = "video"
)

// Valid reports whether f is one of the known formats.
func (f AssetFormat) Valid() bool {
	switch f {
	case AssetFormatImage, AssetFormatAudio, AssetFormatAIAudio, AssetFormatVideo:
		return true
	}
	return false
}

// IsAudio is true for uploaded and generated audio alike.
func (f AssetFormat) IsAudio() bool {
	return f == AssetFormatAudio || f == AssetFormatAIAudio
}

// AssetMetadata carries optional media facts reported by the backend.
type AssetMetadata struct {
	Size     int64   `json:"size"`
	Duration float64 `json:"duration,omitempty"`
}

// AssetRef is an uploaded or generated media file owned by the backend. The
// workflow only stores references to it and never mutates one.
type AssetRef struct {
	ID           string         `json:"id"`
	OriginalName string         `json:"originalName"`
	StorageName  string         `json:"storageName,omitempty"`
	DownloadURL  string         `json:"downloadUrl"`
	Format       AssetFormat    `json:"format"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	Metadata     *AssetMetadata `json:"metadata,omitempty"`
}

// DurationSeconds returns the reported duration, or zero when unknown.
func (a AssetRef) DurationSeconds() float64 {
	if a.Metadata == nil {
		return 0
	}
	return a.Metadata.Duration
}

// FilterAssets returns the assets whose format is one of formats, preserving
// order. An empty formats list returns every asset.
func FilterAssets(assets []AssetRef, formats ...AssetFormat) []AssetRef {
	if len(formats) == 0 {
		return append([]AssetRef(nil), assets...)
	}
	out := make([]AssetRef, 0, len(assets))
	for _, asset := range assets {
		for _, f := range formats {
			if asset.Format == f {
				out = append(out, asset)
				break
			}
		}
	}
	return out
}

// FindAsset looks an asset up by id.
func FindAsset(assets []AssetRef, id string) (AssetRef, bool) {
	for _, asset := range assets {
		if asset.ID == id {
			return asset, true
		}
	}
	return AssetRef{}, false
}
