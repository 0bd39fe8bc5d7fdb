package creator

// Render output choices shown on the summary step.
const (
	Resolution720p  = "720p"
	Resolution1080p = "1080p"
	Resolution4K    = "4k"

	DefaultResolution = Resolution1080p
	DefaultFrameRate  = 30
)

var estimatedSizeMB = map[string]int{
	Resolution720p:  50,
	Resolution1080p: 100,
	Resolution4K:    400,
}

// RenderRequest carries the output settings picked on the last step. They are
// informational; the backend renders with its own defaults.
type RenderRequest struct {
	Resolution string `json:"resolution" validate:"omitempty,oneof=720p 1080p 4k"`
	FrameRate  int    `json:"frameRate" validate:"omitempty,oneof=24 30 60"`
}

// RenderSettings is a normalized RenderRequest with its size estimate.
type RenderSettings struct {
	Resolution      string `json:"resolution"`
	FrameRate       int    `json:"frameRate"`
	EstimatedSizeMB int    `json:"estimatedSizeMb"`
}

// Settings applies defaults and estimates the output size.
func (r RenderRequest) Settings() RenderSettings {
	res := r.Resolution
	if res == "" {
		res = DefaultResolution
	}
	fps := r.FrameRate
	if fps == 0 {
		fps = DefaultFrameRate
	}
	return RenderSettings{Resolution: res, FrameRate: fps, EstimatedSizeMB: estimatedSizeMB[res]}
}
