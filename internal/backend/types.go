package backend

import (
	"io"
)

// File is one upload. Body is read once.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Lyrics is the backend's answer to a lyrics request.
type Lyrics struct {
	Lyrics       string  `json:"lyrics"`
	Duration     float64 `json:"duration"`
	ImageCount   int     `json:"imageCount"`
	TimePerImage float64 `json:"timePerImage"`
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type generateLyricsRequest struct {
	ImageAssetIDs []string `json:"imageAssetIds"`
}

type generateAudioRequest struct {
	Prompt       string `json:"prompt"`
	LyricsPrompt string `json:"lyricsPrompt"`
}

type submitSlideshowRequest struct {
	AudioIDs []string `json:"audioIds"`
	ImageIDs []string `json:"imageIds"`
}

type submitSlideshowResponse struct {
	TaskID string `json:"taskId"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
