package domain

// Project groups the assets and render tasks of one slideshow.
type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Assets      []AssetRef `json:"assets,omitempty"`
}
