package models

// HeritageSite is a cultural heritage location.
type HeritageSite struct {
	Base

	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Location      string   `json:"location"`
	Category      string   `json:"category"`
	ImageURL      string   `json:"imageUrl"`
	Gallery       []string `json:"gallery"`
	HistoricalEra string   `json:"historicalEra,omitempty"`
	Significance  string   `json:"significance,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	ViewCount     int      `json:"viewCount,omitempty"`
	IsFavorite    bool     `json:"isFavorite,omitempty"`

	// Populated when requested with _embed=artifacts or _embed=timeline.
	Artifacts []Artifact      `json:"artifacts,omitempty"`
	Timeline  []TimelineEvent `json:"timeline,omitempty"`
}

// HasCoordinates reports whether the site can be placed on a map.
func (h *HeritageSite) HasCoordinates() bool {
	return h.Latitude != nil && h.Longitude != nil
}

// Artifact is an object held at, or recovered from, a heritage site.
type Artifact struct {
	Base

	Name        string   `json:"name"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
	Gallery     []string `json:"gallery"`
	HeritageID  int      `json:"heritageId"`
	Category    string   `json:"category"`
	Dating      string   `json:"dating,omitempty"`
	Material    string   `json:"material,omitempty"`
	Dimensions  string   `json:"dimensions,omitempty"`
	Is3D        bool     `json:"is3D,omitempty"`
	ModelURL    string   `json:"modelUrl,omitempty"`

	// Populated when requested with _expand=heritage.
	Heritage *HeritageSite `json:"heritage,omitempty"`
}

// TimelineEvent is one entry in a heritage site's history.
type TimelineEvent struct {
	Year        string `json:"year"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}
