package types

// Placement describes where and how large a framed screenshot is drawn on
// a background. All sizes are fractions of the background (position, width)
// or of the device frame width (border, corner radius).
type Placement struct {
	Image                string     `json:"image"`
	RelativeWidth        float64    `json:"relative_width"`
	RelativePosition     [2]float64 `json:"relative_position"`
	RelativeBorderWidth  *float64   `json:"relative_border_width,omitempty"`
	RelativeCornerRadius *float64   `json:"relative_corner_radius,omitempty"`
	ZOrder               int        `json:"z_order"`
}

// Job is one output image: a background plus the placements drawn on it
type Job struct {
	Name       string      `json:"name"`
	Background string      `json:"background"`
	Placements []Placement `json:"placements"`
	Output     string      `json:"output"`
}

// Float returns a pointer to v, for the optional Placement fields.
func Float(v float64) *float64 {
	return &v
}

// Paths returns the background path followed by every placement image path
func (j Job) Paths() []string {
	paths := make([]string, 0, len(j.Placements)+1)
	paths = append(paths, j.Background)
	for _, p := range j.Placements {
		paths = append(paths, p.Image)
	}
	return paths
}
