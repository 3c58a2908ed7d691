package models

// Prediction is the raw output of the detection model for a single image.
// The three slices are index aligned; boxes are x1, y1, x2, y2 in pixels.
type Prediction struct {
	Labels []int        `json:"labels"`
	Scores []float64    `json:"scores"`
	Boxes  [][4]float64 `json:"boxes"`
}

// Detection is a single object kept after filtering
type Detection struct {
	Label string     `json:"label"`
	Score float64    `json:"score"`
	Box   [4]float64 `json:"box"`
}

// DetectionResult is returned to the client after an upload has been processed
type DetectionResult struct {
	Filename       string      `json:"filename"`
	ResultFilename string      `json:"result_filename"`
	ImageURL       string      `json:"image_url"`
	ResultURL      string      `json:"result_url"`
	Detections     []Detection `json:"detections"`
}
