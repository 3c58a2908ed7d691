package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/kodlan/sait-paypal/models"
)

// InferenceClient runs the object detection model over a single image
type InferenceClient interface {
	Predict(ctx context.Context, image []byte, filename string) (*models.Prediction, error)
}

// ModelAdapter calls a model server hosting a pretrained Faster R-CNN over HTTP
type ModelAdapter struct {
	InferenceURL string
	HealthURL    string
	HTTPClient   *http.Client
}

// NewModelAdapter returns an adapter whose requests give up after timeout
func NewModelAdapter(inferenceURL, healthURL string, timeout time.Duration) *ModelAdapter {
	return &ModelAdapter{
		InferenceURL: inferenceURL,
		HealthURL:    healthURL,
		HTTPClient:   &http.Client{Timeout: timeout},
	}
}

// Predict posts the image as multipart field "file" and decodes the labels,
// scores and boxes the model returns
func (m *ModelAdapter) Predict(ctx context.Context, image []byte, filename string) (*models.Prediction, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("error creating inference request body: [%v]", err)
	}
	if _, err = part.Write(image); err != nil {
		return nil, fmt.Errorf("error creating inference request body: [%v]", err)
	}
	if err = writer.Close(); err != nil {
		return nil, fmt.Errorf("error creating inference request body: [%v]", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, m.InferenceURL, body)
	if err != nil {
		return nil, fmt.Errorf("error generating request for model server: [%v]", err)
	}
	request.Header.Set("Content-Type", writer.FormDataContentType())
	request.Header.Set("Accept", "application/json")

	resp, err := m.HTTPClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("error sending image to model server: [%v]", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response from model server: [%v]", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error status [%v] back from model server: [%s]", resp.StatusCode, bytes.TrimSpace(responseBody))
	}

	prediction := &models.Prediction{}
	if err = json.Unmarshal(responseBody, prediction); err != nil {
		return nil, fmt.Errorf("error reading response from model server: [%v]", err)
	}

	if len(prediction.Labels) != len(prediction.Scores) || len(prediction.Labels) != len(prediction.Boxes) {
		return nil, fmt.Errorf("model server returned %d labels, %d scores and %d boxes",
			len(prediction.Labels), len(prediction.Scores), len(prediction.Boxes))
	}

	return prediction, nil
}

// CheckHealth reports whether the model server answers its health endpoint.
// It is a no-op when no health URL is configured.
func (m *ModelAdapter) CheckHealth(ctx context.Context) error {
	if m.HealthURL == "" {
		return nil
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, m.HealthURL, nil)
	if err != nil {
		return fmt.Errorf("error generating health request for model server: [%v]", err)
	}

	resp, err := m.HTTPClient.Do(request)
	if err != nil {
		return fmt.Errorf("error checking model server health: [%v]", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model server unhealthy: status [%v]", resp.StatusCode)
	}
	return nil
}
