package service

import (
	"context"
	"fmt"

	"github.com/companieshouse/chs.go/log"
	"github.com/kodlan/sait-paypal/models"
	"github.com/kodlan/sait-paypal/storage"
)

// ScoreThreshold is the minimum confidence of a reported detection
const ScoreThreshold = 0.5

// DetectionService runs uploaded images through the model and produces the
// annotated result
type DetectionService struct {
	Inference InferenceClient
	Originals storage.ImageStore
	Results   storage.ImageStore
}

// FilterDetections keeps the predictions scoring at least ScoreThreshold whose
// class is in the allow-list, in the order the model returned them
func FilterDetections(prediction *models.Prediction) []models.Detection {
	detections := []models.Detection{}
	if prediction == nil {
		return detections
	}

	for i, label := range prediction.Labels {
		if prediction.Scores[i] < ScoreThreshold {
			continue
		}
		name, ok := CategoryName(label)
		if !ok || !allowedCategories[name] {
			continue
		}
		detections = append(detections, models.Detection{
			Label: name,
			Score: prediction.Scores[i],
			Box:   prediction.Boxes[i],
		})
	}

	return detections
}

// Detect saves the upload, runs detection over it and saves the annotated copy
func (service *DetectionService) Detect(ctx context.Context, filename string, data []byte) (*models.DetectionResult, ResponseType, error) {
	if len(data) == 0 {
		return nil, InvalidData, fmt.Errorf("no image data supplied")
	}

	if _, err := storage.CheckImageMIME(data); err != nil {
		return nil, InvalidData, err
	}

	img, _, err := DecodeImage(data)
	if err != nil {
		return nil, InvalidData, err
	}

	safeName := storage.SafeFilename(filename)
	imageURL, err := service.Originals.Save(ctx, safeName, data)
	if err != nil {
		return nil, Error, fmt.Errorf("error saving uploaded image: [%v]", err)
	}

	prediction, err := service.Inference.Predict(ctx, data, safeName)
	if err != nil {
		return nil, ProviderError, fmt.Errorf("error running object detection: [%v]", err)
	}

	detections := FilterDetections(prediction)
	log.Debug("objects detected", log.Data{"filename": safeName, "predictions": len(prediction.Labels), "kept": len(detections)})

	resultName := ResultFilename(safeName)
	encoded, err := EncodeImage(Annotate(img, detections), resultName)
	if err != nil {
		return nil, Error, err
	}

	resultURL, err := service.Results.Save(ctx, resultName, encoded)
	if err != nil {
		return nil, Error, fmt.Errorf("error saving annotated image: [%v]", err)
	}

	return &models.DetectionResult{
		Filename:       safeName,
		ResultFilename: resultName,
		ImageURL:       imageURL,
		ResultURL:      resultURL,
		Detections:     detections,
	}, Success, nil
}
