package service

// cocoCategories are the class names of the COCO trained Faster R-CNN, indexed
// by the label the model returns. "N/A" marks ids unused by COCO.
var cocoCategories = [...]string{
	"__background__", "person", "bicycle", "car", "motorcycle", "airplane", "bus",
	"train", "truck", "boat", "traffic light", "fire hydrant", "N/A", "stop sign",
	"parking meter", "bench", "bird", "cat", "dog", "horse", "sheep", "cow",
	"elephant", "bear", "zebra", "giraffe", "N/A", "backpack", "umbrella", "N/A", "N/A",
	"handbag", "tie", "suitcase", "frisbee", "skis", "snowboard", "sports ball",
	"kite", "baseball bat", "baseball glove", "skateboard", "surfboard", "tennis racket",
	"bottle", "N/A", "wine glass", "cup", "fork", "knife", "spoon", "bowl",
	"banana", "apple", "sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza",
	"donut", "cake", "chair", "couch", "potted plant", "bed", "N/A", "dining table",
	"N/A", "N/A", "toilet", "N/A", "tv", "laptop", "mouse", "remote", "keyboard", "cell phone",
	"microwave", "oven", "toaster", "sink", "refrigerator", "N/A", "book",
	"clock", "vase", "scissors", "teddy bear", "hair drier", "toothbrush",
}

// allowedCategories are the tableware, food and household items reported back
// to the user. Everything else the model finds is dropped.
var allowedCategories = map[string]bool{
	"bottle":     true,
	"wine glass": true,
	"cup":        true,
	"fork":       true,
	"knife":      true,
	"spoon":      true,
	"bowl":       true,
	"banana":     true,
	"apple":      true,
	"sandwich":   true,
	"orange":     true,
	"broccoli":   true,
	"carrot":     true,
	"hot dog":    true,
	"pizza":      true,
	"donut":      true,
	"cake":       true,
	"cell phone": true,
	"book":       true,
}

// CategoryName returns the class name of a model label and false when the
// label is outside the category table
func CategoryName(label int) (string, bool) {
	if label < 0 || label >= len(cocoCategories) {
		return "", false
	}
	return cocoCategories[label], true
}
