package service

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif" // register gif decoding
	"image/jpeg"
	"image/png"
	"math"
	"path/filepath"
	"strings"

	"github.com/kodlan/sait-paypal/models"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp" // register webp decoding
)

const boxWidth = 3

var annotationColour = color.RGBA{R: 255, A: 255}

// DecodeImage decodes any of the accepted upload formats
func DecodeImage(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("error decoding image: [%v]", err)
	}
	return img, format, nil
}

// Annotate returns an RGBA copy of img with a red box and a "label score"
// caption drawn for every detection
func Annotate(img image.Image, detections []models.Detection) *image.RGBA {
	bounds := img.Bounds()
	annotated := image.NewRGBA(bounds)
	draw.Draw(annotated, bounds, img, bounds.Min, draw.Src)

	for _, detection := range detections {
		box := boxRectangle(detection.Box)
		drawOutline(annotated, box, boxWidth)
		drawCaption(annotated, box.Min, fmt.Sprintf("%s %.2f", detection.Label, detection.Score))
	}

	return annotated
}

// boxRectangle converts x1, y1, x2, y2 to a rectangle that includes the far
// edge pixels
func boxRectangle(box [4]float64) image.Rectangle {
	return image.Rect(
		int(math.Round(box[0])),
		int(math.Round(box[1])),
		int(math.Round(box[2]))+1,
		int(math.Round(box[3]))+1,
	)
}

// drawOutline draws the outline of r, growing inwards by width pixels
func drawOutline(dst *image.RGBA, r image.Rectangle, width int) {
	src := image.NewUniform(annotationColour)
	clip := dst.Bounds()

	for i := 0; i < width; i++ {
		inner := r.Inset(i)
		if inner.Empty() {
			return
		}
		edges := []image.Rectangle{
			image.Rect(inner.Min.X, inner.Min.Y, inner.Max.X, inner.Min.Y+1),
			image.Rect(inner.Min.X, inner.Max.Y-1, inner.Max.X, inner.Max.Y),
			image.Rect(inner.Min.X, inner.Min.Y, inner.Min.X+1, inner.Max.Y),
			image.Rect(inner.Max.X-1, inner.Min.Y, inner.Max.X, inner.Max.Y),
		}
		for _, edge := range edges {
			draw.Draw(dst, edge.Intersect(clip), src, image.Point{}, draw.Src)
		}
	}
}

func drawCaption(dst *image.RGBA, topLeft image.Point, caption string) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(annotationColour),
		Face: face,
		Dot:  fixed.P(topLeft.X, topLeft.Y+face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(caption)
}

// ResultFilename names the annotated copy of an upload. Formats other than
// JPEG are written as PNG.
func ResultFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".jpg" || ext == ".jpeg" {
		return "result_" + filename
	}
	return "result_" + strings.TrimSuffix(filename, filepath.Ext(filename)) + ".png"
}

// EncodeImage writes img in the format implied by the file extension
func EncodeImage(img image.Image, filename string) ([]byte, error) {
	buf := &bytes.Buffer{}

	var err error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(buf, img, &jpeg.Options{Quality: jpeg.DefaultQuality})
	default:
		err = png.Encode(buf, img)
	}
	if err != nil {
		return nil, fmt.Errorf("error encoding annotated image: [%v]", err)
	}

	return buf.Bytes(), nil
}
