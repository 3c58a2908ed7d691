package handlers

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/kodlan/sait-paypal/config"
	"github.com/kodlan/sait-paypal/models"
	"github.com/kodlan/sait-paypal/service"
	"github.com/kodlan/sait-paypal/storage"
	. "github.com/smartystreets/goconvey/convey"
)

func setUpDetectionService(mockCtrl *gomock.Controller, dir string) *service.MockInferenceClient {
	mockInference := service.NewMockInferenceClient(mockCtrl)
	disk := &storage.Disk{Dir: dir, URLPrefix: "/static/uploads"}
	detectionService = &service.DetectionService{
		Inference: mockInference,
		Originals: disk,
		Results:   disk,
	}
	maxUploadBytes = 1 << 20
	return mockInference
}

func testPNG() []byte {
	buf := &bytes.Buffer{}
	_ = png.Encode(buf, image.NewRGBA(image.Rect(0, 0, 32, 32)))
	return buf.Bytes()
}

func uploadRequest(field, filename string, data []byte) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile(field, filename)
	_, _ = part.Write(data)
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUnitHandleUploadForm(t *testing.T) {
	Convey("Upload form rendered", t, func() {
		w := httptest.NewRecorder()
		HandleUploadForm(w, httptest.NewRequest(http.MethodGet, "/upload", nil))
		So(w.Code, ShouldEqual, http.StatusOK)
		So(w.Body.String(), ShouldContainSubstring, `name="image"`)
	})
}

func TestUnitHandleUploadImage(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	Convey("No image field", t, func() {
		setUpDetectionService(mockCtrl, t.TempDir())

		w := httptest.NewRecorder()
		HandleUploadImage(w, uploadRequest("photo", "a.png", testPNG()))
		So(w.Code, ShouldEqual, http.StatusBadRequest)
		So(w.Body.String(), ShouldContainSubstring, "no file in request")
	})

	Convey("Upload too large", t, func() {
		setUpDetectionService(mockCtrl, t.TempDir())
		maxUploadBytes = 1024

		w := httptest.NewRecorder()
		HandleUploadImage(w, uploadRequest("image", "a.png", bytes.Repeat([]byte("a"), 4096)))
		So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
	})

	Convey("Upload is not an image", t, func() {
		setUpDetectionService(mockCtrl, t.TempDir())

		w := httptest.NewRecorder()
		HandleUploadImage(w, uploadRequest("image", "notes.txt", []byte("shopping list")))
		So(w.Code, ShouldEqual, http.StatusBadRequest)
	})

	Convey("Model server fails", t, func() {
		mockInference := setUpDetectionService(mockCtrl, t.TempDir())
		mockInference.EXPECT().Predict(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

		w := httptest.NewRecorder()
		HandleUploadImage(w, uploadRequest("image", "a.png", testPNG()))
		So(w.Code, ShouldEqual, http.StatusBadGateway)
	})

	Convey("Result page rendered", t, func() {
		dir := t.TempDir()
		mockInference := setUpDetectionService(mockCtrl, dir)
		mockInference.EXPECT().Predict(gomock.Any(), gomock.Any(), gomock.Any()).Return(&models.Prediction{
			Labels: []int{47},
			Scores: []float64{0.876},
			Boxes:  [][4]float64{{2, 2, 20, 20}},
		}, nil)

		w := httptest.NewRecorder()
		HandleUploadImage(w, uploadRequest("image", "kitchen.png", testPNG()))
		So(w.Code, ShouldEqual, http.StatusOK)
		So(w.Body.String(), ShouldContainSubstring, "<td>cup</td>")
		So(w.Body.String(), ShouldContainSubstring, "<td>0.88</td>")
		So(w.Body.String(), ShouldContainSubstring, "/static/uploads/result_")

		files, _ := filepath.Glob(filepath.Join(dir, "result_*_kitchen.png"))
		So(files, ShouldHaveLength, 1)
	})

	Convey("Result as JSON", t, func() {
		mockInference := setUpDetectionService(mockCtrl, t.TempDir())
		mockInference.EXPECT().Predict(gomock.Any(), gomock.Any(), gomock.Any()).Return(&models.Prediction{
			Labels: []int{1},
			Scores: []float64{0.99},
			Boxes:  [][4]float64{{2, 2, 20, 20}},
		}, nil)

		req := uploadRequest("image", "kitchen.png", testPNG())
		req.Header.Set("Accept", "application/json")
		w := httptest.NewRecorder()
		HandleUploadImage(w, req)
		So(w.Code, ShouldEqual, http.StatusOK)
		So(w.Body.String(), ShouldContainSubstring, `"detections":[]`)
	})
}

func TestUnitServeUploads(t *testing.T) {
	Convey("Uploaded files are served but not listed", t, func() {
		dir := t.TempDir()
		So(os.WriteFile(filepath.Join(dir, "result_a.png"), testPNG(), 0o644), ShouldBeNil)

		router := mux.NewRouter()
		cfg, _ := config.Get()
		testCfg := *cfg
		testCfg.UploadFolder = dir
		Register(router, testCfg, &service.PayPalService{}, &service.DetectionService{})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/uploads/result_a.png", nil))
		So(w.Code, ShouldEqual, http.StatusOK)
		So(w.Header().Get("Content-Type"), ShouldEqual, "image/png")

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/uploads/", nil))
		So(w.Code, ShouldEqual, http.StatusNotFound)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/uploads/missing.png", nil))
		So(w.Code, ShouldEqual, http.StatusNotFound)
	})
}
