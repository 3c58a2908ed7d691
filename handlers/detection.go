package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/companieshouse/chs.go/log"
	"github.com/kodlan/sait-paypal/utils"
)

// HandleUploadForm renders the image upload form
func HandleUploadForm(w http.ResponseWriter, req *http.Request) {
	render(w, req, "upload.html", http.StatusOK, nil)
}

// HandleUploadImage runs object detection over the uploaded "image" file
func HandleUploadImage(w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, maxUploadBytes)

	file, header, err := req.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			log.ErrorR(req, fmt.Errorf("upload too large: [%v]", err))
			writeError(w, req, http.StatusRequestEntityTooLarge, fmt.Sprintf("image larger than %d bytes", maxUploadBytes))
		case errors.Is(err, http.ErrMissingFile):
			log.ErrorR(req, fmt.Errorf("no image in upload request"))
			writeError(w, req, http.StatusBadRequest, "no file in request")
		default:
			log.ErrorR(req, fmt.Errorf("upload request invalid: [%v]", err))
			writeError(w, req, http.StatusBadRequest, "invalid upload request")
		}
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, req, http.StatusBadRequest, "no file selected")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		log.ErrorR(req, fmt.Errorf("error reading upload: [%v]", err))
		writeError(w, req, http.StatusBadRequest, "error reading upload")
		return
	}

	result, responseType, err := detectionService.Detect(req.Context(), header.Filename, data)
	if err != nil {
		log.ErrorR(req, fmt.Errorf("error detecting objects: [%v]", err), log.Data{"filename": header.Filename})
		writeError(w, req, responseType.HTTPStatus(), err.Error())
		return
	}

	log.InfoR(req, "objects detected", log.Data{"filename": result.Filename, "detections": len(result.Detections)})

	if utils.WantsJSON(req) {
		utils.WriteJSONWithStatus(w, req, result, http.StatusOK)
		return
	}
	render(w, req, "result.html", http.StatusOK, result)
}
