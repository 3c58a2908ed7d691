package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/companieshouse/chs.go/log"
	"github.com/kodlan/sait-paypal/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = map[string]*template.Template{}

func init() {
	for _, page := range []string{"index.html", "success.html", "cancel.html", "upload.html", "result.html", "error.html"} {
		pages[page] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+page))
	}
}

// render executes a page into a buffer first so a template error still
// produces a clean 500
func render(w http.ResponseWriter, req *http.Request, page string, status int, data interface{}) {
	t, ok := pages[page]
	if !ok {
		log.ErrorR(req, fmt.Errorf("unknown page [%s]", page))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	buf := &bytes.Buffer{}
	if err := t.ExecuteTemplate(buf, page, data); err != nil {
		log.ErrorR(req, fmt.Errorf("error rendering page [%s]: [%v]", page, err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.ErrorR(req, fmt.Errorf("error writing response: %v", err))
	}
}

// writeError replies with a message as JSON or as the error page
func writeError(w http.ResponseWriter, req *http.Request, status int, message string) {
	if utils.WantsJSON(req) {
		utils.WriteJSONWithStatus(w, req, utils.NewMessageResponse(message), status)
		return
	}
	render(w, req, "error.html", status, utils.NewMessageResponse(message))
}

// noDirectoryListing stops the file server listing the upload folder
func noDirectoryListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "" || strings.HasSuffix(req.URL.Path, "/") {
			http.NotFound(w, req)
			return
		}
		next.ServeHTTP(w, req)
	})
}
