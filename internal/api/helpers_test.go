package api_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/obralog/obralog/internal/middleware"
)

const testActor = "J. Pérez"

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

// newTestRouter creates a gin engine with an actor pre-set, standing in
// for the auth middleware.
func newTestRouter() *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ActorKey, testActor)
		c.Next()
	})

	return r
}

// doRequest performs an HTTP request against the test router and returns the recorder.
func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, http.NoBody)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

// multipartBody builds a multipart form with string values and file parts.
type filePart struct {
	field    string
	filename string
	data     []byte
}

func multipartBody(values map[string]string, files []filePart) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range values {
		mw.WriteField(k, v) //nolint:errcheck // in-memory writer
	}

	for _, f := range files {
		fw, _ := mw.CreateFormFile(f.field, f.filename)
		fw.Write(f.data) //nolint:errcheck // in-memory writer
	}

	mw.Close() //nolint:errcheck // in-memory writer

	return &buf, mw.FormDataContentType()
}

// doMultipart performs a multipart POST against the test router.
func doMultipart(r *gin.Engine, path string, values map[string]string, files []filePart) *httptest.ResponseRecorder {
	body, contentType := multipartBody(values, files)

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}
