package server

import (
	"bytes"
	"encoding/base64"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mahirjain10/resize-uploader/internal/pipeline"
	"github.com/mahirjain10/resize-uploader/internal/resizetest"
	"github.com/mahirjain10/resize-uploader/internal/types"
	"github.com/mahirjain10/resize-uploader/internal/view"
	"github.com/rs/zerolog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type formFile struct {
	name        string
	contentType string
	data        []byte
}

func newForm(t *testing.T, width, height string, file *formFile) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if file != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="image"; filename="`+file.name+`"`)
		header.Set("Content-Type", file.contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatal(err)
		}
		part.Write(file.data)
	}
	writer.WriteField(FieldWidth, width)
	writer.WriteField(FieldHeight, height)
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return &body, writer.FormDataContentType()
}

func setup(t *testing.T) (*resizetest.Server, *view.Container, *Server, *bytes.Buffer) {
	t.Helper()
	service := resizetest.NewServer()
	t.Cleanup(service.Close)

	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	container := view.NewContainer()
	p := pipeline.New(service.URL, container, pipeline.WithLogger(logger))
	return service, container, NewServer(p, container, logger), &logs
}

func postForm(srv *Server, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/upload-form", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	_, _, srv, _ := setup(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("got %d %s", w.Code, w.Body.String())
	}
}

func TestIndexRendersFormAndContainer(t *testing.T) {
	_, container, srv, _ := setup(t)
	container.Replace(types.Link{Href: pipeline.PlaceholderHref, Text: "https://cdn.example/a.jpg"})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`name="image"`,
		`name="width"`,
		`name="height"`,
		`<div id="response-container"><a href="https://www.google.com">https://cdn.example/a.jpg</a></div>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page is missing %s", want)
		}
	}
}

func TestUploadFormWithFile(t *testing.T) {
	service, container, srv, _ := setup(t)
	image := resizetest.PNG(40, 20)

	body, contentType := newForm(t, "20", "10", &formFile{name: "cat.png", contentType: "image/png", data: image})
	w := postForm(srv, body, contentType)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		t.Fatalf("got %d location %q", w.Code, w.Header().Get("Location"))
	}

	reqs := service.Requests()
	if len(reqs) != 1 {
		t.Fatalf("service got %d requests, want 1", len(reqs))
	}
	if reqs[0].RawQuery != "width=20&height=10" {
		t.Errorf("query = %q", reqs[0].RawQuery)
	}
	if reqs[0].Payload["fileName"] != "cat.png" || reqs[0].Payload["contentType"] != "image/png" {
		t.Errorf("payload = %v", reqs[0].Payload)
	}
	if reqs[0].Payload["file"] != base64.StdEncoding.EncodeToString(image) {
		t.Error("file is not the base64 of the uploaded bytes")
	}

	links := container.Links()
	if len(links) != 1 || links[0].Href != pipeline.PlaceholderHref || !strings.HasPrefix(links[0].Text, service.URL+"/images/") {
		t.Errorf("container = %+v", links)
	}
}

func TestUploadFormWithoutFile(t *testing.T) {
	service, _, srv, _ := setup(t)
	service.RespondWith(`{"resizedImageUrl":"x"}`)

	body, contentType := newForm(t, "300", "", nil)
	w := postForm(srv, body, contentType)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", w.Code)
	}
	reqs := service.Requests()
	if len(reqs) != 1 || string(reqs[0].Body) != `{"file":null}` || reqs[0].RawQuery != "width=300&height=" {
		t.Errorf("requests = %+v", reqs)
	}
}

func TestUploadFormFailureIsSwallowed(t *testing.T) {
	service, container, srv, logs := setup(t)
	service.FailWith(http.StatusBadGateway)
	container.Replace(types.Link{Href: "keep", Text: "keep"})

	body, contentType := newForm(t, "1", "1", nil)
	w := postForm(srv, body, contentType)
	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want redirect even on failure", w.Code)
	}
	if links := container.Links(); len(links) != 1 || links[0].Text != "keep" {
		t.Errorf("container changed: %+v", links)
	}
	if !strings.Contains(logs.String(), "Error uploading image") {
		t.Errorf("failure not logged: %s", logs.String())
	}
}

func TestUploadFormRejectsNonMultipart(t *testing.T) {
	service, _, srv, _ := setup(t)

	req := httptest.NewRequest(http.MethodPost, "/upload-form", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "multipart/form-data")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if n := len(service.Requests()); n != 0 {
		t.Errorf("service got %d requests", n)
	}
}
