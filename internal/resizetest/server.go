// Package resizetest is an in-process stand-in for the remote resize service,
// for tests that need a real endpoint on the other side of the pipeline.
package resizetest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/mahirjain10/resize-uploader/internal/utils"
)

// Request is one POST /upload as the service received it.
type Request struct {
	Method      string
	RawQuery    string
	ContentType string
	Body        []byte
	Payload     map[string]any
}

type Server struct {
	*httptest.Server

	mu          sync.Mutex
	requests    []Request
	images      map[string][]byte
	forceStatus int
	forceBody   string
}

func NewServer() *Server {
	s := &Server{images: make(map[string][]byte)}
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", s.handleUpload)
	mux.HandleFunc("/images/", s.handleImage)
	s.Server = httptest.NewServer(mux)
	return s
}

// FailWith makes every following upload answer with status and an empty body.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forceStatus = status
}

// RespondWith makes every following upload answer 200 with body as-is.
func (s *Server) RespondWith(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forceStatus = http.StatusOK
	s.forceBody = body
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Image returns a stored resized image by the URL the service handed out.
func (s *Server) Image(url string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.images[strings.TrimPrefix(url, s.URL)]
	return img, ok
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	req := Request{
		Method:      r.Method,
		RawQuery:    r.URL.RawQuery,
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	}
	_ = json.Unmarshal(body, &req.Payload)

	s.mu.Lock()
	s.requests = append(s.requests, req)
	forceStatus, forceBody := s.forceStatus, s.forceBody
	s.mu.Unlock()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if forceStatus != 0 {
		w.WriteHeader(forceStatus)
		io.WriteString(w, forceBody)
		return
	}

	encoded, ok := req.Payload["file"].(string)
	if !ok {
		http.Error(w, "no file", http.StatusBadRequest)
		return
	}
	width, errW := strconv.Atoi(r.URL.Query().Get("width"))
	height, errH := strconv.Atoi(r.URL.Query().Get("height"))
	if errW != nil || errH != nil || width < 0 || height < 0 {
		http.Error(w, "width and height must be non-negative integers", http.StatusBadRequest)
		return
	}
	buffer, err := utils.DecodeBase64(encoded)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	resized, format, err := Resize(buffer, width, height)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	s.mu.Lock()
	path := fmt.Sprintf("/images/%d.%s", len(s.images)+1, format)
	s.images[path] = resized
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"resizedImageUrl": s.URL + path})
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	img, ok := s.images[r.URL.Path]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Write(img)
}
