// Package server is the browser-facing front of the upload pipeline: one page
// with the upload form and the shared result area.
package server

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mahirjain10/resize-uploader/internal/pipeline"
	"github.com/mahirjain10/resize-uploader/internal/source"
	"github.com/mahirjain10/resize-uploader/internal/types"
	"github.com/mahirjain10/resize-uploader/internal/view"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	FieldImage  = "image"
	FieldWidth  = "width"
	FieldHeight = "height"
)

type Server struct {
	pipeline  *pipeline.Pipeline
	container *view.Container
	logger    zerolog.Logger
	engine    *gin.Engine
}

func NewServer(uploadPipeline *pipeline.Pipeline, container *view.Container, logger zerolog.Logger) *Server {
	server := &Server{
		pipeline:  uploadPipeline,
		container: container,
		logger:    logger,
	}

	r := gin.New()
	r.Use(gin.Recovery(), server.requestLogger())
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/", server.Index)
	r.POST("/upload-form", server.UploadForm)

	server.engine = r
	return server
}

func (server *Server) Handler() http.Handler {
	return server.engine
}

func (server *Server) Run(addr string) error {
	server.logger.Info().Str("addr", addr).Msg("start web server")
	return server.engine.Run(addr)
}

func (server *Server) Index(c *gin.Context) {
	result, err := server.container.HTML()
	if err != nil {
		server.logger.Error().Err(err).Msg("failed to render result container")
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{"Result": result})
}

// UploadForm runs one submission. Pipeline failures are logged and swallowed,
// the browser always lands back on the page.
func (server *Server) UploadForm(c *gin.Context) {
	sub := pipeline.Submission{
		Params: types.UploadRequestParams{
			Width:  c.PostForm(FieldWidth),
			Height: c.PostForm(FieldHeight),
		},
	}

	header, err := c.FormFile(FieldImage)
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		server.logger.Warn().Err(err).Msg("unreadable upload form")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	default:
		sub.File = source.FormFile{Header: header}
	}

	server.pipeline.HandleSubmit(c.Request.Context(), sub)
	c.Redirect(http.StatusSeeOther, "/")
}

func (server *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		server.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
