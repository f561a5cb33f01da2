// Package pipeline turns one form submission into one POST to the resize service
// and, on success, into the single link shown in the result area.
package pipeline

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/mahirjain10/resize-uploader/internal/source"
	"github.com/mahirjain10/resize-uploader/internal/types"
	"github.com/mahirjain10/resize-uploader/internal/utils"
	"github.com/rs/zerolog"
)

// PlaceholderHref is where every rendered link points unless WithLinkToResult is set.
const PlaceholderHref = "https://www.google.com"

// ResultView is the result area. Replace clears it and leaves link as its only child.
type ResultView interface {
	Replace(link types.Link)
}

type StatusPublisher interface {
	Publish(ctx context.Context, message *types.StatusMessage) error
}

// Submission is what the user handed over at submit time. A nil File means no file.
type Submission struct {
	File   source.FileSource
	Params types.UploadRequestParams
}

type Pipeline struct {
	baseURL      string
	client       *http.Client
	view         ResultView
	publisher    StatusPublisher
	logger       zerolog.Logger
	linkToResult bool
}

type Option func(*Pipeline)

func WithHTTPClient(client *http.Client) Option {
	return func(p *Pipeline) { p.client = client }
}

func WithPublisher(publisher StatusPublisher) Option {
	return func(p *Pipeline) { p.publisher = publisher }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithLinkToResult makes the rendered link point at the resized image itself.
func WithLinkToResult(enabled bool) Option {
	return func(p *Pipeline) { p.linkToResult = enabled }
}

func New(baseURL string, view ResultView, opts ...Option) *Pipeline {
	p := &Pipeline{
		baseURL: baseURL,
		client:  &http.Client{},
		view:    view,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Submit runs one submission: read and encode the file, send exactly one request,
// render the link. Any failure is returned as *UploadError and the view is untouched.
func (p *Pipeline) Submit(ctx context.Context, sub Submission) (*types.UploadResult, error) {
	id := uuid.NewString()
	logger := p.logger.With().
		Str("submission", id).
		Str("width", sub.Params.Width).
		Str("height", sub.Params.Height).
		Logger()

	result, fileName, err := p.run(ctx, id, logger, sub)
	if err != nil {
		p.publish(ctx, logger, utils.InitStatusData(id, types.FAILED, sub.Params, fileName, "", err.Error()))
		return nil, err
	}
	p.publish(ctx, logger, utils.InitStatusData(id, types.DONE, sub.Params, fileName, result.ResizedImageUrl, ""))
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, id string, logger zerolog.Logger, sub Submission) (*types.UploadResult, string, error) {
	p.publish(ctx, logger, utils.InitStatusData(id, types.ENCODING, sub.Params, "", "", ""))

	var file *types.SelectedFile
	if sub.File != nil {
		var err error
		file, err = sub.File.Open(ctx)
		if err != nil {
			return nil, "", &UploadError{Kind: KindEncoding, Err: err}
		}
		logger.Debug().Str("file", file.Name).Str("contentType", file.MimeType).Int("bytes", len(file.Bytes)).Msg("file read")
	}
	var fileName string
	if file != nil {
		fileName = file.Name
	}

	body, err := utils.SerializeJSON(BuildPayload(file))
	if err != nil {
		return nil, fileName, &UploadError{Kind: KindEncoding, Err: err}
	}

	uploadURL := BuildUploadURL(p.baseURL, sub.Params)
	p.publish(ctx, logger, utils.InitStatusData(id, types.REQUESTING, sub.Params, fileName, "", ""))

	req, err := newUploadRequest(ctx, uploadURL, body)
	if err != nil {
		return nil, fileName, &UploadError{Kind: KindRequest, Err: err}
	}
	logger.Debug().Str("url", uploadURL).Int("bodyBytes", len(body)).Msg("sending upload request")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fileName, &UploadError{Kind: KindRequest, Err: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		io.Copy(io.Discard, resp.Body)
		return nil, fileName, &UploadError{Kind: KindUploadFailed, StatusCode: resp.StatusCode, StatusText: statusText(resp)}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fileName, &UploadError{Kind: KindRequest, Err: err}
	}
	result, err := parseUploadResult(respBody)
	if err != nil {
		return nil, fileName, &UploadError{Kind: KindMalformedResponse, Err: err}
	}

	p.view.Replace(p.linkFor(result))
	logger.Info().Str("resizedImageUrl", result.ResizedImageUrl).Msg("upload complete")
	return result, fileName, nil
}

// HandleSubmit is the top-level boundary for UI layers that must never see a failure:
// the error is logged and swallowed, and nil is returned in its place.
func (p *Pipeline) HandleSubmit(ctx context.Context, sub Submission) *types.UploadResult {
	result, err := p.Submit(ctx, sub)
	if err != nil {
		event := p.logger.Error().Err(err)
		var uploadErr *UploadError
		if errors.As(err, &uploadErr) {
			event = event.Str("kind", string(uploadErr.Kind))
			if uploadErr.StatusCode != 0 {
				event = event.Int("status", uploadErr.StatusCode)
			}
		}
		event.Msg("Error uploading image")
		return nil
	}
	return result
}

func (p *Pipeline) linkFor(result *types.UploadResult) types.Link {
	href := PlaceholderHref
	if p.linkToResult {
		href = result.ResizedImageUrl
	}
	return types.Link{Href: href, Text: result.ResizedImageUrl}
}

func (p *Pipeline) publish(ctx context.Context, logger zerolog.Logger, data *types.StatusData) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, utils.InitStatusMessage(data)); err != nil {
		logger.Warn().Err(err).Str("status", data.Status).Msg("failed to publish status")
	}
}

func parseUploadResult(body []byte) (*types.UploadResult, error) {
	var raw struct {
		ResizedImageUrl *string `json:"resizedImageUrl"`
	}
	if err := utils.ParseJSON(body, &raw); err != nil {
		return nil, err
	}
	if raw.ResizedImageUrl == nil {
		return nil, errors.New("response has no resizedImageUrl")
	}
	return &types.UploadResult{ResizedImageUrl: *raw.ResizedImageUrl}, nil
}
