package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/mahirjain10/resize-uploader/internal/types"
	"github.com/mahirjain10/resize-uploader/internal/utils"
)

const UploadPath = "/upload"

// BuildUploadURL embeds width and height verbatim. Nothing is validated or escaped:
// empty, negative and non-numeric values reach the service as typed.
func BuildUploadURL(baseURL string, params types.UploadRequestParams) string {
	return strings.TrimRight(baseURL, "/") + UploadPath + "?width=" + params.Width + "&height=" + params.Height
}

// BuildPayload encodes file. A nil file leaves FileName and ContentType unset and File null.
func BuildPayload(file *types.SelectedFile) types.EncodedPayload {
	if file == nil {
		return types.EncodedPayload{}
	}
	name := file.Name
	contentType := file.MimeType
	encoded := utils.EncodeBase64(file.Bytes)
	return types.EncodedPayload{
		FileName:    &name,
		ContentType: &contentType,
		File:        &encoded,
	}
}

// escapeForTransport percent-encodes only the bytes that cannot travel in a request
// line as-is, the same set a browser escapes in a query string.
func escapeForTransport(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c <= ' ' || c == '"' || c == '<' || c == '>' || c >= 0x7f {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// newUploadRequest builds the POST. No headers are set beyond what net/http adds.
func newUploadRequest(ctx context.Context, rawURL string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, escapeForTransport(rawURL), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	return req, nil
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
