package types

// UploadRequestParams are forwarded to the resize service exactly as typed.
type UploadRequestParams struct {
	Width  string
	Height string
}

// SelectedFile is the image picked by the user. A nil *SelectedFile means no file.
type SelectedFile struct {
	Name     string
	MimeType string
	Bytes    []byte
}

// EncodedPayload is the JSON body of POST /upload.
// FileName and ContentType are omitted when no file was selected, File is then null.
type EncodedPayload struct {
	FileName    *string `json:"fileName,omitempty"`
	ContentType *string `json:"contentType,omitempty"`
	File        *string `json:"file"`
}

// UploadResult is the only part of a successful response that gets consumed.
type UploadResult struct {
	ResizedImageUrl string `json:"resizedImageUrl"`
}

// Link is what the result area shows after a successful upload.
type Link struct {
	Href string
	Text string
}
