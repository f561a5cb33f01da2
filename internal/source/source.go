// Package source adapts the places a selected image can come from (local disk,
// a multipart form upload, an S3 object) to one blocking read.
package source

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/mahirjain10/resize-uploader/internal/aws"
	"github.com/mahirjain10/resize-uploader/internal/types"
	"github.com/mahirjain10/resize-uploader/internal/utils"
)

// FileSource yields the selected file. Open blocks until the bytes are read or ctx is done.
type FileSource interface {
	Open(ctx context.Context) (*types.SelectedFile, error)
}

// readAsync runs read on its own goroutine so a read that never settles still
// gives way to ctx cancellation.
func readAsync(ctx context.Context, read func() (*types.SelectedFile, error)) (*types.SelectedFile, error) {
	type result struct {
		file *types.SelectedFile
		err  error
	}
	done := make(chan result, 1)
	go func() {
		file, err := read()
		done <- result{file: file, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.file, r.err
	}
}

// DetectMimeType mirrors what a browser reports as File.type: the extension decides,
// content sniffing is the fallback, unknown is "".
func DetectMimeType(name string, data []byte) string {
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return stripParams(byExt)
	}
	if len(data) == 0 {
		return ""
	}
	detected := mimetype.Detect(data)
	if detected.Is("application/octet-stream") {
		return ""
	}
	return stripParams(detected.String())
}

func stripParams(mediaType string) string {
	parsed, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return mediaType
	}
	return parsed
}

// LocalFile reads a file from disk.
type LocalFile struct {
	Path string
}

func (f LocalFile) Open(ctx context.Context) (*types.SelectedFile, error) {
	return readAsync(ctx, func() (*types.SelectedFile, error) {
		buffer, err := utils.ReadImageBuffer(f.Path)
		if err != nil {
			return nil, err
		}
		name := filepath.Base(f.Path)
		return &types.SelectedFile{Name: name, MimeType: DetectMimeType(name, buffer), Bytes: buffer}, nil
	})
}

// FormFile reads a file posted through a multipart form.
type FormFile struct {
	Header *multipart.FileHeader
}

func (f FormFile) Open(ctx context.Context) (*types.SelectedFile, error) {
	return readAsync(ctx, func() (*types.SelectedFile, error) {
		file, err := f.Header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open form file %q: %w", f.Header.Filename, err)
		}
		defer file.Close()

		buffer, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read form file %q: %w", f.Header.Filename, err)
		}
		mimeType := stripParams(f.Header.Header.Get("Content-Type"))
		if mimeType == "" || mimeType == "application/octet-stream" {
			mimeType = DetectMimeType(f.Header.Filename, buffer)
		}
		return &types.SelectedFile{Name: f.Header.Filename, MimeType: mimeType, Bytes: buffer}, nil
	})
}

// S3File reads an object from S3.
type S3File struct {
	Service *aws.S3Service
	Bucket  string
	Key     string
}

func (f S3File) Open(ctx context.Context) (*types.SelectedFile, error) {
	return readAsync(ctx, func() (*types.SelectedFile, error) {
		obj, err := f.Service.ReadObject(ctx, f.Bucket, f.Key)
		if err != nil {
			return nil, err
		}
		name := path.Base(obj.Key)
		mimeType := stripParams(obj.ContentType)
		if mimeType == "" || mimeType == "binary/octet-stream" || mimeType == "application/octet-stream" {
			mimeType = DetectMimeType(name, obj.Body)
		}
		return &types.SelectedFile{Name: name, MimeType: mimeType, Bytes: obj.Body}, nil
	})
}

// Static hands out a file that is already in memory.
type Static struct {
	File types.SelectedFile
}

func (f Static) Open(ctx context.Context) (*types.SelectedFile, error) {
	file := f.File
	return &file, nil
}

// FromReference turns a CLI file reference into a source. An empty reference means
// no file was selected and yields a nil source. s3:// references need s3Service.
func FromReference(ref string, s3Service *aws.S3Service) (FileSource, error) {
	switch {
	case ref == "":
		return nil, nil
	case strings.HasPrefix(ref, aws.S3Scheme):
		if s3Service == nil {
			return nil, fmt.Errorf("s3 reference %q given but no s3 client configured", ref)
		}
		bucket, key, err := aws.ParseS3URI(ref)
		if err != nil {
			return nil, err
		}
		return S3File{Service: s3Service, Bucket: bucket, Key: key}, nil
	default:
		return LocalFile{Path: ref}, nil
	}
}
