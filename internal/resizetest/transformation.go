package resizetest

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	// We must import the image formats we want to support,
	// even if we don't use them directly. This "registers"
	// their decoders with the standard 'image' package.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// getFormat maps the string format from image.Decode to the imaging.Format enum
func getFormat(format string) (imaging.Format, error) {
	switch format {
	case "jpeg":
		return imaging.JPEG, nil
	case "png":
		return imaging.PNG, nil
	case "gif":
		return imaging.GIF, nil
	case "bmp":
		return imaging.BMP, nil
	case "tiff":
		return imaging.TIFF, nil
	default:
		return -1, fmt.Errorf("unsupported original format for re-encoding: %s", format)
	}
}

// Resize fits the image inside width x height and re-encodes it in its original format.
// It returns the encoded bytes and the format name reported by image.Decode.
func Resize(buffer []byte, width int, height int) ([]byte, string, error) {
	img, formatStr, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	format, err := getFormat(formatStr)
	if err != nil {
		return nil, "", err
	}

	newImage := imaging.Thumbnail(img, width, height, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err = imaging.Encode(buf, newImage, format); err != nil {
		return nil, "", fmt.Errorf("error while resizing: %w", err)
	}
	return buf.Bytes(), formatStr, nil
}

// PNG returns a solid width x height PNG, handy as upload input.
func PNG(width int, height int) []byte {
	img := imaging.New(width, height, color.NRGBA{R: 200, G: 80, B: 40, A: 255})
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
