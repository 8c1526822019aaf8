package storage

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/disintegration/imaging"
)

const maxProofWidth = 1600

var maxUploadBytes int64 = 5 << 20

var (
	ErrProofTooLarge   = errors.New("file size exceeds the upload limit")
	ErrUnsupportedType = errors.New("proof must be a JPEG, PNG or PDF file")
)

// SetMaxUploadMB changes the upload cap. Non-positive values are ignored.
func SetMaxUploadMB(mb int) {
	if mb > 0 {
		maxUploadBytes = int64(mb) << 20
	}
}

// MaxUploadBytes is the largest accepted upload.
func MaxUploadBytes() int64 { return maxUploadBytes }

// PrepareProof normalizes an uploaded transfer receipt. Images are decoded,
// downscaled to a readable width and re-encoded as JPEG; PDFs pass through.
// It returns the bytes to store, their content type and file extension.
func PrepareProof(data []byte) ([]byte, string, string, error) {
	if int64(len(data)) > maxUploadBytes {
		return nil, "", "", ErrProofTooLarge
	}

	switch http.DetectContentType(data) {
	case "application/pdf":
		return data, "application/pdf", ".pdf", nil
	case "image/jpeg", "image/png":
	default:
		return nil, "", "", ErrUnsupportedType
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", "", err
	}
	if img.Bounds().Dx() > maxProofWidth {
		img = imaging.Resize(img, maxProofWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, "", "", err
	}
	return buf.Bytes(), "image/jpeg", ".jpg", nil
}
