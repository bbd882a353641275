package ocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// NormalizeImage converts any supported upload (PDF, HEIC, JPEG, PNG,
// GIF) into PNG bytes the recognition backends can all consume.
// Returns the image size as "WxH" where it can be determined.
func NormalizeImage(data []byte, contentType string) ([]byte, string, error) {
	if isPDF(data) || contentType == "application/pdf" {
		img, err := pdfToImage(data)
		if err != nil {
			return nil, "", err
		}
		return img, "PDF", nil
	}

	var img image.Image
	var err error
	if isHEICFormat(data) || isHEICMimeType(contentType) {
		// iPhone photos; the standard image package has no HEIC decoder
		img, err = heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("decoding HEIC image: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("decoding image (supported: JPEG, PNG, GIF, HEIC, PDF): %w", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", fmt.Errorf("encoding PNG: %w", err)
	}

	bounds := img.Bounds()
	size := fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy())
	return buf.Bytes(), size, nil
}

// pdfToImage renders the first PDF page as PNG. Receipts are single
// page; additional pages are ignored.
func pdfToImage(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func isPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF"))
}

// isHEICFormat checks the ISO base media brand at offset 8.
func isHEICFormat(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	if string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heix", "hevc", "heim", "heis", "hevm", "hevs", "mif1", "msf1":
		return true
	}
	return false
}

func isHEICMimeType(mimeType string) bool {
	mimeType = strings.ToLower(mimeType)
	return mimeType == "image/heic" || mimeType == "image/heif"
}
