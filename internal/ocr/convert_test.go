package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func TestNormalizeImagePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(10, 8)))

	out, size, err := NormalizeImage(buf.Bytes(), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "10x8", size)

	decoded, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 10, decoded.Bounds().Dx())
}

func TestNormalizeImageJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(6, 4), nil))

	out, size, err := NormalizeImage(buf.Bytes(), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "6x4", size)

	_, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestNormalizeImageGarbage(t *testing.T) {
	_, _, err := NormalizeImage([]byte("not an image"), "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding image")
}

func TestIsPDF(t *testing.T) {
	assert.True(t, isPDF([]byte("%PDF-1.4 rest of file")))
	assert.False(t, isPDF([]byte("PNG data")))
	assert.False(t, isPDF(nil))
}

func TestIsHEICFormat(t *testing.T) {
	heic := append([]byte{0, 0, 0, 0x18}, []byte("ftypheic")...)
	heic = append(heic, make([]byte, 8)...)
	assert.True(t, isHEICFormat(heic))

	mif1 := append([]byte{0, 0, 0, 0x18}, []byte("ftypmif1")...)
	mif1 = append(mif1, make([]byte, 8)...)
	assert.True(t, isHEICFormat(mif1))

	avif := append([]byte{0, 0, 0, 0x18}, []byte("ftypavif")...)
	avif = append(avif, make([]byte, 8)...)
	assert.False(t, isHEICFormat(avif))

	assert.False(t, isHEICFormat([]byte("short")))
}

func TestIsHEICMimeType(t *testing.T) {
	assert.True(t, isHEICMimeType("image/heic"))
	assert.True(t, isHEICMimeType("IMAGE/HEIF"))
	assert.False(t, isHEICMimeType("image/png"))
}
