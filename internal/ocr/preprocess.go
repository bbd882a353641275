package ocr

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
)

// PreprocessImage applies image enhancement before tesseract reads the
// receipt. Thermal paper scans gain the most from grayscale plus
// contrast stretching.
// Uses ImageMagick for: grayscale, contrast, denoise, sharpen. When
// ImageMagick is missing or fails the original bytes are returned so
// recognition still runs.
func PreprocessImage(imageData []byte) []byte {
	tmpDir := os.TempDir()
	inputFile := filepath.Join(tmpDir, fmt.Sprintf("receipt_in_%d.png", os.Getpid()))
	outputFile := filepath.Join(tmpDir, fmt.Sprintf("receipt_out_%d.png", os.Getpid()))

	if err := os.WriteFile(inputFile, imageData, 0644); err != nil {
		return imageData
	}
	defer os.Remove(inputFile)
	defer os.Remove(outputFile)

	// Pipeline: resize (if too large) -> grayscale -> contrast -> denoise -> sharpen
	args := []string{
		inputFile,
		"-resize", "2000x2000>",
		"-colorspace", "Gray",
		"-normalize",
		"-contrast-stretch", "2%x1%",
		"-despeckle",
		"-sharpen", "0x1",
		"-unsharp", "0x0.5+0.5+0",
		outputFile,
	}

	// 'magick' is ImageMagick 7, 'convert' is ImageMagick 6
	var cmd *exec.Cmd
	if _, err := exec.LookPath("magick"); err == nil {
		cmd = exec.Command("magick", args...)
	} else {
		cmd = exec.Command("convert", args...)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		log.Printf("[Preprocess] ImageMagick failed, using original image: %v - %s", err, stderr.String())
		return imageData
	}

	processed, err := os.ReadFile(outputFile)
	if err != nil {
		return imageData
	}
	return processed
}
