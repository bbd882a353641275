package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/expenseflow/receipt-ocr-service/internal/models"
)

// Text blocks below this word-level confidence are dropped as noise.
const tesseractMinBlockConfidence = 30

// Tesseract runs the tesseract binary over a temp file and parses its
// TSV output into text plus per-word confidence and bounding boxes.
type Tesseract struct{}

func NewTesseract() *Tesseract {
	return &Tesseract{}
}

func (t *Tesseract) Name() string { return "tesseract" }

func (t *Tesseract) Probe() error {
	if _, err := exec.LookPath("tesseract"); err != nil {
		return fmt.Errorf("tesseract binary not found: %w", err)
	}
	if err := exec.Command("tesseract", "--version").Run(); err != nil {
		return fmt.Errorf("tesseract not executable: %w", err)
	}
	return nil
}

// Recognize writes the image to a temp file and runs tesseract in TSV
// mode, which reports one row per detected word with confidence and
// box coordinates.
func (t *Tesseract) Recognize(ctx context.Context, imageData []byte, language string) (*models.RawOCRResult, error) {
	if language == "" {
		language = "eng"
	}

	start := time.Now()

	tmp, err := os.CreateTemp("", "receipt-*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(imageData); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp image: %w", err)
	}
	tmp.Close()

	cmd := exec.CommandContext(ctx, "tesseract", tmp.Name(), "stdout", "-l", language, "--psm", "6", "tsv")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("tesseract failed: %w - %s", err, stderr.String())
	}

	result := parseTSV(string(output))
	result.Language = language
	result.ProcessingTime = time.Since(start).Seconds()
	return result, nil
}

// parseTSV rebuilds line text from tesseract's word rows and keeps a
// text block per confident word. Columns: level, page_num, block_num,
// par_num, line_num, word_num, left, top, width, height, conf, text.
func parseTSV(tsv string) *models.RawOCRResult {
	var (
		lines      []string
		current    []string
		currentKey string
		blocks     []models.TextBlock
		confSum    float64
		confCount  int
	)

	flush := func() {
		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
			current = nil
		}
	}

	for i, row := range strings.Split(tsv, "\n") {
		if i == 0 {
			continue // header
		}
		cols := strings.Split(row, "\t")
		if len(cols) < 12 {
			continue
		}

		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || conf < 0 {
			continue
		}
		word := strings.TrimSpace(cols[11])
		if word == "" {
			continue
		}

		key := cols[2] + "/" + cols[3] + "/" + cols[4] // block/par/line
		if key != currentKey {
			flush()
			currentKey = key
		}
		current = append(current, word)

		confSum += conf
		confCount++

		if conf > tesseractMinBlockConfidence {
			bbox := make([]int, 0, 4)
			for _, c := range cols[6:10] {
				v, err := strconv.Atoi(c)
				if err != nil {
					bbox = nil
					break
				}
				bbox = append(bbox, v)
			}
			blocks = append(blocks, models.TextBlock{
				Text:       word,
				Confidence: conf / 100.0,
				BBox:       bbox,
			})
		}
	}
	flush()

	avg := 0.0
	if confCount > 0 {
		avg = confSum / float64(confCount) / 100.0
	}

	return &models.RawOCRResult{
		ExtractedText: strings.Join(lines, "\n"),
		Confidence:    avg,
		TextBlocks:    blocks,
		ImageSize:     "unknown",
	}
}
