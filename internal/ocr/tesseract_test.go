package ocr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tsvHeader = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext"

func tsvRow(block, par, line, word string, left, top, width, height, conf, text string) string {
	return strings.Join([]string{"5", "1", block, par, line, word, left, top, width, height, conf, text}, "\t")
}

func TestParseTSV(t *testing.T) {
	tsv := strings.Join([]string{
		tsvHeader,
		tsvRow("1", "1", "1", "1", "10", "10", "80", "20", "96", "STARBUCKS"),
		tsvRow("1", "1", "1", "2", "100", "10", "50", "20", "91", "#1234"),
		tsvRow("1", "1", "2", "1", "10", "40", "60", "20", "88", "Total:"),
		tsvRow("1", "1", "2", "2", "80", "40", "50", "20", "93", "$8.45"),
	}, "\n")

	result := parseTSV(tsv)
	require.NotNil(t, result)

	assert.Equal(t, "STARBUCKS #1234\nTotal: $8.45", result.ExtractedText)
	require.Len(t, result.TextBlocks, 4)
	assert.Equal(t, "STARBUCKS", result.TextBlocks[0].Text)
	assert.Equal(t, []int{10, 10, 80, 20}, result.TextBlocks[0].BBox)
	assert.InDelta(t, 0.96, result.TextBlocks[0].Confidence, 1e-9)

	// Average of 96, 91, 88, 93 scaled to 0-1.
	assert.InDelta(t, 0.92, result.Confidence, 1e-9)
}

func TestParseTSVDropsLowConfidenceBlocks(t *testing.T) {
	tsv := strings.Join([]string{
		tsvHeader,
		tsvRow("1", "1", "1", "1", "0", "0", "10", "10", "95", "Total"),
		tsvRow("1", "1", "1", "2", "10", "0", "10", "10", "12", "smudge"),
	}, "\n")

	result := parseTSV(tsv)

	// The low-confidence word still contributes to line text and the
	// average, but is not kept as a block.
	assert.Equal(t, "Total smudge", result.ExtractedText)
	require.Len(t, result.TextBlocks, 1)
	assert.Equal(t, "Total", result.TextBlocks[0].Text)
	assert.InDelta(t, 0.535, result.Confidence, 1e-9)
}

func TestParseTSVSkipsStructuralRows(t *testing.T) {
	// Rows with confidence -1 are page/block/line markers, not words.
	tsv := strings.Join([]string{
		tsvHeader,
		strings.Join([]string{"2", "1", "1", "0", "0", "0", "0", "0", "100", "100", "-1", ""}, "\t"),
		tsvRow("1", "1", "1", "1", "0", "0", "10", "10", "90", "Deli"),
		"short\trow",
	}, "\n")

	result := parseTSV(tsv)
	assert.Equal(t, "Deli", result.ExtractedText)
	require.Len(t, result.TextBlocks, 1)
	assert.InDelta(t, 0.90, result.Confidence, 1e-9)
}

func TestParseTSVEmpty(t *testing.T) {
	result := parseTSV(tsvHeader + "\n")
	assert.Equal(t, "", result.ExtractedText)
	assert.Empty(t, result.TextBlocks)
	assert.Zero(t, result.Confidence)
}
