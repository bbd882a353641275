package parser

import "regexp"

// The pattern library: one fixed, ordered list of patterns per field,
// most reliable first. Extractors walk a list in slice order, so the
// order here IS the precedence rule. Amount extractors aggregate every
// match from their list instead of stopping at the first pattern; all
// other fields stop at the first pattern that matches anywhere.
//
// Label-anchored amount patterns run against lowercased text.

var totalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`total[:\s]*\$?\s*(\d+[,.]?\d{0,2})`),
	regexp.MustCompile(`amount[:\s]*\$?\s*(\d+[,.]?\d{0,2})`),
	regexp.MustCompile(`grand\s+total[:\s]*\$?\s*(\d+[,.]?\d{0,2})`),
	regexp.MustCompile(`balance[:\s]*\$?\s*(\d+[,.]?\d{0,2})`),
	regexp.MustCompile(`due[:\s]*\$?\s*(\d+[,.]?\d{0,2})`),
	regexp.MustCompile(`\$\s*(\d+[,.]?\d{2})\s*total`),
}

// totalFallbackPattern is used for the total only, when no anchored
// pattern yields a candidate: any bare dollars-and-cents amount in the
// text qualifies and the largest in-range value wins, on the heuristic
// that the total is usually the largest amount printed on a receipt.
var totalFallbackPattern = regexp.MustCompile(`\$?(\d+\.\d{2})`)

var subtotalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`subtotal[:\s]*\$?\s*(\d+[,.]?\d{0,2})`),
	regexp.MustCompile(`sub\s+total[:\s]*\$?\s*(\d+[,.]?\d{0,2})`),
	regexp.MustCompile(`sub[:\s]*\$?\s*(\d+[,.]?\d{0,2})`),
}

var taxPatterns = []*regexp.Regexp{
	regexp.MustCompile(`tax[:\s]*\$?\s*(\d+[,.]?\d{0,2})`),
	regexp.MustCompile(`gst[:\s]*\$?\s*(\d+[,.]?\d{0,2})`),
	regexp.MustCompile(`hst[:\s]*\$?\s*(\d+[,.]?\d{0,2})`),
	regexp.MustCompile(`vat[:\s]*\$?\s*(\d+[,.]?\d{0,2})`),
	regexp.MustCompile(`sales\s+tax[:\s]*\$?\s*(\d+[,.]?\d{0,2})`),
}

// Date patterns are tried in this order and the first match wins, so a
// day-first slash date beats a year-first one when both appear. The
// matched substring is returned verbatim; day/month ranges are not
// validated.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`),
	regexp.MustCompile(`\d{2,4}[/-]\d{1,2}[/-]\d{1,2}`),
	regexp.MustCompile(`(?i)\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*[,\s]+\d{2,4}`),
	regexp.MustCompile(`(?i)(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{1,2}[,\s]+\d{2,4}`),
}

var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\+?1?[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
	regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`),
}

var receiptNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`receipt[#:\s]*([a-z0-9]+)`),
	regexp.MustCompile(`transaction[#:\s]*([a-z0-9]+)`),
	regexp.MustCompile(`order[#:\s]*([a-z0-9]+)`),
	regexp.MustCompile(`invoice[#:\s]*([a-z0-9]+)`),
	regexp.MustCompile(`ref[#:\s]*([a-z0-9]+)`),
}

var (
	paymentBrandPattern   = regexp.MustCompile(`visa|mastercard|amex|american express|discover`)
	paymentGenericPattern = regexp.MustCompile(`cash|credit|debit`)
	paymentCardSuffixPattern = regexp.MustCompile(`card\s+ending\s+in\s+\d{4}`)
)

var addressPattern = regexp.MustCompile(`\d+\s+\w+\s+(?:st|street|ave|avenue|rd|road|blvd|boulevard|dr|drive|ln|lane)`)

// Shapes used by the merchant filter to reject non-name lines.
var (
	dateLinePattern    = regexp.MustCompile(`^\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)
	numericLinePattern = regexp.MustCompile(`^[\d\s\-./$,]+$`)
	phoneLinePattern   = regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`)
)

var itemLinePattern = regexp.MustCompile(`^(.+?)\s+\$?(\d+\.?\d*)$`)

// firstMatch walks patterns in order and returns the first capture group
// of the first pattern to match anywhere in text, or the whole match for
// patterns without a capture group. Empty string means no pattern matched.
func firstMatch(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if len(m) > 1 {
			return m[1]
		}
		return m[0]
	}
	return ""
}
