package model

import "strings"

// DocumentText holds the per-page text of one PDF in page order. A page
// with no extractable text is an empty string, never a missing entry.
type DocumentText struct {
	Pages []string `json:"pages"`
}

// Text joins all pages with a single newline. This is the canonical
// document text every downstream check reads.
func (d DocumentText) Text() string {
	return strings.Join(d.Pages, "\n")
}

// EmptyPages counts pages that produced no text (scanned images, blank pages).
func (d DocumentText) EmptyPages() int {
	n := 0
	for _, p := range d.Pages {
		if strings.TrimSpace(p) == "" {
			n++
		}
	}
	return n
}

// MeanNPair is a reported mean and sample size found in the same sentence.
// MeanText keeps the literal digits so the reported precision survives
// float conversion ("3.00" has two decimals, 3.0 does not).
type MeanNPair struct {
	Sentence string  `json:"sentence"`
	Mean     float64 `json:"mean"`
	MeanText string  `json:"mean_text"`
	N        int     `json:"n"`
}
