package heredity

import (
	"bytes"

	"github.com/csimplestring/go-csv/detector"
)

// Delimiters that a pedigree file may use, in order of preference. Anything
// else the detector comes up with is ignored.
var candidateDelimiters = []rune{',', '\t', ';', '|'}

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in sample, assuming a CSV-like file. sample should hold at least the
// header line.
func DetermineDelimiter(sample []byte) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(bytes.NewReader(sample), '"')

	for _, v := range delimiters {
		if len(v) == 0 {
			continue
		}
		if isCandidateDelimiter(rune(v[0])) {
			return rune(v[0])
		}
	}

	// The detector wants several lines to vote on. A header-only file can
	// still be resolved by counting.
	best, bestCount := ',', 0
	for _, delim := range candidateDelimiters {
		if n := bytes.Count(sample, []byte(string(delim))); n > bestCount {
			best, bestCount = delim, n
		}
	}

	return best
}

func isCandidateDelimiter(r rune) bool {
	for _, v := range candidateDelimiters {
		if v == r {
			return true
		}
	}
	return false
}
