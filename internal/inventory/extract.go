package inventory

import (
	"regexp"
	"strconv"
)

// extractor pulls one optional numeric value out of a free-text note.
// Extractors never fail: a non-match or a bad capture simply reports !ok so
// the next extractor in the chain can run.
type extractor func(note string) (int64, bool)

var (
	reSold        = regexp.MustCompile(`(?i)Sold\s*:\s*(\d+)`)
	reTicketsSold = regexp.MustCompile(`(?i)Tickets\s*Sold\s*:\s*(\d+)`)
	reTickets     = regexp.MustCompile(`(?i)Tickets:\s*(\d+)`)
	reRupeePrice  = regexp.MustCompile(`₹\s*(\d+)`)
	reRsPrice     = regexp.MustCompile(`(?i)Rs\.?\s*(\d+)`)
)

func regexExtractor(re *regexp.Regexp) extractor {
	return func(note string) (int64, bool) {
		m := re.FindStringSubmatch(note)
		if m == nil {
			return 0, false
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
}

// extractFirst runs the chain in order and returns the first hit, or 0.
// Precedence lives in the order of the chain, not in inline conditionals.
func extractFirst(note string, chain ...extractor) int64 {
	for _, ex := range chain {
		if v, ok := ex(note); ok {
			return v
		}
	}
	return 0
}

func soldFromNote(note string) int64 {
	return extractFirst(note,
		regexExtractor(reSold),
		regexExtractor(reTicketsSold),
	)
}

func capacityFromNote(note string) int64 {
	return extractFirst(note, regexExtractor(reTickets))
}

func ticketPriceFromNote(note string) int64 {
	return extractFirst(note,
		regexExtractor(reRupeePrice),
		regexExtractor(reRsPrice),
	)
}
