package extraction

import (
	"regexp"
	"strings"
	"unicode"
)

// LotItem is one auction lot line: a lot number and its description.
type LotItem struct {
	LotNumber   string `json:"lotNumber"`
	Description string `json:"description"`
}

const (
	minItemDescLen = 15
	maxItemDescLen = 500

	minContinuationLen = 10
	maxContinuationLen = 200
)

// lotLineRE matches "<2-5 digit lot> <4-digit code> <description>".
var lotLineRE = regexp.MustCompile(`^\s*(\d{2,5})\s+(\d{4})\s+(.+)$`)

// nonItemPrefixes are description openings that mean the line is really a
// header or footer that happened to start with lot-shaped digits.
var nonItemPrefixes = []string{
	"invoice",
	"page",
	"date",
	"location",
	"sold to",
	"bill to",
}

func looksLikeHeader(desc string) bool {
	lower := strings.ToLower(desc)
	for _, prefix := range nonItemPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// continuationStopPrefixes mark boilerplate that trails the item section:
// labels, totals rows, load-out scheduling, payment terms. A line opening
// with one of these is never a wrapped description.
var continuationStopPrefixes = []string{
	"location",
	"invoice",
	"page",
	"subtotal",
	"cash total",
	"credit total",
	"convenience fee",
	"grand total",
	"load out",
	"loadout",
	"payment must",
}

func looksLikeBoilerplate(line string) bool {
	lower := strings.ToLower(line)
	for _, prefix := range continuationStopPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// ExtractLotItems scans raw text line by line. A lot-shaped line with a
// plausible description starts a new item; duplicate lot numbers keep the
// first occurrence. A following line that starts with an uppercase letter and
// is neither lot-shaped nor boilerplate is treated as a wrapped description
// and appended to the most recently started item.
func ExtractLotItems(rawText string) []LotItem {
	items := make([]LotItem, 0)
	seen := make(map[string]bool)
	current := -1

	for _, line := range strings.Split(rawText, "\n") {
		if m := lotLineRE.FindStringSubmatch(line); m != nil {
			desc := strings.TrimSpace(strings.TrimPrefix(Normalize(m[3]), "-"))
			if len(desc) < minItemDescLen || len(desc) > maxItemDescLen || looksLikeHeader(desc) {
				continue
			}
			if seen[m[1]] {
				continue
			}
			seen[m[1]] = true
			items = append(items, LotItem{LotNumber: m[1], Description: desc})
			current = len(items) - 1
			continue
		}

		if current < 0 {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if len(trimmed) <= minContinuationLen || len(trimmed) >= maxContinuationLen {
			continue
		}
		first := []rune(trimmed)[0]
		if !unicode.IsUpper(first) {
			continue
		}
		if looksLikeBoilerplate(trimmed) {
			continue
		}
		items[current].Description += " " + Normalize(trimmed)
	}
	return items
}

// Pickup date phrase patterns: the materials load-out window, the
// racking/equipment variant, and the payment deadline.
var pickupDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)load\s?out times? for (?:all )?materials?[^.]*?[A-Za-z]+day,? \d{1,2}/\d{1,2} thru [A-Za-z]+day,? \d{1,2}/\d{1,2}`),
	regexp.MustCompile(`(?i)load\s?out times? for (?:all )?(?:racking|equipment)[^.]*?[A-Za-z]+day,? \d{1,2}/\d{1,2} thru [A-Za-z]+day,? \d{1,2}/\d{1,2}`),
	regexp.MustCompile(`(?i)payment must be received by [A-Za-z]+day,? \d{1,2}/\d{1,2}/\d{2,4} (?:at|by) \d{1,2}(?::\d{2})?\s?[ap]m`),
}

// ExtractPickupDates collects each distinct matched phrase from normalized
// text. Uniqueness is the only guarantee; order is first-seen so repeated
// parses stay byte-identical.
func ExtractPickupDates(text string, profile *VendorProfile) []string {
	patterns := pickupDatePatterns
	if profile != nil && profile.PickupDates != nil {
		patterns = append([]*regexp.Regexp{profile.PickupDates}, patterns...)
	}

	phrases := make([]string, 0)
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		for _, m := range pattern.FindAllString(text, -1) {
			phrase := Normalize(m)
			if seen[phrase] {
				continue
			}
			seen[phrase] = true
			phrases = append(phrases, phrase)
		}
	}
	return phrases
}
