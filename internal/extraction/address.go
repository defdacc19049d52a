package extraction

import (
	"fmt"
	"regexp"
	"strings"
)

// Address is a structured pickup address. OneLine is always
// "{street}, {city} {state} {zip}"; Address2 holds parenthetical content
// stripped from the raw street (plant/suite designations).
type Address struct {
	Street   string `json:"street"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	OneLine  string `json:"oneLine"`
}

// key is the deduplication identity: two addresses are equal iff
// (oneLine, address2) match.
func (a Address) key() string {
	return a.OneLine + "|" + a.Address2
}

var parentheticalRE = regexp.MustCompile(`\s*\(([^)]*)\)`)

// BuildAddress cleans the raw captured segments into an Address. Parenthetical
// content in the street becomes Address2 and is removed from Street.
func BuildAddress(street, city, state, zip string) Address {
	street = Normalize(street)
	city = Normalize(city)

	addr2 := ""
	if m := parentheticalRE.FindStringSubmatch(street); m != nil {
		addr2 = strings.TrimSpace(m[1])
		street = Normalize(parentheticalRE.ReplaceAllString(street, " "))
	}

	a := Address{
		Street:   street,
		Address2: addr2,
		City:     city,
		State:    strings.ToUpper(strings.TrimSpace(state)),
		Zip:      strings.TrimSpace(zip),
	}
	a.OneLine = fmt.Sprintf("%s, %s %s %s", a.Street, a.City, a.State, a.Zip)
	return a
}

// The two sibling "Location:" patterns. PDF-to-text conversion drops the
// comma after the street often enough that both forms show up in the wild.
// The comma form captures street, city, state, zip directly; the space form
// captures one street+city run ahead of the state and zip, split afterwards
// by splitStreetCity.
var (
	locationCommaRE = regexp.MustCompile(`(?i:location:)[^\S\n]*([0-9][^,\n]*?),\s*([A-Za-z .]+?),?\s+([A-Z]{2})\s+(\d{5})\b`)
	locationSpaceRE = regexp.MustCompile(`(?i:location:)[^\S\n]*([0-9][\w .\-/()#]*?)\s+([A-Z]{2})\s+(\d{5})\b`)
)

// streetSuffixes are thoroughfare tokens that end a street. When the
// space-delimited form leaves street and city in one run, everything after
// the last suffix is the city, so "Main St San Jose" splits into a two-word
// city. Directionals are deliberately absent ("West Chester" is a city).
var streetSuffixes = map[string]bool{
	"st": true, "street": true,
	"ave": true, "avenue": true,
	"dr": true, "drive": true,
	"rd": true, "road": true,
	"blvd": true, "boulevard": true,
	"ln": true, "lane": true,
	"ct": true, "court": true,
	"cir": true, "circle": true,
	"hwy": true, "highway": true,
	"pkwy": true, "parkway": true,
	"pl": true, "place": true,
	"way": true, "pike": true,
}

// splitStreetCity divides a street+city run on the last street-suffix token.
// Without a suffix the final word is taken as the city.
func splitStreetCity(run string) (street, city string) {
	tokens := strings.Fields(run)
	if len(tokens) < 2 {
		return run, ""
	}
	split := len(tokens) - 1
	for i := len(tokens) - 2; i > 0; i-- {
		word := strings.ToLower(strings.TrimSuffix(tokens[i], "."))
		if streetSuffixes[word] {
			split = i + 1
			break
		}
	}
	return strings.Join(tokens[:split], " "), strings.Join(tokens[split:], " ")
}

// ExtractAddresses merges two strategies: the vendor's full-address pattern
// (when the profile has one) and the generic "Location:" label scans. All run
// against raw text so the address builder sees the original punctuation.
// Results are deduplicated by (oneLine, address2).
func ExtractAddresses(rawText string, profile *VendorProfile) []Address {
	addresses := make([]Address, 0)
	seen := make(map[string]bool)
	add := func(a Address) {
		if seen[a.key()] {
			return
		}
		seen[a.key()] = true
		addresses = append(addresses, a)
	}

	if profile != nil && profile.Address != nil {
		for _, m := range profile.Address.FindAllStringSubmatch(rawText, -1) {
			if len(m) < 5 {
				continue
			}
			add(BuildAddress(m[1], m[2], m[3], m[4]))
		}
	}
	for _, m := range locationCommaRE.FindAllStringSubmatch(rawText, -1) {
		add(BuildAddress(m[1], m[2], m[3], m[4]))
	}
	for _, m := range locationSpaceRE.FindAllStringSubmatch(rawText, -1) {
		street, city := splitStreetCity(m[1])
		if city == "" {
			continue
		}
		add(BuildAddress(street, city, m[2], m[3]))
	}
	return addresses
}
