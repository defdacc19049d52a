package extraction

import (
	"fmt"
	"log/slog"
	"regexp"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// VendorProfile holds the identification and field-extraction patterns for
// one auction house's invoice layout. Profiles are immutable once loaded.
type VendorProfile struct {
	Name        string
	Identifier  *regexp.Regexp
	Phone       *regexp.Regexp
	Email       *regexp.Regexp
	Address     *regexp.Regexp // must capture street, city, state, zip
	PickupDates *regexp.Regexp
}

// StoredProfile is the JSON shape a persisted pattern store returns.
// Empty field patterns fall back to the generic ones.
type StoredProfile struct {
	Name        string `json:"name"`
	Identifier  string `json:"identifier"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address,omitempty"`
	PickupDates string `json:"pickup_dates,omitempty"`
}

// ProfileSource supplies persisted vendor profiles that overlay the built-in
// seeds. Implementations live outside the core (e.g. a bbolt bucket).
type ProfileSource interface {
	LoadProfiles() ([]StoredProfile, error)
}

// UnknownVendor is the name reported when no identifier pattern matches.
const UnknownVendor = "Unknown"

// fastPathVendor is checked before the general registry scan. It is by far
// the highest-volume vendor, and its invoices occasionally garble the header
// enough that the stricter identifier regex misses.
const fastPathVendor = "Cincinnati Industrial Auctioneers"

var fastPathRE = regexp.MustCompile(`(?i)cincinnati\s+industrial`)

// Generic field patterns used by the Unknown profile and as fallbacks for
// seeded vendors that only define an identifier.
var (
	genericPhoneRE = regexp.MustCompile(`\(?\d{3}\)?[\s.\-]\d{3}[\s.\-]?\d{4}`)
	genericEmailRE = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
)

// seedProfiles are the built-in vendors, scanned in order. First identifier
// match wins, so more specific vendors must come first.
var seedProfiles = []StoredProfile{
	{
		Name:       fastPathVendor,
		Identifier: `(?i)cincinnati\s+industrial\s+auctioneers`,
		Address:    `(?i)Location:\s*(\d[\w .\-/()#]*?),\s*([A-Za-z .]+?),?\s+([A-Z]{2})\s+(\d{5})`,
	},
	{
		Name:       "Maas Companies",
		Identifier: `(?i)maas\s+companies`,
	},
	{
		Name:       "BidSpotter",
		Identifier: `(?i)bidspotter(?:\.com)?`,
	},
	{
		Name:       "Aaron Industrial Auctions",
		Identifier: `(?i)aaron\s+industrial`,
	},
}

// Registry maps invoice text to a VendorProfile. Profiles load once, lazily,
// and are read-only afterwards, so a single Registry is safe to share.
type Registry struct {
	source ProfileSource

	once     sync.Once
	profiles []*VendorProfile
	unknown  *VendorProfile
}

// NewRegistry creates a Registry. source may be nil, in which case only the
// built-in seed profiles are used.
func NewRegistry(source ProfileSource) *Registry {
	return &Registry{source: source}
}

// load compiles the seed profiles plus any persisted overrides. A persisted
// profile with the same name as a seed replaces it in place, preserving scan
// order; new names append after the seeds.
func (r *Registry) load() {
	r.unknown = &VendorProfile{
		Name:  UnknownVendor,
		Phone: genericPhoneRE,
		Email: genericEmailRE,
	}

	stored := make([]StoredProfile, len(seedProfiles))
	copy(stored, seedProfiles)

	if r.source != nil {
		overrides, err := r.source.LoadProfiles()
		if err != nil {
			slog.Warn("Failed to load persisted vendor patterns, using seeds only", "error", err)
		} else {
			for _, o := range overrides {
				replaced := false
				for i := range stored {
					if stored[i].Name == o.Name {
						stored[i] = o
						replaced = true
						break
					}
				}
				if !replaced {
					stored = append(stored, o)
				}
			}
		}
	}

	for _, s := range stored {
		p, err := compileProfile(s)
		if err != nil {
			slog.Warn("Skipping vendor profile with invalid pattern", "vendor", s.Name, "error", err)
			continue
		}
		r.profiles = append(r.profiles, p)
	}
}

func compileProfile(s StoredProfile) (*VendorProfile, error) {
	id, err := regexp.Compile(s.Identifier)
	if err != nil {
		return nil, fmt.Errorf("compiling identifier: %w", err)
	}
	p := &VendorProfile{
		Name:       s.Name,
		Identifier: id,
		Phone:      genericPhoneRE,
		Email:      genericEmailRE,
	}
	if s.Phone != "" {
		if p.Phone, err = regexp.Compile(s.Phone); err != nil {
			return nil, fmt.Errorf("compiling phone pattern: %w", err)
		}
	}
	if s.Email != "" {
		if p.Email, err = regexp.Compile(s.Email); err != nil {
			return nil, fmt.Errorf("compiling email pattern: %w", err)
		}
	}
	if s.Address != "" {
		if p.Address, err = regexp.Compile(s.Address); err != nil {
			return nil, fmt.Errorf("compiling address pattern: %w", err)
		}
	}
	if s.PickupDates != "" {
		if p.PickupDates, err = regexp.Compile(s.PickupDates); err != nil {
			return nil, fmt.Errorf("compiling pickup dates pattern: %w", err)
		}
	}
	return p, nil
}

// Identify returns the profile for the first vendor whose identifier matches
// the text, after the high-volume fast path. Falls back to the Unknown
// profile. Safe to call repeatedly and from multiple goroutines.
func (r *Registry) Identify(text string) *VendorProfile {
	r.once.Do(r.load)

	if fastPathRE.MatchString(text) {
		for _, p := range r.profiles {
			if p.Name == fastPathVendor {
				return p
			}
		}
	}
	for _, p := range r.profiles {
		if p.Identifier.MatchString(text) {
			return p
		}
	}
	return r.unknown
}

// Names returns the registered vendor names in scan order.
func (r *Registry) Names() []string {
	r.once.Do(r.load)
	names := make([]string, 0, len(r.profiles))
	for _, p := range r.profiles {
		names = append(names, p.Name)
	}
	return names
}

// FindByName resolves a user-supplied vendor name to a registered profile,
// tolerating partial or loosely spelled input.
func (r *Registry) FindByName(name string) (*VendorProfile, bool) {
	r.once.Do(r.load)

	ranks := fuzzy.RankFindNormalizedFold(name, r.names())
	if len(ranks) == 0 {
		return nil, false
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance {
			best = rank
		}
	}
	return r.profiles[best.OriginalIndex], true
}

func (r *Registry) names() []string {
	names := make([]string, len(r.profiles))
	for i, p := range r.profiles {
		names[i] = p.Name
	}
	return names
}
