package extraction

import (
	"strings"
)

// ContactInfo groups the deduplicated contact lists.
type ContactInfo struct {
	Phone []string `json:"phone"`
	Email []string `json:"email"`
}

// InvoiceRecord is the assembled extraction result. It is constructed fresh
// per Parse call and never mutated after return.
type InvoiceRecord struct {
	Vendor          string      `json:"vendor"`
	InvoiceNumber   string      `json:"invoiceNumber,omitempty"`
	InvoiceDate     string      `json:"invoiceDate,omitempty"`
	ContactInfo     ContactInfo `json:"contactInfo"`
	PickupAddresses []Address   `json:"pickupAddresses"`
	PickupDates     []string    `json:"pickupDates"`
	Items           []LotItem   `json:"items"`
	Totals          Totals      `json:"totals"`
	SpecialNotes    []string    `json:"specialNotes"`
}

// Options controls a single parse.
type Options struct {
	Vendor        string        // force a registered vendor profile by (loose) name
	PaymentMethod PaymentMethod // defaults to Cash
	Strict        bool          // fail on ambiguous totals instead of guessing
	Prompt        PromptFunc    // optional interactive payment-method override
}

// Parser runs the full extraction pipeline against a vendor registry. It
// holds no per-parse state; one Parser can serve concurrent calls.
type Parser struct {
	registry *Registry
}

// NewParser creates a Parser backed by the given registry.
func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse extracts a structured record from raw invoice text. Empty or
// whitespace-only input yields an empty-but-valid record, never an error.
// In strict mode an AmbiguousTotalsError from reconciliation propagates.
func (p *Parser) Parse(rawText string, opts Options) (*InvoiceRecord, error) {
	record := &InvoiceRecord{
		Vendor:          UnknownVendor,
		PickupAddresses: make([]Address, 0),
		PickupDates:     make([]string, 0),
		Items:           make([]LotItem, 0),
		SpecialNotes:    make([]string, 0),
		ContactInfo: ContactInfo{
			Phone: make([]string, 0),
			Email: make([]string, 0),
		},
	}
	if strings.TrimSpace(rawText) == "" {
		return record, nil
	}

	profile := p.registry.Identify(rawText)
	if opts.Vendor != "" {
		if forced, ok := p.registry.FindByName(opts.Vendor); ok {
			profile = forced
		}
	}
	record.Vendor = profile.Name

	norm := Normalize(rawText)
	record.InvoiceNumber = ExtractInvoiceNumber(norm)
	record.InvoiceDate = ExtractInvoiceDate(norm)
	record.ContactInfo.Phone = ExtractPhones(norm, profile)
	record.ContactInfo.Email = ExtractEmails(norm, profile)
	record.PickupAddresses = ExtractAddresses(rawText, profile)
	record.PickupDates = ExtractPickupDates(norm, profile)
	record.Items = ExtractLotItems(rawText)

	totals, notes, err := Reconcile(rawText, opts.PaymentMethod, opts.Prompt, opts.Strict)
	if err != nil {
		return nil, err
	}
	record.Totals = totals
	record.SpecialNotes = append(record.SpecialNotes, notes...)

	return record, nil
}
