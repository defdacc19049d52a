package invoice

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/freighthook/invoice-extract/internal/extraction"
	"github.com/freighthook/invoice-extract/internal/pdftext"
)

// IDGenerator generates unique IDs for parsed invoices
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates IDs using UnixNano timestamp
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// ParseRequest describes one document to process.
type ParseRequest struct {
	Filename      string
	Data          []byte
	ContentType   string
	Vendor        string // optional vendor-profile override
	PaymentMethod extraction.PaymentMethod
	Strict        bool
	Prompt        extraction.PromptFunc
}

// Service orchestrates text extraction, parsing, and history persistence.
type Service struct {
	db          DB
	extractor   pdftext.Extractor
	registry    *extraction.Registry
	parser      *extraction.Parser
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, extractor pdftext.Extractor, registry *extraction.Registry) *Service {
	return NewServiceWithDeps(db, extractor, registry, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, extractor pdftext.Extractor, registry *extraction.Registry, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		extractor:   extractor,
		registry:    registry,
		parser:      extraction.NewParser(registry),
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// ProcessInvoice extracts text from the document, parses it into a structured
// record, and saves the result to history. A document with no extractable
// text still produces an empty-but-valid record; strict-mode totals failures
// propagate as extraction.AmbiguousTotalsError.
func (s *Service) ProcessInvoice(req ParseRequest) (*ParsedInvoice, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	text, err := s.extractor.ExtractText(req.Data, req.ContentType)
	if err != nil {
		if !errors.Is(err, pdftext.ErrNoExtractableText) {
			return nil, fmt.Errorf("extracting text: %w", err)
		}
		slog.Warn("No extractable text in document, producing empty record",
			"filename", req.Filename,
			"content_type", req.ContentType,
		)
		text = ""
	}

	record, err := s.parser.Parse(text, extraction.Options{
		Vendor:        req.Vendor,
		PaymentMethod: req.PaymentMethod,
		Strict:        req.Strict,
		Prompt:        req.Prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("parsing invoice: %w", err)
	}

	inv := &ParsedInvoice{
		ID:          id,
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Record:      record,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.db.SaveInvoice(inv); err != nil {
		return nil, fmt.Errorf("saving invoice to database: %w", err)
	}

	return inv, nil
}

// GetInvoice retrieves a parsed invoice by ID
func (s *Service) GetInvoice(id string) (*ParsedInvoice, error) {
	inv, err := s.db.GetInvoice(id)
	if err != nil {
		return nil, fmt.Errorf("getting invoice: %w", err)
	}
	return inv, nil
}

// ListInvoices returns all parsed invoices
func (s *Service) ListInvoices() ([]*ParsedInvoice, error) {
	invoices, err := s.db.ListInvoices()
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	return invoices, nil
}

// DeleteInvoice removes a parsed invoice from history
func (s *Service) DeleteInvoice(id string) error {
	if err := s.db.DeleteInvoice(id); err != nil {
		return fmt.Errorf("deleting invoice from database: %w", err)
	}
	return nil
}

// Vendors returns the registered vendor names in identification order
func (s *Service) Vendors() []string {
	return s.registry.Names()
}
