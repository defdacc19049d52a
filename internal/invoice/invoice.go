package invoice

import (
	"time"

	"github.com/freighthook/invoice-extract/internal/extraction"
)

// ParsedInvoice wraps an extraction result with its history metadata.
type ParsedInvoice struct {
	ID          string                    `json:"id"`
	Filename    string                    `json:"filename"`
	ContentType string                    `json:"content_type"`
	Record      *extraction.InvoiceRecord `json:"record"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}
