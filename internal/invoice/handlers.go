package invoice

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/freighthook/invoice-extract/internal/extraction"
)

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleParseInvoice accepts a multipart upload (PDF or plain text) and
// returns the stored parse result. Optional form fields: payment_method
// ("Cash" or "Credit"), strict ("true"), vendor (loose profile name).
func (s *Server) handleParseInvoice(w http.ResponseWriter, r *http.Request) {
	maxFormSize := int64(50 << 20) // 50MB
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		corsError(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		corsError(w, "Missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("Error reading uploaded file", "error", err)
		corsError(w, "Error reading file", http.StatusBadRequest)
		return
	}

	method := extraction.PaymentCash
	if r.FormValue("payment_method") == string(extraction.PaymentCredit) {
		method = extraction.PaymentCredit
	}

	inv, err := s.service.ProcessInvoice(ParseRequest{
		Filename:      header.Filename,
		Data:          data,
		ContentType:   header.Header.Get("Content-Type"),
		Vendor:        r.FormValue("vendor"),
		PaymentMethod: method,
		Strict:        r.FormValue("strict") == "true",
	})
	if err != nil {
		var ambiguous *extraction.AmbiguousTotalsError
		if errors.As(err, &ambiguous) {
			setCORSHeaders(w)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]string{"error": ambiguous.Error()})
			return
		}
		slog.Error("Error processing invoice", "filename", header.Filename, "error", err)
		corsError(w, "Error processing invoice", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(inv); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleListInvoices returns all parsed invoices
func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.service.ListInvoices()
	if err != nil {
		slog.Error("Error listing invoices", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, invoices)
}

// handleGetInvoice returns one parsed invoice by ID
func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := s.service.GetInvoice(r.PathValue("id"))
	if err != nil {
		corsError(w, "Invoice not found", http.StatusNotFound)
		return
	}
	writeJSON(w, inv)
}

// handleDeleteInvoice removes a parsed invoice from history
func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteInvoice(r.PathValue("id")); err != nil {
		slog.Error("Error deleting invoice", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetInvoiceConfig returns the logistics-config shape for an invoice
func (s *Server) handleGetInvoiceConfig(w http.ResponseWriter, r *http.Request) {
	inv, err := s.service.GetInvoice(r.PathValue("id"))
	if err != nil {
		corsError(w, "Invoice not found", http.StatusNotFound)
		return
	}
	writeJSON(w, BuildLogisticsConfig(inv.Record))
}

// handleGetInvoiceItemsCSV returns the invoice's lot items as CSV
func (s *Server) handleGetInvoiceItemsCSV(w http.ResponseWriter, r *http.Request) {
	inv, err := s.service.GetInvoice(r.PathValue("id"))
	if err != nil {
		corsError(w, "Invoice not found", http.StatusNotFound)
		return
	}
	data, err := ItemsCSV(inv.Record)
	if err != nil {
		slog.Error("Error building items CSV", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Write(data)
}

// handleListVendors returns the registered vendor profile names
func (s *Server) handleListVendors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.Vendors())
}
