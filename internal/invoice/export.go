package invoice

import (
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/freighthook/invoice-extract/internal/extraction"
)

// LogisticsConfig is the downstream shape handed to pickup automation. The
// single-line email subject and multi-line pickup address come from the
// *first* address/date/contact entries; the full record keeps everything.
type LogisticsConfig struct {
	EmailSubject  string `json:"emailSubject"`
	Vendor        string `json:"vendor"`
	InvoiceNumber string `json:"invoiceNumber,omitempty"`
	PickupAddress string `json:"pickupAddress,omitempty"`
	PickupDate    string `json:"pickupDate,omitempty"`
	ContactPhone  string `json:"contactPhone,omitempty"`
	ContactEmail  string `json:"contactEmail,omitempty"`
	Total         string `json:"total"`
}

// BuildLogisticsConfig derives the logistics-config shape from a record.
func BuildLogisticsConfig(record *extraction.InvoiceRecord) LogisticsConfig {
	cfg := LogisticsConfig{
		Vendor:        record.Vendor,
		InvoiceNumber: record.InvoiceNumber,
		Total:         record.Totals.Total.StringFixed(2),
	}

	if record.InvoiceNumber != "" {
		cfg.EmailSubject = fmt.Sprintf("Pickup Request - %s - Invoice %s", record.Vendor, record.InvoiceNumber)
	} else {
		cfg.EmailSubject = fmt.Sprintf("Pickup Request - %s", record.Vendor)
	}

	if len(record.PickupAddresses) > 0 {
		addr := record.PickupAddresses[0]
		lines := []string{addr.Street}
		if addr.Address2 != "" {
			lines = append(lines, addr.Address2)
		}
		lines = append(lines, fmt.Sprintf("%s, %s %s", addr.City, addr.State, addr.Zip))
		cfg.PickupAddress = strings.Join(lines, "\n")
	}
	if len(record.PickupDates) > 0 {
		cfg.PickupDate = record.PickupDates[0]
	}
	if len(record.ContactInfo.Phone) > 0 {
		cfg.ContactPhone = record.ContactInfo.Phone[0]
	}
	if len(record.ContactInfo.Email) > 0 {
		cfg.ContactEmail = record.ContactInfo.Email[0]
	}

	return cfg
}

// Display renders a record as human-readable text for terminal output.
func Display(record *extraction.InvoiceRecord) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Vendor:         %s\n", record.Vendor)
	if record.InvoiceNumber != "" {
		fmt.Fprintf(&sb, "Invoice #:      %s\n", record.InvoiceNumber)
	}
	if record.InvoiceDate != "" {
		fmt.Fprintf(&sb, "Invoice Date:   %s\n", record.InvoiceDate)
	}
	for _, phone := range record.ContactInfo.Phone {
		fmt.Fprintf(&sb, "Phone:          %s\n", phone)
	}
	for _, email := range record.ContactInfo.Email {
		fmt.Fprintf(&sb, "Email:          %s\n", email)
	}
	for _, addr := range record.PickupAddresses {
		fmt.Fprintf(&sb, "Pickup Address: %s\n", addr.OneLine)
		if addr.Address2 != "" {
			fmt.Fprintf(&sb, "                (%s)\n", addr.Address2)
		}
	}
	for _, date := range record.PickupDates {
		fmt.Fprintf(&sb, "Pickup Dates:   %s\n", date)
	}

	if len(record.Items) > 0 {
		fmt.Fprintf(&sb, "\nItems (%d):\n", len(record.Items))
		for _, item := range record.Items {
			fmt.Fprintf(&sb, "  Lot %-6s %s\n", item.LotNumber, item.Description)
		}
	}

	sb.WriteString("\nTotals:\n")
	writeAmount := func(label string, d decimal.Decimal) {
		fmt.Fprintf(&sb, "  %-16s $%s\n", label, d.StringFixed(2))
	}
	if record.Totals.Subtotal != nil {
		writeAmount("Subtotal:", *record.Totals.Subtotal)
	}
	if record.Totals.Tax != nil {
		writeAmount("Tax:", *record.Totals.Tax)
	}
	if record.Totals.Premium != nil {
		writeAmount("Premium:", *record.Totals.Premium)
	}
	if record.Totals.ConvenienceFee != nil {
		writeAmount("Convenience Fee:", *record.Totals.ConvenienceFee)
	}
	if record.Totals.CashTotal != nil {
		writeAmount("Cash Total:", *record.Totals.CashTotal)
	}
	if record.Totals.CreditTotal != nil {
		writeAmount("Credit Total:", *record.Totals.CreditTotal)
	}
	writeAmount("Total:", record.Totals.Total)

	if len(record.SpecialNotes) > 0 {
		sb.WriteString("\nNotes:\n")
		for _, note := range record.SpecialNotes {
			fmt.Fprintf(&sb, "  - %s\n", note)
		}
	}

	return sb.String()
}

// csvItem is the CSV row shape for lot-item export.
type csvItem struct {
	LotNumber   string `csv:"lot_number"`
	Description string `csv:"description"`
}

// ItemsCSV serializes the record's lot items as CSV.
func ItemsCSV(record *extraction.InvoiceRecord) ([]byte, error) {
	rows := make([]csvItem, 0, len(record.Items))
	for _, item := range record.Items {
		rows = append(rows, csvItem{LotNumber: item.LotNumber, Description: item.Description})
	}
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("marshaling items csv: %w", err)
	}
	return data, nil
}
