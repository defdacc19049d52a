package extraction

import "regexp"

// Invoice number patterns, tried in order. The numeric-dash form appears on
// the high-volume vendors; the labeled form catches everyone else.
var (
	invoiceNumberDashRE  = regexp.MustCompile(`\b(\d{4}-\d{6}-\d+)\b`)
	invoiceNumberLabelRE = regexp.MustCompile(`(?i)Invoice\s*#\s*:?\s*([A-Za-z0-9\-]+)`)
)

// Invoice date patterns, tried in order.
var (
	dateLabelRE        = regexp.MustCompile(`(?i)\bDate:\s*(\d{2}/\d{2}/\d{4})`)
	invoiceDateLabelRE = regexp.MustCompile(`(?i)Invoice\s+Date:\s*([A-Za-z0-9]+[A-Za-z0-9,/ \-]*?\d{4})`)
	bareDateTimeRE     = regexp.MustCompile(`\b(\d{1,2}-[A-Za-z]{3}-\d{4} \d{1,2}:\d{2})\b`)
)

// ExtractInvoiceNumber returns the first invoice number found in normalized
// text, or "" when none of the known shapes match. First match wins; no
// further scanning.
func ExtractInvoiceNumber(text string) string {
	if m := invoiceNumberDashRE.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := invoiceNumberLabelRE.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// ExtractInvoiceDate returns the first invoice date found in normalized text,
// kept in the form it appeared (downstream consumers want the vendor's own
// formatting for correspondence). Returns "" when no shape matches.
func ExtractInvoiceDate(text string) string {
	if m := dateLabelRE.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := invoiceDateLabelRE.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := bareDateTimeRE.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}
