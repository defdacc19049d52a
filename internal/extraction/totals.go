package extraction

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentMethod selects which resolved total becomes authoritative.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "Cash"
	PaymentCredit PaymentMethod = "Credit"
)

// PromptFunc lets a caller interactively pick the payment method. It is only
// consulted when the document carries both a cash-like and a credit-like
// total; returning ok=false leaves the caller's preference in place. The core
// never performs terminal I/O itself.
type PromptFunc func() (method PaymentMethod, ok bool)

// Totals is the reconciled monetary breakdown. Optional fields are nil when
// the document never yielded them; Total is always set (zero for an empty
// document).
type Totals struct {
	Subtotal       *decimal.Decimal `json:"subtotal"`
	Tax            *decimal.Decimal `json:"tax"`
	Premium        *decimal.Decimal `json:"premium"`
	ConvenienceFee *decimal.Decimal `json:"convenienceFee"`
	CashTotal      *decimal.Decimal `json:"cashTotal"`
	CreditTotal    *decimal.Decimal `json:"creditTotal"`
	Total          decimal.Decimal  `json:"total"`
}

// AmbiguousTotalsError is returned in strict mode when the captured totals
// conflict or are too incomplete to trust.
type AmbiguousTotalsError struct {
	Label    string
	Captured decimal.Decimal
	Expected decimal.Decimal
	Reason   string
}

// ReasonAmbiguousLayout marks the column-alignment failure where the cash
// total cell actually holds the convenience fee.
const ReasonAmbiguousLayout = "ambiguous layout: cash total matches convenience fee"

func (e *AmbiguousTotalsError) Error() string {
	if e.Captured.IsZero() && e.Expected.IsZero() {
		return fmt.Sprintf("totals ambiguous (%s): %s", e.Label, e.Reason)
	}
	return fmt.Sprintf("totals ambiguous (%s): %s: captured $%s, expected $%s",
		e.Label, e.Reason, e.Captured.StringFixed(2), e.Expected.StringFixed(2))
}

// Labels searched for amounts. Searches are case-insensitive.
const (
	labelSubtotal       = "SubTotal:"
	labelCashTotal      = "Cash Total Due:"
	labelConvenienceFee = "Convenience Fee"
	labelCreditTotal    = "Credit Total Due:"
	labelGrandTotal     = "Grand Total:"
	labelTax            = "Tax:"
	labelPremium        = "Premium"
)

// amountWindow bounds how far past a label the amount scan looks. Scanning
// the whole remaining text risks matching an amount from an unrelated column
// that drifted there during PDF-to-text conversion.
const amountWindow = 80

// Amounts appear both comma-grouped ($1,234.56) and as bare digit runs
// ($1234.56); cents are always two digits.
var amountRE = regexp.MustCompile(`\$\s?((?:\d{1,3}(?:,\d{3})+|\d+)\.\d{2})`)

// findLabeledAmount locates label (case-insensitively) in the lower-cased
// normalized text and returns the first dollar amount within amountWindow
// bytes after it, or nil. Searching and slicing the same lowered string keeps
// offsets stable even where lower-casing changes byte lengths; amount
// characters are case-invariant.
func findLabeledAmount(lowerNorm, label string) *decimal.Decimal {
	lowerLabel := strings.ToLower(label)
	idx := strings.Index(lowerNorm, lowerLabel)
	if idx == -1 {
		return nil
	}
	start := idx + len(lowerLabel)
	end := start + amountWindow
	if end > len(lowerNorm) {
		end = len(lowerNorm)
	}
	m := amountRE.FindStringSubmatch(lowerNorm[start:end])
	if m == nil {
		return nil
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return nil
	}
	return &amount
}

var centEpsilon = decimal.New(1, -2)

// approxEqual compares money values with a one-cent epsilon, tolerating
// formatting rounding. Exact equality is never used for amounts.
func approxEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(centEpsilon)
}

func dup(d decimal.Decimal) *decimal.Decimal {
	return &d
}

type capturedTotals struct {
	subtotal *decimal.Decimal
	tax      *decimal.Decimal
	premium  *decimal.Decimal
	fee      *decimal.Decimal
	cash     *decimal.Decimal
	credit   *decimal.Decimal
	grand    *decimal.Decimal
}

func captureTotals(norm string) capturedTotals {
	lower := strings.ToLower(norm)
	return capturedTotals{
		subtotal: findLabeledAmount(lower, labelSubtotal),
		tax:      findLabeledAmount(lower, labelTax),
		premium:  findLabeledAmount(lower, labelPremium),
		fee:      findLabeledAmount(lower, labelConvenienceFee),
		cash:     findLabeledAmount(lower, labelCashTotal),
		credit:   findLabeledAmount(lower, labelCreditTotal),
		grand:    findLabeledAmount(lower, labelGrandTotal),
	}
}

// Reconcile resolves a single authoritative total from the raw invoice text.
// Relationship rules: cash = subtotal, credit = subtotal + convenience fee.
// In strict mode conflicting or missing data fails with AmbiguousTotalsError;
// otherwise anomalies are auto-corrected and reported in the returned notes.
func Reconcile(rawText string, preference PaymentMethod, prompt PromptFunc, strict bool) (Totals, []string, error) {
	captured := captureTotals(Normalize(rawText))

	method := preference
	if method != PaymentCredit {
		method = PaymentCash
	}
	cashLike := captured.cash != nil || captured.subtotal != nil
	creditLike := captured.credit != nil || (captured.subtotal != nil && captured.fee != nil)
	if prompt != nil && cashLike && creditLike {
		if picked, ok := prompt(); ok {
			method = picked
		}
	}

	if strict {
		if err := validateStrict(captured, method); err != nil {
			return Totals{}, nil, err
		}
	}

	t := Totals{
		Subtotal:       captured.subtotal,
		Tax:            captured.tax,
		Premium:        captured.premium,
		ConvenienceFee: captured.fee,
	}
	var notes []string
	warn := func(msg string, args ...any) {
		slog.Warn(msg, args...)
		notes = append(notes, msg)
	}

	cash := captured.cash
	if captured.subtotal != nil {
		switch {
		case cash == nil:
			cash = dup(*captured.subtotal)
		case captured.fee != nil && approxEqual(*cash, *captured.fee):
			warn("captured cash total equals convenience fee, using subtotal",
				"captured", cash.StringFixed(2), "subtotal", captured.subtotal.StringFixed(2))
			cash = dup(*captured.subtotal)
		case cash.LessThan(*captured.subtotal):
			warn("captured cash total below subtotal, using subtotal",
				"captured", cash.StringFixed(2), "subtotal", captured.subtotal.StringFixed(2))
			cash = dup(*captured.subtotal)
		}
	}

	// The computed credit total always overrides a captured one when a fee is
	// present: label-window capture is less reliable than the arithmetic.
	credit := captured.credit
	if captured.fee != nil && captured.subtotal != nil {
		credit = dup(captured.subtotal.Add(*captured.fee))
	}

	if cash == nil && credit == nil && captured.fee == nil && captured.grand != nil {
		cash = dup(*captured.grand)
	}

	var total decimal.Decimal
	if method == PaymentCredit {
		switch {
		case credit != nil:
			total = *credit
		case cash != nil:
			total = *cash
		}
	} else if cash != nil {
		total = *cash
	}

	if !strict && captured.subtotal != nil && total.LessThan(*captured.subtotal) {
		warn("resolved total below subtotal, clamping to subtotal",
			"total", total.StringFixed(2), "subtotal", captured.subtotal.StringFixed(2))
		total = *captured.subtotal
		cash = dup(*captured.subtotal)
	}

	t.CashTotal = cash
	t.CreditTotal = credit
	t.Total = total
	return t, notes, nil
}

func validateStrict(captured capturedTotals, method PaymentMethod) error {
	if captured.subtotal == nil {
		return &AmbiguousTotalsError{Label: labelSubtotal, Reason: "subtotal not found"}
	}

	if method == PaymentCredit {
		if captured.fee != nil {
			computed := captured.subtotal.Add(*captured.fee)
			if captured.credit != nil && !approxEqual(computed, *captured.credit) {
				return &AmbiguousTotalsError{
					Label:    labelCreditTotal,
					Captured: *captured.credit,
					Expected: computed,
					Reason:   "captured credit total disagrees with subtotal plus convenience fee",
				}
			}
			return nil
		}
		if captured.credit == nil {
			return &AmbiguousTotalsError{
				Label:  labelCreditTotal,
				Reason: "no credit total captured and no convenience fee to derive one",
			}
		}
		return nil
	}

	if captured.cash != nil {
		if captured.fee != nil && approxEqual(*captured.cash, *captured.fee) {
			return &AmbiguousTotalsError{
				Label:    labelCashTotal,
				Captured: *captured.cash,
				Expected: *captured.subtotal,
				Reason:   ReasonAmbiguousLayout,
			}
		}
		if !approxEqual(*captured.cash, *captured.subtotal) {
			return &AmbiguousTotalsError{
				Label:    labelCashTotal,
				Captured: *captured.cash,
				Expected: *captured.subtotal,
				Reason:   "captured cash total disagrees with subtotal",
			}
		}
	}
	return nil
}
