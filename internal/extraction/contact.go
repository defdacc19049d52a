package extraction

import (
	"fmt"
	"strconv"
	"strings"
)

// ExtractPhones scans for 10-digit phone candidates and keeps the ones whose
// area code and exchange both fall in [200, 999]. PDF-to-text output is full
// of digit runs that look phone-shaped (lot numbers, zip+4, fax headers with
// garbage codes), so the validation step matters more than the scan.
// Results are formatted "(NNN) NNN-NNNN" and deduplicated in first-seen order.
func ExtractPhones(text string, profile *VendorProfile) []string {
	pattern := genericPhoneRE
	if profile != nil && profile.Phone != nil {
		pattern = profile.Phone
	}

	phones := make([]string, 0)
	seen := make(map[string]bool)
	for _, candidate := range pattern.FindAllString(text, -1) {
		formatted, ok := validatePhone(candidate)
		if !ok || seen[formatted] {
			continue
		}
		seen[formatted] = true
		phones = append(phones, formatted)
	}
	return phones
}

// validatePhone strips non-digits, requires exactly 10 digits, and rejects
// area codes and exchanges below 200 (000-199 are not assignable).
func validatePhone(candidate string) (string, bool) {
	var digits strings.Builder
	for _, r := range candidate {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) != 10 {
		return "", false
	}

	area, _ := strconv.Atoi(d[0:3])
	exchange, _ := strconv.Atoi(d[3:6])
	if area < 200 || exchange < 200 {
		return "", false
	}

	return fmt.Sprintf("(%s) %s-%s", d[0:3], d[3:6], d[6:10]), true
}

// ExtractEmails returns all email addresses in the text, lower-cased and
// deduplicated in first-seen order.
func ExtractEmails(text string, profile *VendorProfile) []string {
	pattern := genericEmailRE
	if profile != nil && profile.Email != nil {
		pattern = profile.Email
	}

	emails := make([]string, 0)
	seen := make(map[string]bool)
	for _, match := range pattern.FindAllString(text, -1) {
		email := strings.ToLower(match)
		if seen[email] {
			continue
		}
		seen[email] = true
		emails = append(emails, email)
	}
	return emails
}
