package phone

import "strings"

// NormalizeCEP strips a postal code to digits and returns the 8-digit CEP.
// Longer inputs keep the last 8 digits (extra prefixes happen in provider
// exports); shorter inputs are invalid and return "".
func NormalizeCEP(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	digits := Digits(value)
	switch {
	case len(digits) == 8:
		return digits
	case len(digits) > 8:
		return digits[len(digits)-8:]
	default:
		return ""
	}
}

// IsValidCPF reports whether the value holds an 11-digit CPF. Only the
// digit count is checked; check digits are the CRM's problem.
func IsValidCPF(value string) bool {
	return len(Digits(value)) == 11
}
