package logger

import (
	"regexp"
	"strings"
)

// RedactPhone masks a phone number for safe logging.
// "+5567981783902" → "+55679*****02"
// Values with fewer than 5 digits are fully masked.
func RedactPhone(phone string) string {
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 5 {
		return "***"
	}
	var b strings.Builder
	seen := 0
	for _, r := range phone {
		isDigit := r >= '0' && r <= '9'
		if isDigit {
			seen++
		}
		// Keep the leading DDI+DDD digits and the last two, mask the middle.
		if !isDigit || seen <= 5 || seen > digits-2 {
			b.WriteRune(r)
		} else {
			b.WriteRune('*')
		}
	}
	return b.String()
}

var phoneRegex = regexp.MustCompile(`\+?\d[\d ()-]{8,}\d`)

func redactPIIValue(key, val string) string {
	key = strings.ToLower(key)
	// Redact phone fields
	if strings.Contains(key, "phone") || strings.Contains(key, "whats") ||
		strings.Contains(key, "celular") || strings.Contains(key, "fone") {
		return RedactPhone(val)
	}
	// Redact any embedded phone numbers in generic fields
	return phoneRegex.ReplaceAllStringFunc(val, RedactPhone)
}
