// Package phone cleans, validates and formats Brazilian phone numbers for
// WhatsApp outreach. Two cleaning policies coexist: the strict policy
// truncates to the last 11 digits and is the right identity for
// deduplication keys; the preserving policy keeps every digit and is the
// right input for outbound messaging, where truncation could destroy a
// country code.
package phone

import "strings"

// DefaultCountryCode is the DDI prepended to numbers that lack one.
const DefaultCountryCode = "+55"

// Status describes the outcome of FormatForMessaging. The values are the
// operator-facing labels carried into generated spreadsheets.
type Status string

const (
	StatusEmpty     Status = "VAZIO"
	StatusOK        Status = "OK"
	StatusOKNoCode  Status = "OK (Sem +55)"
	StatusCorrected Status = "CORRIGIDO (+55)"
	StatusUncertain Status = "INCERTO"
)

// Digits strips a value to its digits. A trailing ".0" is removed first:
// spreadsheet engines render integer phone cells as floats ("67981783902.0")
// and the stray 0 would otherwise corrupt the last real digit.
func Digits(value string) string {
	s := strings.TrimSpace(value)
	s = strings.TrimSuffix(s, ".0")
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}

// CleanStrict11 normalizes a raw value to a dedup-ready digit string:
// 11 or more digits keep the last 11 (DDD + mobile), exactly 10 digits are
// kept whole (DDD + pre-ninth-digit number), anything shorter is invalid
// and returns "".
func CleanStrict11(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	digits := Digits(value)
	switch {
	case len(digits) >= 11:
		return digits[len(digits)-11:]
	case len(digits) == 10:
		return digits
	default:
		return ""
	}
}

// CleanPreserveFull returns every digit of the value when there are at
// least 10 (enough for DDD + number), "" otherwise. No truncation: used
// when the full DDI-qualified number must survive verbatim.
func CleanPreserveFull(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	digits := Digits(value)
	if len(digits) >= 10 {
		return digits
	}
	return ""
}

// FormatForMessaging produces a WhatsApp Business ready number.
// See FormatForMessagingCode for the rules; the default country code is
// +55.
func FormatForMessaging(value string, includeCountryCode bool) (string, Status) {
	return FormatForMessagingCode(value, DefaultCountryCode, includeCountryCode)
}

// FormatForMessagingCode formats a raw phone value, qualifying it with the
// given country code when requested. An empty or digit-free country code
// falls back to the default.
//
// With includeCountryCode=false the result is a bare national number: a
// leading DDI is stripped only when the total length proves it is one
// (code digits + 10 or more). With includeCountryCode=true the number is
// returned "+<code>..." — prefixed as-is when the DDI is already present,
// prepended when the length is a clean 10/11 national number (CORRIGIDO),
// and best-effort otherwise (INCERTO).
func FormatForMessagingCode(value, countryCode string, includeCountryCode bool) (string, Status) {
	if strings.TrimSpace(value) == "" {
		return "", StatusEmpty
	}

	code := Digits(countryCode)
	if code == "" {
		countryCode = DefaultCountryCode
		code = Digits(countryCode)
	}

	cleaned := CleanPreserveFull(value)
	if cleaned == "" {
		cleaned = Digits(value)
		if cleaned == "" {
			return "", StatusEmpty
		}
	}

	n := len(cleaned)
	if n < 10 {
		// Too short to contain DDD + number
		return "", StatusEmpty
	}

	hasCode := strings.HasPrefix(cleaned, code) && n >= len(code)+10

	if !includeCountryCode {
		if hasCode {
			return cleaned[len(code):], StatusOKNoCode
		}
		return cleaned, StatusOKNoCode
	}

	switch {
	case hasCode:
		return "+" + cleaned, StatusOK
	case n == 10 || n == 11:
		return countryCode + cleaned, StatusCorrected
	case strings.HasPrefix(cleaned, code):
		return "+" + cleaned, StatusUncertain
	default:
		return countryCode + cleaned, StatusUncertain
	}
}

// FormatWithDDD renders a cleaned number for printed reports: the first two
// digits become the area code and the remainder is hyphenated as
// XXXXX-XXXX (9 digits) or XXXX-XXXX (8 digits). Any other remainder
// length is invalid and returns "".
func FormatWithDDD(value string, includeCountryCode bool) string {
	digits := Digits(value)
	if len(digits) < 10 {
		return ""
	}

	ddd := digits[:2]
	number := digits[2:]

	var formatted string
	switch len(number) {
	case 9:
		formatted = number[:5] + "-" + number[5:]
	case 8:
		formatted = number[:4] + "-" + number[4:]
	default:
		return ""
	}

	if includeCountryCode {
		return DefaultCountryCode + " " + ddd + " " + formatted
	}
	return ddd + " " + formatted
}

// Key reduces a phone value to its cross-reference identity: the national
// digit string. Unresolvable values yield the sentinel, which never
// matches a real key.
const MissingKey = "MISSING"

func Key(value string) string {
	formatted, _ := FormatForMessaging(value, false)
	if formatted == "" {
		return MissingKey
	}
	return formatted
}
