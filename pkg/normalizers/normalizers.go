// Package normalizers provides field normalization functions used to derive
// the comparison keys on canonical records.
package normalizers

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	Register("lowercase", strings.ToLower)
	Register("trim", strings.TrimSpace)
	Register("nname", Name)
	Register("nphone", Phone)
	Register("nemail", Email)
	Register("soundex", Soundex)
	Register("digits_only", DigitsOnly)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Apply applies a named normalizer to a value. Unknown names are a no-op.
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Name normalizes a person or company name for matching:
// accents decomposed to ASCII, lowercased, whitespace collapsed.
// Idempotent: Name(Name(s)) == Name(s).
func Name(s string) string {
	if stripped, _, err := transform.String(accentStripper, s); err == nil {
		s = stripped
	}
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// Soundex encodes a name into a fixed 4-character phonetic code.
//
// Consonant classes: B F P V=1, C G J K Q S X Z=2, D T=3, L=4, M N=5, R=6.
// Vowels, H and W are skipped, but a vowel resets the previous-code tracking
// so a repeated consonant sound separated by a vowel is kept.
// Non-alphabetic input yields the sentinel "0000".
func Soundex(s string) string {
	s = strings.ToUpper(Name(s))

	var letters []byte
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			letters = append(letters, s[i])
		}
	}
	if len(letters) == 0 {
		return "0000"
	}

	code := []byte{letters[0]}
	prev := soundexCode(letters[0])

	for i := 1; i < len(letters) && len(code) < 4; i++ {
		c := letters[i]
		switch {
		case c == 'A' || c == 'E' || c == 'I' || c == 'O' || c == 'U':
			prev = 0 // vowel separates repeated consonant sounds
		case c == 'H' || c == 'W':
			// skipped, does not reset tracking
		default:
			d := soundexCode(c)
			if d != 0 && d != prev {
				code = append(code, d)
			}
			prev = d
		}
	}

	for len(code) < 4 {
		code = append(code, '0')
	}
	return string(code)
}

// soundexCode returns the digit class for a consonant, 0 for everything else.
func soundexCode(c byte) byte {
	switch c {
	case 'B', 'F', 'P', 'V':
		return '1'
	case 'C', 'G', 'J', 'K', 'Q', 'S', 'X', 'Z':
		return '2'
	case 'D', 'T':
		return '3'
	case 'L':
		return '4'
	case 'M', 'N':
		return '5'
	case 'R':
		return '6'
	}
	return 0
}

// Email normalizes an email to its alias-canonical form: lowercased, with
// the local part stripped of any "+tag" suffix and all dots, so
// "a.b+promo@x.com" and "ab@x.com" normalize identically.
// Returns "" for unparseable input.
func Email(s string) string {
	local, domain := EmailParts(s)
	if local == "" || domain == "" {
		return ""
	}
	return local + "@" + domain
}

// EmailParts returns the alias-stripped local part and the domain, both
// lowercased. Either is "" when the address is unparseable.
func EmailParts(s string) (local, domain string) {
	s = strings.ToLower(strings.TrimSpace(s))
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return "", ""
	}

	local = s[:at]
	domain = s[at+1:]
	if plus := strings.Index(local, "+"); plus != -1 {
		local = local[:plus]
	}
	local = strings.ReplaceAll(local, ".", "")
	if local == "" {
		return "", ""
	}
	return local, domain
}

// Phone normalizes a phone number to +digits. Ten-digit numbers get a
// leading country digit; anything shorter than ten digits is treated as no
// phone and normalizes to "".
func Phone(s string) string {
	digits := DigitsOnly(s)
	if len(digits) == 10 {
		digits = "1" + digits
	}
	if len(digits) < 10 {
		return ""
	}
	return "+" + digits
}

// DigitsOnly keeps only digit characters
func DigitsOnly(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// dateLayouts are the accepted string date formats.
var dateLayouts = []string{"2006-01-02", "01/02/2006"}

// Date parses a raw value into a date. Unparseable or absent values yield
// nil, which never satisfies an exact-match or delta condition.
func Date(v any) *time.Time {
	switch d := v.(type) {
	case nil:
		return nil
	case time.Time:
		if d.IsZero() {
			return nil
		}
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		return &day
	case *time.Time:
		if d == nil {
			return nil
		}
		return Date(*d)
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
	}
	return nil
}
