package symbol

import (
	"regexp"
	"strings"
	"unicode"
)

// Email patterns, most specific first: a brace-grouped local-part list,
// a plain address, then a bare @domain left over from either.
var emailPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\{[\w.\-, ]+\}\s*@[\w.\-]+`),
	regexp.MustCompile(`[\w.\-]+\s*@[\w.\-]+`),
	regexp.MustCompile(`@[\w.\-]+`),
	regexp.MustCompile(`(?i)\be-?mails?\s*:`),
}

// domainPattern matches bare host names such as "cs.mit.edu".
var domainPattern = regexp.MustCompile(`\b[a-z]+(?:\.[a-z]+)+\b`)

// StripEmails removes email addresses and "Email:" labels from s.
func StripEmails(s string) string {
	for _, re := range emailPatterns {
		s = re.ReplaceAllString(s, "")
	}
	return s
}

// StripDomains removes bare lower-case host names from s.
func StripDomains(s string) string {
	return domainPattern.ReplaceAllString(s, "")
}

// OnlyEmails reports whether nothing but addresses, markers and punctuation
// remain of s once emails are removed.
func OnlyEmails(s string) bool {
	return strings.Contains(s, "@") && !hasLetter(StripEmails(s))
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
