package resilience

import (
	"fmt"
	"regexp"
)

// DefaultKeyMinLength is the minimum accepted API key length.
const DefaultKeyMinLength = 20

// Placeholder values that ship in config templates and must never be sent
// to a provider.
var placeholderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)your[-_].*[-_]key`),
	regexp.MustCompile(`(?i)replace[-_]me`),
	regexp.MustCompile(`(?i)example[-_]key`),
	regexp.MustCompile(`(?i)placeholder`),
	regexp.MustCompile(`(?i)^xxx+$`),
	regexp.MustCompile(`^000+$`),
}

var keyCharset = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)

// ValidateAPIKey checks that key looks like a real credential for the named
// provider: non-empty, not a known placeholder, at least minLength
// characters (DefaultKeyMinLength when minLength <= 0), and drawn from the
// usual API key charset. It inspects only its arguments and is safe to call
// repeatedly.
func ValidateAPIKey(key, name string, minLength int) error {
	if minLength <= 0 {
		minLength = DefaultKeyMinLength
	}

	if key == "" {
		return fmt.Errorf("%s is empty", name)
	}

	for _, pattern := range placeholderPatterns {
		if pattern.MatchString(key) {
			return fmt.Errorf("%s is a placeholder value", name)
		}
	}

	if len(key) < minLength {
		return fmt.Errorf("%s is too short (%d chars, need %d)", name, len(key), minLength)
	}

	if !keyCharset.MatchString(key) {
		return fmt.Errorf("%s contains invalid characters", name)
	}

	return nil
}
