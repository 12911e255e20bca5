package secrets

import "strings"

const maskSuffix = "••••"

// Preview is a display-safe rendering of a stored credential.
type Preview struct {
	Configured bool    `json:"configured"`
	Preview    *string `json:"preview"`
}

// HasValue reports whether the secret is set to a non-blank value.
func HasValue(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Mask returns whether a secret is configured and a redacted preview built
// from its first four characters. Never used for business logic.
func Mask(value string) Preview {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Preview{Configured: false, Preview: nil}
	}

	visible := []rune(trimmed)
	if len(visible) > 4 {
		visible = visible[:4]
	}

	preview := string(visible) + maskSuffix
	return Preview{Configured: true, Preview: &preview}
}
