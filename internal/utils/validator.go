package utils

import (
	"fmt"
	"net/url"
	"strings"

	apperrors "github.com/jotonsd/url-shortener/internal/errors"
)

const MaxURLLength = 2048

// ValidateURL checks that rawURL is an absolute URL with a scheme and a host.
// Any scheme is accepted.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return apperrors.NewValidationError("url", "URL cannot be empty")
	}

	if len(rawURL) > MaxURLLength {
		return apperrors.NewValidationError("url", fmt.Sprintf("URL is too long (max %d characters)", MaxURLLength))
	}

	if strings.TrimSpace(rawURL) != rawURL {
		return apperrors.NewValidationError("url", "URL must not have leading or trailing whitespace")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return apperrors.NewValidationError("url", fmt.Sprintf("invalid URL format: %v", err))
	}

	if parsedURL.Scheme == "" {
		return apperrors.NewValidationError("url", "URL must include a scheme (e.g. https://)")
	}

	if parsedURL.Hostname() == "" {
		return apperrors.NewValidationError("url", "URL must contain a valid host")
	}

	return nil
}

// SanitizeInput strips control characters and surrounding whitespace from
// user-supplied form input.
func SanitizeInput(input string) string {
	result := strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, input)

	return strings.TrimSpace(result)
}
