package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// FeedURLValidator checks and normalizes user-supplied feed URLs before
// they reach the fetcher.
type FeedURLValidator struct {
	// AllowLocal permits loopback and private-range hosts.
	AllowLocal bool
	// MaxLength caps the accepted URL length.
	MaxLength int
}

// NewFeedURLValidator returns a validator that rejects local and private
// hosts.
func NewFeedURLValidator() *FeedURLValidator {
	return &FeedURLValidator{MaxLength: 2048}
}

// NewPermissiveFeedURLValidator returns a validator that accepts loopback
// and private hosts so development feeds work.
func NewPermissiveFeedURLValidator() *FeedURLValidator {
	return &FeedURLValidator{AllowLocal: true, MaxLength: 2048}
}

// ValidateAndNormalize checks the URL and returns a canonical form: scheme
// defaulted to https, host lowercased, fragment dropped.
func (v *FeedURLValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, " <>\"'`\\") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	if !strings.Contains(input, "://") {
		input = "https://" + input
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("URL must use http or https")
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("URL must have a hostname")
	}
	if parsed.User != nil {
		return "", fmt.Errorf("URLs with embedded credentials are not permitted")
	}
	if strings.Contains(parsed.Path, "..") {
		return "", fmt.Errorf("directory traversal is not allowed in URL paths")
	}

	if err := v.checkHost(parsed.Hostname()); err != nil {
		return "", err
	}

	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""
	return parsed.String(), nil
}

func (v *FeedURLValidator) checkHost(hostname string) error {
	if v.AllowLocal {
		return nil
	}

	if isLocalHostname(hostname) {
		return fmt.Errorf("localhost URLs are not permitted")
	}
	if ip := net.ParseIP(hostname); ip != nil {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
			return fmt.Errorf("private and loopback addresses are not permitted")
		}
	}
	return nil
}

func isLocalHostname(hostname string) bool {
	hostname = strings.ToLower(hostname)
	return hostname == "localhost" || strings.HasSuffix(hostname, ".localhost")
}
