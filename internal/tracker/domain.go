package tracker

import (
	"errors"
	"net/url"
	"strings"
)

// ErrUntrackableURL means the URL is not an externally navigable web page
// (internal browser pages, extension pages, malformed input).
var ErrUntrackableURL = errors.New("url is not trackable")

// ExtractDomain normalizes a URL to its tracking domain: lowercased hostname
// with a single leading "www." label stripped.
func ExtractDomain(rawURL string) (string, error) {
	if rawURL == "" {
		return "", ErrUntrackableURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ErrUntrackableURL
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrUntrackableURL
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", ErrUntrackableURL
	}

	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "", ErrUntrackableURL
	}

	return host, nil
}
