package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain https", "https://github.com/dinerozz/repo", "github.com"},
		{"strips leading www", "https://www.youtube.com/watch?v=x", "youtube.com"},
		{"keeps other subdomains", "https://docs.google.com/document/1", "docs.google.com"},
		{"strips only one www label", "https://www.www.example.com", "www.example.com"},
		{"lowercases host", "https://GitHub.com", "github.com"},
		{"ignores port", "http://localhost.dev:8080/page", "localhost.dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractDomain(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractDomain_Untrackable(t *testing.T) {
	urls := []string{
		"",
		"chrome://settings",
		"chrome-extension://abcdef/popup.html",
		"about:blank",
		"file:///home/user/notes.txt",
		"ftp://files.example.com",
		"not a url at all",
		"https://",
	}

	for _, url := range urls {
		_, err := ExtractDomain(url)
		assert.ErrorIs(t, err, ErrUntrackableURL, "url: %q", url)
	}
}
