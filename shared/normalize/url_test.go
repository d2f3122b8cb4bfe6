package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"scheme-less", "twitter.com/ada", "https://twitter.com/ada"},
		{"http upgraded", "http://linkedin.com/in/ada", "https://linkedin.com/in/ada"},
		{"host lowered and trailing slash removed", "HTTP://WWW.YouTube.com/c/ada/", "https://www.youtube.com/c/ada"},
		{"protocol relative with sorted query", "//www.gravatar.com/avatar/abc?s=200&r=pg&d=mm", "https://www.gravatar.com/avatar/abc?d=mm&r=pg&s=200"},
		{"surrounding space", "  instagram.com/ada  ", "https://instagram.com/ada"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HTTPSURL(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTTPSURL_Rejects(t *testing.T) {
	for _, in := range []string{"", "   ", "ftp://example.com/file"} {
		_, err := HTTPSURL(in)
		assert.Error(t, err, in)
	}
}
