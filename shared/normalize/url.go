package normalize

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/purell"
)

const urlFlags = purell.FlagsUsuallySafeGreedy | purell.FlagRemoveDuplicateSlashes | purell.FlagSortQuery

// HTTPSURL returns raw as a canonical absolute https URL. Scheme-less and
// protocol-relative inputs are accepted; http is upgraded to https.
func HTTPSURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("empty url")
	}

	switch {
	case strings.HasPrefix(s, "//"):
		s = "https:" + s
	case !strings.Contains(s, "://"):
		s = "https://" + s
	}

	normalized, err := purell.NormalizeURLString(s, urlFlags)
	if err != nil {
		return "", fmt.Errorf("normalize %q: %w", raw, err)
	}

	u, err := url.Parse(normalized)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", raw, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("missing host in %q", raw)
	}
	u.Scheme = "https"

	return u.String(), nil
}
