package app

import (
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"place_insights/internal/domain"
)

// Hostname substrings accepted as map-service URLs. Matching is a plain,
// case-sensitive substring test on the hostname.
var supportedHosts = []string{"google.com", "maps.google", "maps.app.goo.gl"}

const shortLinkHost = "maps.app.goo.gl"

const (
	shortLinkPathPlaceholder = "Location from Google Maps"
	shortLinkPlaceholder     = "Google Maps Location"
)

type extractorKind string

const (
	placeSegment  extractorKind = "place-segment"
	searchSegment extractorKind = "search-segment"
	shortLink     extractorKind = "short-link"
	queryParam    extractorKind = "query-param"
)

// mapURL is the parsed view every extractor works on.
type mapURL struct {
	host     string
	segments []string // raw (still escaped), non-empty
	query    url.Values
}

type extractor struct {
	kind    extractorKind
	extract func(u mapURL) string
}

// extractors run in priority order; the first non-empty result wins.
var extractors = []extractor{
	{placeSegment, func(u mapURL) string {
		next, ok := segmentAfter(u.segments, "place")
		if !ok || strings.HasPrefix(next, "@") {
			return ""
		}
		return decodeComponent(next)
	}},
	{searchSegment, func(u mapURL) string {
		next, ok := segmentAfter(u.segments, "search")
		if !ok {
			return ""
		}
		return decodeComponent(next)
	}},
	{shortLink, func(u mapURL) string {
		if !strings.Contains(u.host, shortLinkHost) {
			return ""
		}
		if q := queryValue(u); q != "" {
			return q
		}
		if len(u.segments) > 0 {
			return shortLinkPathPlaceholder
		}
		return ""
	}},
	{queryParam, queryValue},
}

// ResolveQuery turns a map-service URL into a free-text place search query.
func ResolveQuery(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", domain.Errorf(domain.KindInvalidURL, nil, "URL is required")
	}
	// tolerate one leading "@" left over from chat/share copy-paste
	s = strings.TrimPrefix(s, "@")

	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", domain.Errorf(domain.KindInvalidURL, err, "Invalid URL format")
	}

	host := u.Hostname()
	if !hostSupported(host) {
		return "", domain.Errorf(domain.KindUnsupportedFormat, nil, "Please provide a valid Google Maps URL")
	}

	mu := mapURL{host: host, segments: pathSegments(u), query: u.Query()}
	for _, ex := range extractors {
		if q := ex.extract(mu); q != "" {
			log.Debug().Str("rule", string(ex.kind)).Str("query", q).Msg("map URL resolved")
			return q, nil
		}
	}

	if strings.Contains(host, shortLinkHost) {
		return shortLinkPlaceholder, nil
	}
	return "", domain.Errorf(domain.KindUnsupportedFormat, nil, "Could not extract place name from URL")
}

func hostSupported(host string) bool {
	for _, h := range supportedHosts {
		if strings.Contains(host, h) {
			return true
		}
	}
	return false
}

func pathSegments(u *url.URL) []string {
	var out []string
	for _, seg := range strings.Split(u.EscapedPath(), "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// segmentAfter returns the segment following the first occurrence of name.
func segmentAfter(segments []string, name string) (string, bool) {
	for i, seg := range segments {
		if seg == name {
			if i+1 < len(segments) {
				return segments[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

// queryValue returns the processed "q" parameter. url.Values is already
// percent-decoded, so only the "+" and trim steps remain.
func queryValue(u mapURL) string {
	return strings.TrimSpace(strings.ReplaceAll(u.query.Get("q"), "+", " "))
}

// decodeComponent percent-decodes s, then treats "+" as a space and trims.
// s comes from EscapedPath of a parsed URL, so it always unescapes: url.Parse
// rejects a bad escape and ResolveQuery reports that URL as invalid.
func decodeComponent(s string) string {
	if d, err := url.PathUnescape(s); err == nil {
		s = d
	}
	return strings.TrimSpace(strings.ReplaceAll(s, "+", " "))
}
