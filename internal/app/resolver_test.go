package app_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"place_insights/internal/app"
	"place_insights/internal/domain"
)

func TestResolveQuery(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"place segment", "https://maps.google.com/maps/place/Restaurant+Name", "Restaurant Name"},
		{"search segment", "https://maps.google.com/maps/search/Cafe+Location", "Cafe Location"},
		{"q param", "https://maps.google.com/?q=Business+Name", "Business Name"},
		{"short link q wins over placeholder", "https://maps.app.goo.gl/abc123?q=Test+Location", "Test Location"},
		{"short link path placeholder", "https://maps.app.goo.gl/abc123", "Location from Google Maps"},
		{"short link root placeholder", "https://maps.app.goo.gl/", "Google Maps Location"},
		{"leading at stripped", "@https://maps.app.goo.gl/abc123", "Location from Google Maps"},
		{"surrounding whitespace", "  https://www.google.com/maps/place/Blue+Bottle  ", "Blue Bottle"},
		{"percent decoded place", "https://www.google.com/maps/place/Caf%C3%A9+de+Flore/@48.8541,2.3326,17z/data=!3m1", "Café de Flore"},
		{"encoded plus becomes space", "https://www.google.com/maps/place/A%2BB", "A B"},
		{"place beats search", "https://www.google.com/maps/search/pizza/place/Joe's+Pizza", "Joe's Pizza"},
		{"search beats q", "https://www.google.com/maps/search/pizza/@40.7,-74.0,13z?q=other", "pizza"},
		{"place followed by coordinates falls through to q", "https://www.google.com/maps/place/@48.85,2.33,17z?q=Louvre", "Louvre"},
		{"q trimmed", "https://maps.google.com/?q=%20%20Spaced%20", "Spaced"},
		{"google subdomain with q", "https://www.google.com/maps?q=Eiffel+Tower", "Eiffel Tower"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := app.ResolveQuery(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveQuery_AtPrefixMatchesPlain(t *testing.T) {
	for _, u := range []string{
		"https://maps.app.goo.gl/abc123",
		"https://maps.google.com/maps/place/Restaurant+Name",
		"https://maps.google.com/?q=Business+Name",
	} {
		plain, err := app.ResolveQuery(u)
		require.NoError(t, err)
		prefixed, err := app.ResolveQuery("@" + u)
		require.NoError(t, err)
		assert.Equal(t, plain, prefixed, u)
	}
}

func TestResolveQuery_InvalidURL(t *testing.T) {
	for _, in := range []string{
		"",
		"   ",
		"invalid-url",
		"@@https://maps.app.goo.gl/abc123", // only one "@" is stripped
		"maps.google.com/?q=x",             // no scheme
		"https://",
		"https://maps.google.com/maps/place/100%", // bad percent escape
	} {
		_, err := app.ResolveQuery(in)
		assert.True(t, errors.Is(err, domain.ErrInvalidURL), "input %q: %v", in, err)
	}
}

func TestResolveQuery_UnsupportedHost(t *testing.T) {
	for _, in := range []string{
		"https://example.com/not-google-maps",
		"https://example.com/maps/place/Restaurant+Name",
		"https://bing.com/maps?q=Cafe",
		"https://goo.gl/abc123",
		"https://MAPS.GOOGLE.COM/?q=Cafe", // host match is case-sensitive
		"https://openstreetmap.org/search?query=cafe",
	} {
		_, err := app.ResolveQuery(in)
		assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat), "input %q: %v", in, err)
	}
}

func TestResolveQuery_NothingToExtract(t *testing.T) {
	_, err := app.ResolveQuery("https://www.google.com/maps/@48.85,2.33,17z")
	require.Error(t, err)
	assert.Equal(t, domain.KindUnsupportedFormat, domain.KindOf(err))
	assert.Equal(t, "Could not extract place name from URL", err.Error())
}
