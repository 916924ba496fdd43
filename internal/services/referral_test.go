package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyReferral(t *testing.T) {
	tests := []struct {
		name string
		site *string
		want Referral
	}{
		{name: "absent", site: nil, want: Referral{Page: "None", Site: "None"}},
		{name: "empty", site: strPtr(""), want: Referral{Page: "None", Site: "None"}},
		{
			name: "search page",
			site: strPtr("https://google.com/search"),
			want: Referral{Page: "https://google.com/search", Site: "google.com"},
		},
		{
			name: "query and port",
			site: strPtr("http://shop.example.com:8080/a/b?utm=x"),
			want: Referral{Page: "http://shop.example.com:8080/a/b?utm=x", Site: "shop.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassifyReferral(tt.site)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyReferral_Malformed(t *testing.T) {
	for _, site := range []string{"not a url", "http://[::1", "/relative/path"} {
		t.Run(site, func(t *testing.T) {
			_, err := ClassifyReferral(strPtr(site))

			var urlErr *MalformedURLError
			require.True(t, errors.As(err, &urlErr), "got %v", err)
			assert.Equal(t, site, urlErr.URL)
		})
	}
}
