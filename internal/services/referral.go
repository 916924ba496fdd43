package services

import (
	"fmt"
	"net/url"
)

// NoReferral is the bucket for orders that arrived without a referrer.
const NoReferral = "None"

type Referral struct {
	Page string
	Site string
}

type MalformedURLError struct {
	URL string
	Err error
}

func (e *MalformedURLError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed referring site %q: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("malformed referring site %q: no host", e.URL)
}

func (e *MalformedURLError) Unwrap() error {
	return e.Err
}

// ClassifyReferral splits a referring site into the full page URL and its
// host. A missing or empty referrer lands in the NoReferral bucket.
func ClassifyReferral(site *string) (Referral, error) {
	if site == nil || *site == "" {
		return Referral{Page: NoReferral, Site: NoReferral}, nil
	}

	u, err := url.Parse(*site)
	if err != nil {
		return Referral{}, &MalformedURLError{URL: *site, Err: err}
	}
	host := u.Hostname()
	if host == "" {
		return Referral{}, &MalformedURLError{URL: *site}
	}
	return Referral{Page: *site, Site: host}, nil
}
