package store

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Jar is an http.CookieJar whose contents survive restarts. Persisted
// cookies are restored as session cookies, so they do not expire between
// invocations.
type Jar struct {
	mu      sync.Mutex
	inner   *cookiejar.Jar
	entries map[string]CookieRecord
	store   *Store
}

// NewJar creates a jar backed by s and restores its saved cookies.
func NewJar(s *Store) (*Jar, error) {
	inner, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	j := &Jar{
		inner:   inner,
		entries: make(map[string]CookieRecord),
		store:   s,
	}

	records, err := s.LoadCookies()
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		u, err := url.Parse(r.Origin)
		if err != nil {
			continue
		}
		c := &http.Cookie{
			Name:     r.Name,
			Value:    r.Value,
			Path:     r.Path,
			Secure:   r.Secure,
			HttpOnly: r.HTTPOnly,
		}
		if !r.HostOnly {
			c.Domain = r.Domain
		}
		inner.SetCookies(u, []*http.Cookie{c})
		j.entries[recordKey(r.Name, r.Domain, r.Path)] = r
	}

	return j, nil
}

// SetCookies implements http.CookieJar.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.inner.SetCookies(u, cookies)

	origin := (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}).String()
	now := time.Now()
	for _, c := range cookies {
		domain := c.Domain
		hostOnly := domain == ""
		if hostOnly {
			domain = u.Hostname()
		}
		key := recordKey(c.Name, domain, c.Path)

		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(now)) {
			delete(j.entries, key)
			continue
		}

		j.entries[key] = CookieRecord{
			Origin:   origin,
			Name:     c.Name,
			Value:    c.Value,
			Domain:   domain,
			Path:     c.Path,
			HostOnly: hostOnly,
			Secure:   c.Secure,
			HTTPOnly: c.HttpOnly,
		}
	}
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}

// Save writes the current cookies to the store.
func (j *Jar) Save() error {
	j.mu.Lock()
	records := make([]CookieRecord, 0, len(j.entries))
	for _, r := range j.entries {
		records = append(records, r)
	}
	j.mu.Unlock()

	return j.store.SaveCookies(records)
}

// Len returns the number of cookies that would be persisted.
func (j *Jar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

func recordKey(name, domain, path string) string {
	return name + "\x00" + domain + "\x00" + path
}
