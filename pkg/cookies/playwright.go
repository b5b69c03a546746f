package cookies

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
	"github.com/playwright-community/playwright-go"
)

// PlaywrightStore is a Store backed by a Playwright browser context.
// Playwright has no separate cookie stores, so store IDs are ignored.
type PlaywrightStore struct {
	browserContext playwright.BrowserContext
}

// NewPlaywrightStore wraps a browser context.
func NewPlaywrightStore(browserContext playwright.BrowserContext) *PlaywrightStore {
	return &PlaywrightStore{browserContext: browserContext}
}

// GetAll implements Store.
func (s *PlaywrightStore) GetAll(ctx context.Context, domain string) ([]Cookie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matcher, err := domainMatcher(domain)
	if err != nil {
		return nil, err
	}

	all, err := s.browserContext.Cookies()
	if err != nil {
		return nil, fmt.Errorf("failed to list cookies: %w", err)
	}

	var out []Cookie
	for _, c := range all {
		if !matcher.Match(strings.TrimPrefix(c.Domain, ".")) {
			continue
		}
		out = append(out, Cookie{
			Domain: c.Domain,
			Path:   c.Path,
			Name:   c.Name,
			Secure: c.Secure,
		})
	}
	return out, nil
}

// Remove implements Store.
func (s *PlaywrightStore) Remove(ctx context.Context, rawURL, name, storeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid cookie url %q: %w", rawURL, err)
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	err = s.browserContext.ClearCookies(playwright.BrowserContextClearCookiesOptions{
		Name:   name,
		Domain: u.Host,
		Path:   path,
	})
	if err != nil {
		return fmt.Errorf("failed to clear cookie: %w", err)
	}
	return nil
}

// domainMatcher matches domain itself and any of its subdomains.
func domainMatcher(domain string) (glob.Glob, error) {
	domain = strings.TrimPrefix(strings.ToLower(domain), ".")
	if domain == "" {
		return nil, fmt.Errorf("domain is required")
	}

	quoted := glob.QuoteMeta(domain)
	g, err := glob.Compile("{"+quoted+",**."+quoted+"}", '.')
	if err != nil {
		return nil, fmt.Errorf("invalid domain pattern %q: %w", domain, err)
	}
	return g, nil
}
