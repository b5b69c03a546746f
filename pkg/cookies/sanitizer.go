// Package cookies purges the cookies of a site from a browser cookie store so
// every session with that site starts stateless.
package cookies

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/entrhq/parrot/pkg/logging"
)

// DefaultDomain is the video-search site whose cookies are purged at startup.
const DefaultDomain = "youglish.com"

// Cookie is the subset of cookie attributes needed to delete a cookie.
type Cookie struct {
	Domain  string
	Path    string
	Name    string
	StoreID string
	Secure  bool
}

// Store is a browser cookie store.
type Store interface {
	// GetAll returns every cookie whose domain is domain or one of its
	// subdomains.
	GetAll(ctx context.Context, domain string) ([]Cookie, error)

	// Remove deletes the cookie called name that would be sent to url.
	Remove(ctx context.Context, url, name, storeID string) error
}

// URL reconstructs the URL a cookie is deleted by. The scheme is https only
// for secure cookies. The domain is used as stored, so cookies that are not
// host-only keep their leading dot and the result may not be a valid URL.
func URL(c Cookie) string {
	scheme := "http"
	if c.Secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s%s", scheme, c.Domain, c.Path)
}

// Result summarises a purge.
type Result struct {
	Found   int
	Deleted int
}

// String renders the result the way it is shown to the user.
func (r Result) String() string {
	if r.Found == 0 {
		return "No cookies found"
	}
	return fmt.Sprintf("Deleted %d cookie(s).", r.Deleted)
}

// Sanitizer deletes all cookies of a domain.
type Sanitizer struct {
	store  Store
	logger *logging.Logger
}

// NewSanitizer creates a Sanitizer over store.
func NewSanitizer(store Store, logger *logging.Logger) *Sanitizer {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Sanitizer{store: store, logger: logger}
}

// Purge removes every cookie scoped to domain. A failed removal does not stop
// the others; all removal errors are returned joined together.
func (s *Sanitizer) Purge(ctx context.Context, domain string) (Result, error) {
	found, err := s.store.GetAll(ctx, domain)
	if err != nil {
		return Result{}, fmt.Errorf("unexpected error: %w", err)
	}

	result := Result{Found: len(found)}
	if len(found) == 0 {
		s.logger.Infof("no cookies found for %s", domain)
		return result, nil
	}

	var errs []error
	for _, c := range found {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		u := URL(c)
		if err := s.store.Remove(ctx, u, c.Name, c.StoreID); err != nil {
			s.logger.Warnf("failed to remove cookie %s at %s: %v", c.Name, u, err)
			errs = append(errs, fmt.Errorf("remove %s at %s: %w", c.Name, u, err))
			continue
		}
		result.Deleted++
	}

	s.logger.Infof("%s (%s)", result, domain)
	return result, errors.Join(errs...)
}

// RegistrableDomain reduces host to the domain cookies are scoped under, so
// "www.youglish.com" and ".youglish.com" both become "youglish.com".
func RegistrableDomain(host string) (string, error) {
	host = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(host)), ".")
	if host == "" {
		return "", errors.New("empty domain")
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", fmt.Errorf("invalid domain %q: %w", host, err)
	}
	return domain, nil
}
