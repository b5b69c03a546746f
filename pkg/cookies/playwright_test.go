package cookies

import (
	"context"
	"errors"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBrowserContext overrides only the cookie methods the store uses.
type fakeBrowserContext struct {
	playwright.BrowserContext

	cookies    []playwright.Cookie
	cookiesErr error
	clearErr   error
	cleared    []playwright.BrowserContextClearCookiesOptions
}

func (c *fakeBrowserContext) Cookies(urls ...string) ([]playwright.Cookie, error) {
	return c.cookies, c.cookiesErr
}

func (c *fakeBrowserContext) ClearCookies(options ...playwright.BrowserContextClearCookiesOptions) error {
	c.cleared = append(c.cleared, options...)
	return c.clearErr
}

func TestPlaywrightStore_GetAll(t *testing.T) {
	bc := &fakeBrowserContext{cookies: []playwright.Cookie{
		{Name: "sid", Domain: ".youglish.com", Path: "/", Secure: true},
		{Name: "lang", Domain: "youglish.com", Path: "/pronounce"},
		{Name: "pref", Domain: "www.youglish.com", Path: "/"},
		{Name: "other", Domain: "example.com", Path: "/"},
		{Name: "lookalike", Domain: "notyouglish.com", Path: "/"},
	}}
	store := NewPlaywrightStore(bc)

	got, err := store.GetAll(context.Background(), "youglish.com")

	require.NoError(t, err)
	assert.Equal(t, []Cookie{
		{Domain: ".youglish.com", Path: "/", Name: "sid", Secure: true},
		{Domain: "youglish.com", Path: "/pronounce", Name: "lang"},
		{Domain: "www.youglish.com", Path: "/", Name: "pref"},
	}, got)
}

func TestPlaywrightStore_GetAllErrors(t *testing.T) {
	store := NewPlaywrightStore(&fakeBrowserContext{cookiesErr: errors.New("target closed")})

	_, err := store.GetAll(context.Background(), "youglish.com")
	assert.EqualError(t, err, "failed to list cookies: target closed")

	_, err = store.GetAll(context.Background(), "")
	assert.EqualError(t, err, "domain is required")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.GetAll(ctx, "youglish.com")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlaywrightStore_Remove(t *testing.T) {
	tests := []struct {
		name   string
		cookie Cookie
		want   playwright.BrowserContextClearCookiesOptions
	}{
		{
			name:   "domain cookie keeps its leading dot",
			cookie: Cookie{Domain: ".youglish.com", Path: "/", Name: "sid", Secure: true},
			want:   playwright.BrowserContextClearCookiesOptions{Name: "sid", Domain: ".youglish.com", Path: "/"},
		},
		{
			name:   "host-only cookie with a path",
			cookie: Cookie{Domain: "youglish.com", Path: "/pronounce", Name: "lang"},
			want:   playwright.BrowserContextClearCookiesOptions{Name: "lang", Domain: "youglish.com", Path: "/pronounce"},
		},
		{
			name:   "empty path defaults to root",
			cookie: Cookie{Domain: "www.youglish.com", Name: "pref"},
			want:   playwright.BrowserContextClearCookiesOptions{Name: "pref", Domain: "www.youglish.com", Path: "/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bc := &fakeBrowserContext{}
			store := NewPlaywrightStore(bc)

			require.NoError(t, store.Remove(context.Background(), URL(tt.cookie), tt.cookie.Name, ""))
			assert.Equal(t, []playwright.BrowserContextClearCookiesOptions{tt.want}, bc.cleared)
		})
	}
}

func TestPlaywrightStore_RemoveErrors(t *testing.T) {
	bc := &fakeBrowserContext{clearErr: errors.New("target closed")}
	store := NewPlaywrightStore(bc)

	err := store.Remove(context.Background(), "https://youglish.com/", "sid", "")
	assert.EqualError(t, err, "failed to clear cookie: target closed")

	err = store.Remove(context.Background(), "http://you glish.com/", "sid", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cookie url")
	assert.Len(t, bc.cleared, 1)
}

func TestPurge_ThroughPlaywrightStore(t *testing.T) {
	bc := &fakeBrowserContext{cookies: []playwright.Cookie{
		{Name: "sid", Domain: ".youglish.com", Path: "/", Secure: true},
		{Name: "other", Domain: "example.com", Path: "/"},
	}}

	result, err := NewSanitizer(NewPlaywrightStore(bc), nil).Purge(context.Background(), "youglish.com")

	require.NoError(t, err)
	assert.Equal(t, "Deleted 1 cookie(s).", result.String())
	assert.Equal(t, []playwright.BrowserContextClearCookiesOptions{
		{Name: "sid", Domain: ".youglish.com", Path: "/"},
	}, bc.cleared)
}
