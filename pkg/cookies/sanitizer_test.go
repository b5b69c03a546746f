package cookies

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type removal struct {
	url     string
	name    string
	storeID string
}

type fakeStore struct {
	cookies   []Cookie
	getErr    error
	failNames map[string]bool
	removed   []removal
}

func (s *fakeStore) GetAll(ctx context.Context, domain string) ([]Cookie, error) {
	return s.cookies, s.getErr
}

func (s *fakeStore) Remove(ctx context.Context, url, name, storeID string) error {
	if s.failNames[name] {
		return errors.New("store refused")
	}
	s.removed = append(s.removed, removal{url: url, name: name, storeID: storeID})
	return nil
}

func TestURL(t *testing.T) {
	tests := []struct {
		name   string
		cookie Cookie
		want   string
	}{
		{
			name:   "secure host-only",
			cookie: Cookie{Domain: "youglish.com", Path: "/", Secure: true},
			want:   "https://youglish.com/",
		},
		{
			name:   "insecure domain cookie keeps leading dot",
			cookie: Cookie{Domain: ".youglish.com", Path: "/pronounce"},
			want:   "http://.youglish.com/pronounce",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, URL(tt.cookie))
		})
	}
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "No cookies found", Result{}.String())
	assert.Equal(t, "Deleted 3 cookie(s).", Result{Found: 3, Deleted: 3}.String())
}

func TestPurge_RemovesEveryCookie(t *testing.T) {
	store := &fakeStore{cookies: []Cookie{
		{Domain: ".youglish.com", Path: "/", Name: "sid", StoreID: "0", Secure: true},
		{Domain: "youglish.com", Path: "/emb", Name: "pref", StoreID: "0"},
	}}
	s := NewSanitizer(store, nil)

	result, err := s.Purge(context.Background(), DefaultDomain)

	require.NoError(t, err)
	assert.Equal(t, Result{Found: 2, Deleted: 2}, result)
	assert.Equal(t, []removal{
		{url: "https://.youglish.com/", name: "sid", storeID: "0"},
		{url: "http://youglish.com/emb", name: "pref", storeID: "0"},
	}, store.removed)
}

func TestPurge_NoCookies(t *testing.T) {
	s := NewSanitizer(&fakeStore{}, nil)

	result, err := s.Purge(context.Background(), DefaultDomain)

	require.NoError(t, err)
	assert.Equal(t, "No cookies found", result.String())
}

func TestPurge_EnumerationFailure(t *testing.T) {
	s := NewSanitizer(&fakeStore{getErr: errors.New("no permission")}, nil)

	_, err := s.Purge(context.Background(), DefaultDomain)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected error: no permission")
}

func TestPurge_PartialFailureContinues(t *testing.T) {
	store := &fakeStore{
		cookies: []Cookie{
			{Domain: "youglish.com", Path: "/", Name: "a"},
			{Domain: "youglish.com", Path: "/", Name: "b"},
			{Domain: "youglish.com", Path: "/", Name: "c"},
		},
		failNames: map[string]bool{"b": true},
	}
	s := NewSanitizer(store, nil)

	result, err := s.Purge(context.Background(), DefaultDomain)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "remove b")
	assert.Equal(t, 2, result.Deleted)
	assert.Len(t, store.removed, 2)
}

func TestRegistrableDomain(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "youglish.com", want: "youglish.com"},
		{in: "www.youglish.com", want: "youglish.com"},
		{in: ".YouGlish.com", want: "youglish.com"},
		{in: "", wantErr: true},
		{in: "com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := RegistrableDomain(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDomainMatcher(t *testing.T) {
	m, err := domainMatcher(".youglish.com")
	require.NoError(t, err)

	assert.True(t, m.Match("youglish.com"))
	assert.True(t, m.Match("www.youglish.com"))
	assert.True(t, m.Match("a.b.youglish.com"))
	assert.False(t, m.Match("notyouglish.com"))
	assert.False(t, m.Match("youglish.com.evil.net"))

	_, err = domainMatcher("")
	assert.Error(t, err)
}
