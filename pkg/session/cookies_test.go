package session_test

import (
	"net/http"
	"strings"
	"testing"

	"speakup/pkg/session"

	"github.com/stretchr/testify/assert"
)

func TestSize(t *testing.T) {
	cookies := []*http.Cookie{
		{Name: "a", Value: "12345"},
		{Name: "theme", Value: "dark"},
	}
	assert.Equal(t, (1+5+4)+(5+4+4), session.Size(cookies))
	assert.Zero(t, session.Size(nil))
}

func TestIsSessionCookie(t *testing.T) {
	tests := []struct {
		cookie *http.Cookie
		want   bool
	}{
		{&http.Cookie{Name: "sb-access-token", Value: "x"}, true},
		{&http.Cookie{Name: "sb-ref-auth-token.0", Value: "x"}, true},
		{&http.Cookie{Name: "my-supabase-thing", Value: "x"}, true},
		{&http.Cookie{Name: "legacy", Value: "auth-token:abc"}, true},
		{&http.Cookie{Name: "theme", Value: "dark"}, false},
		{&http.Cookie{Name: "SB-upper", Value: "x"}, false},
	}

	for _, test := range tests {
		t.Run(test.cookie.Name, func(t *testing.T) {
			assert.Equal(t, test.want, session.IsSessionCookie(test.cookie))
		})
	}
}

func TestEvictable(t *testing.T) {
	cookies := []*http.Cookie{
		{Name: "sb-access-token", Value: "short"},
		{Name: "theme", Value: "dark"},
		{Name: "blob", Value: strings.Repeat("x", 1001)},
		{Name: "edge", Value: strings.Repeat("x", 1000)},
	}

	var names []string
	for _, c := range session.Evictable(cookies, 1000) {
		names = append(names, c.Name)
	}

	assert.Equal(t, []string{"sb-access-token", "blob"}, names)
}

func TestExpired(t *testing.T) {
	c := session.Expired("sb-x")
	assert.Equal(t, "sb-x", c.Name)
	assert.Equal(t, "/", c.Path)
	assert.Contains(t, c.String(), "Max-Age=0")
}

func TestJarDropsLargeWrites(t *testing.T) {
	jar := session.NewJar(2000)

	jar.SetCookie(&http.Cookie{Name: "ok", Value: strings.Repeat("a", 1999)})
	jar.SetCookie(&http.Cookie{Name: "too-big", Value: strings.Repeat("a", 2000)})

	assert.Len(t, jar.Cookies(), 1)
	assert.Equal(t, "ok", jar.Cookies()[0].Name)
	assert.Equal(t, []string{"too-big"}, jar.Dropped())

	h := http.Header{}
	jar.Apply(h)
	assert.Len(t, h.Values("Set-Cookie"), 1)
	assert.True(t, strings.HasPrefix(h.Get("Set-Cookie"), "ok="))
}

func TestJarWithoutLimit(t *testing.T) {
	jar := session.NewJar(0)
	jar.SetCookie(&http.Cookie{Name: "big", Value: strings.Repeat("a", 5000)})
	assert.Len(t, jar.Cookies(), 1)
	assert.Empty(t, jar.Dropped())
}
