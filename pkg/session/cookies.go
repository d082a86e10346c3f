package session

import (
	"net/http"
	"strings"
	"time"
)

const (
	sessionCookiePrefix = "sb-"
	cookieOverhead      = 4
)

var sessionMarkers = []string{"supabase", "auth-token"}

// Size approximates the encoded Cookie header: every pair costs its name,
// its value and the "=" plus "; " separators.
func Size(cookies []*http.Cookie) int {
	total := 0
	for _, c := range cookies {
		total += len(c.Name) + len(c.Value) + cookieOverhead
	}
	return total
}

// IsSessionCookie reports whether c looks like it belongs to the auth session.
func IsSessionCookie(c *http.Cookie) bool {
	if strings.HasPrefix(c.Name, sessionCookiePrefix) {
		return true
	}
	for _, m := range sessionMarkers {
		if strings.Contains(c.Name, m) || strings.Contains(c.Value, m) {
			return true
		}
	}
	return false
}

// Evictable selects the cookies to delete when the cookie set is oversized:
// session cookies plus any cookie with a value longer than maxValueBytes.
func Evictable(cookies []*http.Cookie, maxValueBytes int) []*http.Cookie {
	var out []*http.Cookie
	for _, c := range cookies {
		if IsSessionCookie(c) || len(c.Value) > maxValueBytes {
			out = append(out, c)
		}
	}
	return out
}

// Expired builds the Set-Cookie that deletes name on the client.
func Expired(name string) *http.Cookie {
	return &http.Cookie{
		Name:    name,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	}
}

// Jar buffers the cookies written while resolving a session and drops
// every write whose value is maxValueBytes or longer.
type Jar struct {
	maxValueBytes int
	cookies       []*http.Cookie
	dropped       []string
}

func NewJar(maxValueBytes int) *Jar {
	return &Jar{maxValueBytes: maxValueBytes}
}

func (j *Jar) SetCookie(c *http.Cookie) {
	if j.maxValueBytes > 0 && len(c.Value) >= j.maxValueBytes {
		j.dropped = append(j.dropped, c.Name)
		return
	}
	j.cookies = append(j.cookies, c)
}

func (j *Jar) Cookies() []*http.Cookie {
	return j.cookies
}

// Dropped lists the names of rejected writes.
func (j *Jar) Dropped() []string {
	return j.dropped
}

// Apply adds the buffered cookies as Set-Cookie headers.
func (j *Jar) Apply(h http.Header) {
	for _, c := range j.cookies {
		if v := c.String(); v != "" {
			h.Add("Set-Cookie", v)
		}
	}
}
