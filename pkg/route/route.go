package route

import "strings"

const (
	LoginPath     = "/login"
	HomePath      = "/dashboard"
	AdminPath     = "/admin"
	ClearPagePath = "/clear-cookies"
	clearAPIRoot  = "/api/clear"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var (
	protectedPrefixes = []string{
		"/dashboard",
		"/settings",
		"/profile",
		"/admin",
		"/voice",
		"/voice-avatar",
		"/video",
	}
	adminPrefixes = []string{AdminPath}
)

type Class int

const (
	Public Class = iota
	Exempt
	Protected
	Admin
)

func (c Class) String() string {
	switch c {
	case Exempt:
		return "exempt"
	case Protected:
		return "protected"
	case Admin:
		return "admin"
	default:
		return "public"
	}
}

// IsExempt reports whether path is one of the session recovery routes.
// Exempt routes bypass every check, including the cookie size guard.
func IsExempt(path string) bool {
	return path == ClearPagePath || strings.HasPrefix(path, clearAPIRoot)
}

func IsProtected(path string) bool {
	return hasAnyPrefix(path, protectedPrefixes)
}

func IsAdmin(path string) bool {
	return hasAnyPrefix(path, adminPrefixes)
}

// Classify returns the most specific class of path. Admin paths are
// also protected.
func Classify(path string) Class {
	switch {
	case IsExempt(path):
		return Exempt
	case IsAdmin(path):
		return Admin
	case IsProtected(path):
		return Protected
	default:
		return Public
	}
}

type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	default:
		return "allow"
	}
}

// Target is the redirect location for d, empty for Allow.
func (d Decision) Target() string {
	switch d {
	case RedirectLogin:
		return LoginPath
	case RedirectHome:
		return HomePath
	default:
		return ""
	}
}

// Decide is the single authorization decision shared by the request gate,
// the admin API and the admin page guard. role is only consulted for admin
// paths; an empty role (lookup failed or absent) is never admin.
func Decide(authenticated bool, role, path string) Decision {
	if IsProtected(path) && !authenticated {
		return RedirectLogin
	}
	if IsAdmin(path) && authenticated && role != RoleAdmin {
		return RedirectHome
	}
	return Allow
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
