package session

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
)

const (
	base64Prefix = "base64-"
	// chunkSize keeps each cookie under browser per-cookie limits once the
	// name and attributes are added.
	chunkSize = 3180
)

func encodeSession(s *Session) (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	return base64Prefix + base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodeSession(value string) (*Session, error) {
	raw := []byte(value)
	if strings.HasPrefix(value, base64Prefix) {
		payload := strings.TrimRight(strings.TrimPrefix(value, base64Prefix), "=")
		decoded, err := base64.RawURLEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decode session: %w", err)
		}
		raw = decoded
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.AccessToken == "" {
		return nil, ErrNoSession
	}
	return &s, nil
}

// readChunked returns the value stored under key, either as a single cookie
// or spread over key.0, key.1, ... chunks.
func readChunked(key string, cookies []*http.Cookie) (string, bool) {
	byName := make(map[string]string, len(cookies))
	for _, c := range cookies {
		byName[c.Name] = c.Value
	}

	if v, ok := byName[key]; ok {
		return v, true
	}

	var b strings.Builder
	for i := 0; ; i++ {
		v, ok := byName[key+"."+strconv.Itoa(i)]
		if !ok {
			break
		}
		b.WriteString(v)
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}

// splitChunks names the pieces of value the way readChunked expects them.
func splitChunks(key, value string, size int) map[string]string {
	if len(value) <= size {
		return map[string]string{key: value}
	}

	out := make(map[string]string)
	for i := 0; len(value) > 0; i++ {
		n := min(size, len(value))
		out[key+"."+strconv.Itoa(i)] = value[:n]
		value = value[n:]
	}
	return out
}

// storageCookies lists the existing cookies that hold (part of) key.
func storageCookies(key string, cookies []*http.Cookie) []string {
	var names []string
	for _, c := range cookies {
		if c.Name == key || isChunkOf(key, c.Name) {
			names = append(names, c.Name)
		}
	}
	sort.Strings(names)
	return names
}

func isChunkOf(key, name string) bool {
	suffix, ok := strings.CutPrefix(name, key+".")
	if !ok {
		return false
	}
	_, err := strconv.Atoi(suffix)
	return err == nil
}
