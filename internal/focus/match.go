package focus

import (
	"net/url"
	"regexp"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSites is used when no rules file is configured.
var DefaultSites = []string{
	"*facebook.com/*",
	"*twitter.com/*",
	"*://x.com/*",
	"*instagram.com/*",
	"*reddit.com/*",
	"*youtube.com/*",
	"*tiktok.com/*",
	"*netflix.com/*",
}

const patternCacheSize = 256

var patternCache = mustCache()

func mustCache() *lru.Cache[string, *regexp.Regexp] {
	cache, err := lru.New[string, *regexp.Regexp](patternCacheSize)
	if err != nil {
		panic(err)
	}
	return cache
}

// Matches reports whether rawURL matches a glob pattern. "*" matches any run
// of characters, everything else is literal, and the whole URL must match.
func Matches(pattern, rawURL string) bool {
	return compile(pattern).MatchString(rawURL)
}

func compile(pattern string) *regexp.Regexp {
	if re, ok := patternCache.Get(pattern); ok {
		return re
	}
	parts := strings.Split(pattern, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	re := regexp.MustCompile("^" + strings.Join(parts, ".*") + "$")
	patternCache.Add(pattern, re)
	return re
}

// NormalizeURL gives bare hosts a trailing slash so "https://reddit.com"
// and "https://reddit.com/" match the same patterns.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(rawURL)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

func hostOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return u.Hostname()
}

// Blocker holds the distracting-site patterns.
type Blocker struct {
	mu       sync.RWMutex
	patterns []string
}

func NewBlocker(patterns []string) *Blocker {
	b := &Blocker{}
	b.SetPatterns(patterns)
	return b
}

func (b *Blocker) SetPatterns(patterns []string) {
	cp := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			cp = append(cp, p)
		}
	}
	b.mu.Lock()
	b.patterns = cp
	b.mu.Unlock()
}

func (b *Blocker) Patterns() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.patterns))
	copy(out, b.patterns)
	return out
}

// Blocked returns the first pattern matching rawURL.
func (b *Blocker) Blocked(rawURL string) (string, bool) {
	target := NormalizeURL(rawURL)
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, p := range b.patterns {
		if Matches(p, target) {
			return p, true
		}
	}
	return "", false
}
