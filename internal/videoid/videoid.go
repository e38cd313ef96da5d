// Package videoid extracts canonical video identifiers from watch URLs.
package videoid

import "regexp"

// Len is the length of a canonical video id.
const Len = 11

// Patterns are tried in order; the first match wins.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|music\.youtube\.com/watch\?v=)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/v/([a-zA-Z0-9_-]{11})`),
}

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// Extract returns the video id embedded in rawURL. ok is false when the URL
// is empty or matches none of the known shapes.
func Extract(rawURL string) (id string, ok bool) {
	if rawURL == "" {
		return "", false
	}
	for _, p := range patterns {
		if m := p.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// Valid reports whether id has the canonical video id shape.
func Valid(id string) bool {
	return idPattern.MatchString(id)
}

// WatchURL returns the canonical watch page URL for id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
