package httpx

import "strings"

// Match reports whether path matches the slash-delimited pattern. Within a
// segment "*" matches any run of characters, so "*" alone matches exactly one
// segment. The segment "**" matches zero or more whole segments, so
// "/admin/**" matches "/admin", "/admin/users" and everything below.
func Match(pattern, path string) bool {
	return matchSegments(splitPath(pattern), splitPath(path))
}

// MatchAny reports whether path matches any of the patterns.
func MatchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if Match(p, path) {
			return true
		}
	}
	return false
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchSegments(pat, seg []string) bool {
	if len(pat) == 0 {
		return len(seg) == 0
	}
	if pat[0] == "**" {
		// Either "**" consumes nothing, or it consumes one segment and stays.
		if matchSegments(pat[1:], seg) {
			return true
		}
		return len(seg) > 0 && matchSegments(pat, seg[1:])
	}
	if len(seg) == 0 {
		return false
	}
	return matchSegment(pat[0], seg[0]) && matchSegments(pat[1:], seg[1:])
}

// matchSegment matches a single segment, treating '*' as a wildcard for any
// run of characters.
func matchSegment(pat, s string) bool {
	pi, si := 0, 0
	star, mark := -1, 0
	for si < len(s) {
		switch {
		case pi < len(pat) && pat[pi] == '*':
			star, mark = pi, si
			pi++
		case pi < len(pat) && pat[pi] == s[si]:
			pi++
			si++
		case star >= 0:
			pi = star + 1
			mark++
			si = mark
		default:
			return false
		}
	}
	for pi < len(pat) && pat[pi] == '*' {
		pi++
	}
	return pi == len(pat)
}
