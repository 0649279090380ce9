package cache

import (
	"fmt"
	"path"
)

// GenerateKeyWithParams creates a cache key with multiple parameters.
func GenerateKeyWithParams(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key = fmt.Sprintf("%s:%v", key, param)
	}
	return key
}

// BuildPattern creates a glob pattern matching every key under prefix.
func BuildPattern(prefix string) string {
	return fmt.Sprintf("%s*", prefix)
}

// matchPattern reports whether key matches a Redis-style glob pattern.
// A malformed pattern matches nothing.
func matchPattern(pattern, key string) bool {
	ok, err := path.Match(pattern, key)
	return err == nil && ok
}

// literalPrefix returns the part of pattern before the first glob metacharacter.
func literalPrefix(pattern string) string {
	for i, r := range pattern {
		switch r {
		case '*', '?', '[', '\\':
			return pattern[:i]
		}
	}
	return pattern
}
