// Package extract implements the fallback-chain extraction rules used to
// normalize arbitrarily-shaped upstream JSON. Every accessor takes an
// ordered list of candidate keys and returns the first match; precedence is
// the argument order, the default is always the zero/empty value. The
// upstream providers are inconsistent and undocumented, so these chains are
// the contract, not a convenience.
package extract

import (
	"strconv"
	"strings"
)

// maxSearchDepth bounds the recursive structural search in FindList.
// Upstream payloads nest payload arrays at most three levels down; anything
// deeper is assumed to be noise.
const maxSearchDepth = 4

// List returns v itself when it is a JSON array, otherwise the first of the
// candidate keys on v that holds an array. Falls back to an empty list.
func List(v interface{}, keys ...string) []interface{} {
	if list, ok := v.([]interface{}); ok {
		return list
	}
	if m, ok := v.(map[string]interface{}); ok {
		for _, key := range keys {
			if list, ok := m[key].([]interface{}); ok {
				return list
			}
		}
	}
	return []interface{}{}
}

// Object returns the first of the candidate keys on v that holds an object,
// or v itself when no key matches and v is already an object. The
// self-fallback mirrors upstreams that sometimes skip the envelope entirely.
func Object(v interface{}, keys ...string) map[string]interface{} {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	for _, key := range keys {
		if inner, ok := m[key].(map[string]interface{}); ok {
			return inner
		}
	}
	return m
}

// Get navigates a dotted path of object keys and returns the value at the
// end, or nil when any step is missing or not an object.
func Get(v interface{}, path ...string) interface{} {
	for _, key := range path {
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil
		}
		v = m[key]
	}
	return v
}

// Value returns the first candidate key present on m with a non-nil value.
func Value(m map[string]interface{}, keys ...string) interface{} {
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

// String returns the first candidate key on m holding a non-empty string.
// Numeric values are formatted rather than dropped, since several upstreams
// emit ids and chapter numbers as JSON numbers.
func String(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		switch v := m[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return formatNumber(v)
		}
	}
	return ""
}

// Strings converts a JSON array to its string members, skipping the rest.
func Strings(list []interface{}) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// FindList walks v to a bounded depth and returns the first array found for
// which pred holds. This is the last-resort fallback for
// upstreams whose payload array moves around between releases; the typed
// chains above are always tried first.
func FindList(v interface{}, pred func([]interface{}) bool) []interface{} {
	return findList(v, pred, maxSearchDepth)
}

func findList(v interface{}, pred func([]interface{}) bool, depth int) []interface{} {
	if depth < 0 {
		return nil
	}
	switch val := v.(type) {
	case []interface{}:
		if pred(val) {
			return val
		}
		for _, item := range val {
			if found := findList(item, pred, depth-1); found != nil {
				return found
			}
		}
	case map[string]interface{}:
		for _, item := range val {
			if found := findList(item, pred, depth-1); found != nil {
				return found
			}
		}
	}
	return nil
}

// AllStringsLikeURLs reports whether list is non-empty and made entirely of
// http(s) URL strings. Used as the FindList predicate for image arrays.
func AllStringsLikeURLs(list []interface{}) bool {
	if len(list) == 0 {
		return false
	}
	for _, v := range list {
		s, ok := v.(string)
		if !ok || !strings.HasPrefix(s, "http") {
			return false
		}
	}
	return true
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
