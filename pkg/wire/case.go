// Package wire converts between the SDK's Go-side shapes and the API's wire
// format: camelCase JSON keys, nested option objects, and inlined JSON schemas.
package wire

import (
	"regexp"
	"strings"
	"unicode"
)

// ToCamel converts a snake_case key to its camelCase wire form. The first
// segment keeps its casing. Keys that map to non-alphanumeric JSON-Schema
// keywords are special-cased.
func ToCamel(key string) string {
	switch key {
	case "schema_":
		return "$schema"
	case "not_":
		return "not"
	}

	parts := strings.Split(key, "_")

	var sb strings.Builder
	sb.WriteString(parts[0])

	for _, p := range parts[1:] {
		sb.WriteString(title(p))
	}

	return sb.String()
}

var (
	snakeBoundary1 = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	snakeBoundary2 = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// ToSnake converts a camelCase key to snake_case.
func ToSnake(key string) string {
	s := snakeBoundary1.ReplaceAllString(key, "${1}_${2}")
	s = snakeBoundary2.ReplaceAllString(s, "${1}_${2}")

	return strings.ToLower(s)
}

// CamelizeMap returns a copy of m with all keys converted to camelCase and
// nil values dropped, recursing into nested maps. Values of keys listed in
// skipKeys are carried over untouched (used for user-authored schemas whose
// property names must not be rewritten).
func CamelizeMap(m map[string]any, skipKeys ...string) map[string]any {
	if m == nil {
		return nil
	}

	result := make(map[string]any, len(m))

	for k, v := range m {
		if v == nil {
			continue
		}

		if nested, ok := v.(map[string]any); ok && !contains(skipKeys, k) {
			result[ToCamel(k)] = CamelizeMap(nested, skipKeys...)
			continue
		}

		result[ToCamel(k)] = v
	}

	return result
}

// SnakeizeMap returns a copy of m with all keys converted to snake_case,
// recursing into nested maps.
func SnakeizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}

	result := make(map[string]any, len(m))

	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			result[ToSnake(k)] = SnakeizeMap(nested)
			continue
		}

		result[ToSnake(k)] = v
	}

	return result
}

// NestFields moves the named keys of m into a nested map stored under newKey.
// The nested map is created even when none of the fields are present.
func NestFields(m map[string]any, fields []string, newKey string) map[string]any {
	nested := map[string]any{}

	for _, f := range fields {
		if v, ok := m[f]; ok {
			nested[f] = v
			delete(m, f)
		}
	}

	m[newKey] = nested

	return m
}

func title(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])

	return string(runes)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}

	return false
}
