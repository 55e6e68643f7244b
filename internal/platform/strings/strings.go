// Package strings holds the few string and slice checks wiring code leans on
package strings

import std "strings"

// IfEmpty is def when in has no elements
func IfEmpty[T any](in, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustString panics naming what is missing when s is blank
func MustString(s, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix turns " fleet/ " into "/fleet" and panics when nothing is left
func MustPrefix(s string) string {
	s = std.Trim(std.TrimSpace(s), "/ ")
	if s == "" {
		panic("route prefix is required")
	}
	return "/" + s
}
