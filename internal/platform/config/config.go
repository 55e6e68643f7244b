// Package config reads fleetdash settings from the environment, optionally
// seeded from a .env file during local development
package config

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"fleetdash/internal/platform/logger"

	"github.com/joho/godotenv"
)

// Conf reads keys under a prefix; New has none, Prefix narrows it for a module
type Conf struct{ prefix string }

func New() Conf { return Conf{} }

func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// LoadDotenv copies keys from .env style files into the process env without
// overriding anything already set; files that do not exist are skipped
// it must not log so LOG_* keys from the file still reach logger.Init
func LoadDotenv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var errs []error
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Has reports whether key holds a non blank value
func (c Conf) Has(key string) bool { return c.lookup(key) != "" }

// MustString panics when key is blank
func (c Conf) MustString(key string) string {
	v := c.lookup(key)
	if v == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

// MustPort turns "4000" into ":4000"; ":4000" and "host:4000" pass through
func (c Conf) MustPort(key string) string {
	s := c.MustString(key)
	if strings.Contains(s, ":") {
		return s
	}
	if p, err := strconv.Atoi(s); err != nil || p < 1 || p > 65535 {
		logger.Get().Panic().Str("key", c.key(key)).Str("value", s).Msg("port must be 1..65535")
	}
	return ":" + s
}

// MayPort is MustPort with def for a missing key
func (c Conf) MayPort(key, def string) string {
	if !c.Has(key) {
		return def
	}
	return c.MustPort(key)
}

// MayString is the value of key or def
func (c Conf) MayString(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

func (c Conf) MayInt(key string, def int) int { return may(c, key, def, strconv.Atoi) }
func (c Conf) MayBool(key string, def bool) bool {
	return may(c, key, def, strconv.ParseBool)
}
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

// may parses key, falling back to def when it is missing or does not parse
func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Interface("default", def).Msg("unparseable env, using default")
		return def
	}
	return v
}

// MayCSV splits a comma list, dropping blanks; def when nothing is left
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.lookup(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum is the lower cased value when it is one of allowed, def when blank
// anything else panics
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := strings.ToLower(c.MayString(key, def))
	if v == "" || slices.Contains(allowed, v) {
		return v
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
