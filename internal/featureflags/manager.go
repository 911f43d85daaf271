// Package featureflags evaluates flags defined in a simple key=value
// config list, e.g. "mention_emails=on,popular_sort=25%".
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Manager holds parsed flag values. A nil Manager falls back to each
// call site's default.
type Manager struct {
	flags map[string]string
}

// NewManager parses a comma-separated flag list. Malformed pairs are
// skipped.
func NewManager(raw string) *Manager {
	out := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := normalize(parts[0])
		value := normalize(parts[1])
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return &Manager{flags: out}
}

// Enabled returns the flag value for a given user, or fallback when the
// flag is unset or the manager is nil. Supported values: on/true/1,
// off/false/0, or "N%" for a deterministic per-user rollout.
func (m *Manager) Enabled(name string, userID uint, fallback bool) bool {
	if m == nil {
		return fallback
	}
	value, ok := m.flags[normalize(name)]
	if !ok {
		return fallback
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	if strings.HasSuffix(value, "%") {
		pct, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
		if err != nil || pct < 0 {
			return fallback
		}
		if pct >= 100 {
			return true
		}
		return bucket(name, userID) < uint32(pct)
	}

	return fallback
}

// bucket maps (flag, user) to a stable 0-99 value.
func bucket(name string, userID uint) uint32 {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s:%d", normalize(name), userID)
	return h.Sum32() % 100
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
