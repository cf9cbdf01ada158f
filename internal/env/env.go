// Package env composes child process environments.
package env

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Merge applies extra "K=V" entries on top of base and returns a sorted
// list with one entry per key. A ${VAR} reference in a value expands to the
// value VAR had before that entry was applied, so PATH=/opt/bin:${PATH}
// prepends. Unknown references are kept verbatim. Entries without '=' or
// with an empty key are dropped.
func Merge(base, extra []string) []string {
	m := make(map[string]string, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, kv := range list {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || k == "" {
				continue
			}
			m[k] = expand(v, m)
		}
	}
	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, k+"="+v)
	}
	slices.Sort(out)
	return out
}

// WithOS merges extra over the current process environment.
func WithOS(extra []string) []string { return Merge(os.Environ(), extra) }

func expand(s string, m map[string]string) string {
	var b strings.Builder
	for {
		i := strings.Index(s, "${")
		if i < 0 {
			break
		}
		j := strings.IndexByte(s[i+2:], '}')
		if j < 0 {
			break
		}
		key := s[i+2 : i+2+j]
		b.WriteString(s[:i])
		if v, ok := m[key]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(s[i : i+3+j])
		}
		s = s[i+3+j:]
	}
	b.WriteString(s)
	return b.String()
}

// LoadFile parses a .env file of KEY=VALUE lines. Blank lines and lines
// starting with # are skipped; an optional "export " prefix and one pair of
// matching quotes around the value are stripped.
func LoadFile(path string) ([]string, error) {
	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	var out []string
	for i, line := range strings.Split(strings.ReplaceAll(string(b), "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		k, v, ok := strings.Cut(line, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("%s:%d: expected KEY=VALUE", path, i+1)
		}
		out = append(out, k+"="+unquote(strings.TrimSpace(v)))
	}
	return out, nil
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}
