package env

import (
	"strings"
	"testing"
)

// FuzzMerge ensures Merge never panics and never emits an empty key.
func FuzzMerge(f *testing.F) {
	f.Add("A=1", "B=${A}")
	f.Add("=", "${")
	f.Add("K=${K}", "K=${K}${K}")

	f.Fuzz(func(t *testing.T, a, b string) {
		for _, kv := range Merge([]string{a}, []string{b}) {
			if strings.HasPrefix(kv, "=") {
				t.Fatalf("empty key in %q", kv)
			}
		}
	})
}
