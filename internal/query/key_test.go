package query

import "testing"

func TestKeyDeterminism(t *testing.T) {
	a := ListKey("users", Options{Include: "groups", Search: "alice"})
	b := ListKey("users", Options{Include: "groups", Search: "alice"})

	if !a.Equal(b) {
		t.Errorf("identical inputs produced different keys: %v vs %v", a, b)
	}
	if a.String() != b.String() {
		t.Errorf("identical inputs produced different strings: %q vs %q", a, b)
	}
}

func TestKeyOptionCombinationsDoNotCollide(t *testing.T) {
	keys := []Key{
		ListKey("users", Options{}),
		ListKey("users", Options{Include: "groups"}),
		ListKey("users", Options{Include: "billing"}),
		ListKey("users", Options{Search: "bob"}),
		ListKey("users", Options{Skip: 10, Limit: 10}),
		DetailKey("users", "u-1", ""),
		DetailKey("users", "u-1", "groups"),
	}

	seen := make(map[string]Key)
	for _, k := range keys {
		if prev, ok := seen[k.String()]; ok {
			t.Errorf("key collision: %v and %v both map to %q", prev, k, k.String())
		}
		seen[k.String()] = k
	}
}

func TestKeyHasPrefix(t *testing.T) {
	tests := []struct {
		name   string
		key    Key
		prefix Key
		want   bool
	}{
		{"FamilyCoversList", ListKey("users", Options{Include: "groups"}), FamilyKey("users"), true},
		{"FamilyCoversDetail", DetailKey("users", "u-1", ""), FamilyKey("users"), true},
		{"OtherFamily", ListKey("groups", Options{}), FamilyKey("users"), false},
		{"PrefixLongerThanKey", FamilyKey("users"), DetailKey("users", "u-1", ""), false},
		{"ExactMatch", FamilyKey("users"), FamilyKey("users"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.HasPrefix(tt.prefix); got != tt.want {
				t.Errorf("HasPrefix(%v, %v) = %v, want %v", tt.key, tt.prefix, got, tt.want)
			}
		})
	}
}

func TestOptionsCanonSkipsZeroValues(t *testing.T) {
	if got := (Options{}).canon(); got != "" {
		t.Errorf("empty options canon = %q, want empty", got)
	}

	got := Options{Include: "groups", Limit: 25}.canon()
	want := "include=groups&limit=25"
	if got != want {
		t.Errorf("canon = %q, want %q", got, want)
	}
}
