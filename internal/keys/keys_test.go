package keys

import "testing"

func TestBuilderNamespaces(t *testing.T) {
	b := New("cache:")

	if got := b.Data("user:1"); got != "cache:user:1" {
		t.Fatalf("Data: %q", got)
	}
	if got := b.Tag("hot"); got != "cache:tag:hot" {
		t.Fatalf("Tag: %q", got)
	}
	if got := b.KeyTags("user:1"); got != "cache:key_tags:user:1" {
		t.Fatalf("KeyTags: %q", got)
	}
}

func TestIsIndex(t *testing.T) {
	b := New("cache:")

	cases := []struct {
		key  string
		want bool
	}{
		{"cache:tag:hot", true},
		{"cache:key_tags:user:1", true},
		{"cache:user:1", false},
		{"cache:tagless", false},   // "tag" without the colon is data
		{"cache:key_tagsy", false}, // prefix of the namespace is not the namespace
		{"other:tag:hot", false},   // foreign prefix
		{"cache:", false},          // empty key is data, odd but not index
		{"cache:tag:", true},       // empty tag still lands in the namespace
		{"cache:key_tags:", true},
		{"cache:user:tag:nested", false},
	}
	for _, tc := range cases {
		if got := b.IsIndex(tc.key); got != tc.want {
			t.Errorf("IsIndex(%q)=%v want %v", tc.key, got, tc.want)
		}
	}
}

func TestTrimData(t *testing.T) {
	b := New("cache:")

	if got, ok := b.TrimData("cache:user:1"); !ok || got != "user:1" {
		t.Fatalf("TrimData data key: %q %v", got, ok)
	}
	if _, ok := b.TrimData("cache:tag:hot"); ok {
		t.Fatalf("TrimData must reject tag namespace")
	}
	if _, ok := b.TrimData("cache:key_tags:user:1"); ok {
		t.Fatalf("TrimData must reject key_tags namespace")
	}
	if _, ok := b.TrimData("other:user:1"); ok {
		t.Fatalf("TrimData must reject foreign prefixes")
	}
}
