package streams

import "testing"

func TestSplitAddrs(t *testing.T) {
	cases := map[string][]string{
		"localhost:9092":          {"localhost:9092"},
		"h1:9092,h2:9092":         {"h1:9092", "h2:9092"},
		"h1:9092, h2:9092,h3:9092": {"h1:9092", " h2:9092", "h3:9092"},
	}
	for in, want := range cases {
		got := splitAddrs(in)
		if len(got) != len(want) {
			t.Fatalf("splitAddrs(%q) = %v, want %v", in, got, want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("splitAddrs(%q)[%d] = %q, want %q", in, i, got[i], want[i])
			}
		}
	}
}
