package apiclient

import (
	"net/url"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestBuildURL_SingleSlashJoin(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := "http://host" + rapid.StringMatching(`(/[a-z]{1,5}){0,2}/?`).Draw(t, "base")
		path := rapid.StringMatching(`/?[a-z]{1,6}(/[a-z]{1,6}){0,2}`).Draw(t, "path")

		got := buildURL(strings.TrimSuffix(base, "/"), path, nil)
		rest := strings.TrimPrefix(got, "http://")
		if strings.Contains(rest, "//") {
			t.Fatalf("double slash in %q", got)
		}
		if !strings.HasSuffix(got, strings.TrimPrefix(path, "/")) {
			t.Fatalf("path lost in %q", got)
		}
	})
}

func TestQueryEncode_RoundTrips(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys := rapid.SliceOfDistinct(rapid.StringMatching(`[a-z]{1,4}`), func(s string) string { return s }).Draw(t, "keys")
		q := Query{}
		want := url.Values{}
		for _, k := range keys {
			if rapid.Bool().Draw(t, "nil_"+k) {
				q[k] = nil
				continue
			}
			v := rapid.String().Draw(t, "val_"+k)
			q[k] = v
			want.Set(k, v)
		}

		parsed, err := url.ParseQuery(q.encode())
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if want.Encode() != parsed.Encode() {
			t.Fatalf("want %q got %q", want.Encode(), parsed.Encode())
		}
	})
}

func TestQueryEncode_SkipsTypedNil(t *testing.T) {
	var missing *string
	color := "red"
	limit := 3

	q := Query{"a": missing, "b": nil, "c": 1, "d": &color, "e": &limit, "f": []string(nil)}
	if got := q.encode(); got != "c=1&d=red&e=3" {
		t.Fatalf("got %q", got)
	}
}
