package normalize

import "testing"

func TestLookupPath(t *testing.T) {
	rec := map[string]any{
		"a": map[string]any{
			"b": map[string]any{"c": "deep"},
		},
		"top":  "value",
		"null": nil,
	}

	tests := []struct {
		name   string
		path   []string
		want   any
		wantOK bool
	}{
		{name: "top level", path: []string{"top"}, want: "value", wantOK: true},
		{name: "nested", path: []string{"a", "b", "c"}, want: "deep", wantOK: true},
		{name: "intermediate object", path: []string{"a", "b"}, want: rec["a"].(map[string]any)["b"], wantOK: true},
		{name: "missing key", path: []string{"a", "x"}, wantOK: false},
		{name: "through non-object", path: []string{"top", "x"}, wantOK: false},
		{name: "null value is present", path: []string{"null"}, want: nil, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := lookupPath(rec, tt.path)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			// Intermediate-object case compares identity loosely.
			if s, isStr := tt.want.(string); isStr {
				if got != s {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestFirstMatch_OrderAndHalt(t *testing.T) {
	rec := map[string]any{"first": "skip-me", "second": "use-me", "third": "never"}

	skip := func(any) (any, outcome) { return nil, miss }
	use := func(v any) (any, outcome) { return v, match }
	stop := func(any) (any, outcome) { return nil, halt }

	t.Run("first match wins", func(t *testing.T) {
		got, ok := firstMatch(rec, []candidate{
			{path: []string{"first"}, conv: skip},
			{path: []string{"second"}, conv: use},
			{path: []string{"third"}, conv: use},
		})
		if !ok || got != "use-me" {
			t.Errorf("got (%v, %v), want (use-me, true)", got, ok)
		}
	})

	t.Run("halt stops the scan", func(t *testing.T) {
		visited := false
		spy := func(v any) (any, outcome) {
			visited = true
			return v, match
		}
		_, ok := firstMatch(rec, []candidate{
			{path: []string{"first"}, conv: stop},
			{path: []string{"second"}, conv: spy},
		})
		if ok {
			t.Error("halt must leave the field unmatched")
		}
		if visited {
			t.Error("candidates after a halt must not be evaluated")
		}
	})

	t.Run("absent paths are skipped silently", func(t *testing.T) {
		called := false
		spy := func(v any) (any, outcome) {
			called = true
			return nil, miss
		}
		_, ok := firstMatch(rec, []candidate{
			{path: []string{"missing"}, conv: spy},
		})
		if ok || called {
			t.Error("conversion must not run for unresolved paths")
		}
	})
}

func TestAsStringOrInt(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    string
		matched bool
	}{
		{name: "string", value: "abc", want: "abc", matched: true},
		{name: "whole float", value: float64(42), want: "42", matched: true},
		{name: "fractional float", value: 42.5, matched: false},
		{name: "bool", value: true, matched: false},
		{name: "nil", value: nil, matched: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, out := asStringOrInt(tt.value)
			if tt.matched {
				if out != match || got != tt.want {
					t.Errorf("got (%v, %v), want (%q, match)", got, out, tt.want)
				}
				return
			}
			if out == match {
				t.Errorf("expected miss for %v", tt.value)
			}
		})
	}
}
