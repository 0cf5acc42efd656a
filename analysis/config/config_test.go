package config

import "testing"

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.UnresolvedPolicy != PolicyAllLive {
		t.Errorf("default policy = %q, expected %q", cfg.UnresolvedPolicy, PolicyAllLive)
	}
	if cfg.TransitiveQueries {
		t.Error("transitive queries enabled by default")
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
unresolved-policy: none
transitive-queries: true
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UnresolvedPolicy != PolicyNone {
		t.Errorf("policy = %q, expected %q", cfg.UnresolvedPolicy, PolicyNone)
	}
	if !cfg.TransitiveQueries {
		t.Error("transitive-queries not picked up")
	}
}

func TestParseEmptyPolicy(t *testing.T) {
	cfg, err := Parse([]byte(`verbose: true`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UnresolvedPolicy != PolicyAllLive {
		t.Errorf("absent policy should default to %q, got %q", PolicyAllLive, cfg.UnresolvedPolicy)
	}
}

func TestCoreSet(t *testing.T) {
	cfg, err := Parse([]byte(`
core-terms: [x, (add x 1)]
`))
	if err != nil {
		t.Fatal(err)
	}
	set := cfg.CoreSet()
	if !set["x"] || !set["(add x 1)"] {
		t.Error("configured core terms missing from the set")
	}
	if set["y"] {
		t.Error("unconfigured term in the set")
	}

	if Default().CoreSet() != nil {
		t.Error("empty configuration produced a non-nil core set")
	}
}

func TestParseRejectsUnknownPolicy(t *testing.T) {
	if _, err := Parse([]byte(`unresolved-policy: optimistic`)); err == nil {
		t.Error("unknown policy accepted")
	}
}

func TestParseRejectsUnknownField(t *testing.T) {
	if _, err := Parse([]byte(`no-such-field: 1`)); err == nil {
		t.Error("unknown field accepted")
	}
}
