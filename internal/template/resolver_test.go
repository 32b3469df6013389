package template

import (
	"reflect"
	"testing"
)

func TestResolveDefaults(t *testing.T) {
	specs := ExtractArguments(`Hi {argument name="x" default="Bob"} and {argument name="y"}`)
	values := Resolve(specs, nil)

	want := map[string]string{"x": "Bob", "y": ""}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("Resolve = %v, want %v", values, want)
	}
}

func TestResolveSuppliedWins(t *testing.T) {
	specs := ExtractArguments(`{argument name="x" default="Bob"}`)
	values := Resolve(specs, map[string]string{"x": "Alice"})
	if values["x"] != "Alice" {
		t.Errorf("supplied value should win over default, got %q", values["x"])
	}
}

func TestResolveExplicitEmptyOverride(t *testing.T) {
	specs := ExtractArguments(`{argument name="x" default="Bob"}`)
	values := Resolve(specs, map[string]string{"x": ""})
	if values["x"] != "" {
		t.Errorf("explicit empty string should override default, got %q", values["x"])
	}
}

func TestResolveExtraSuppliedIgnored(t *testing.T) {
	specs := ExtractArguments(`{argument name="x"}`)
	values := Resolve(specs, map[string]string{"x": "v", "unrelated": "w"})
	if len(values) != 1 || values["x"] != "v" {
		t.Errorf("Resolve = %v, want only x=v", values)
	}
}

func TestResolveFirstOccurrenceEstablishesDefault(t *testing.T) {
	specs := ExtractArguments(`{argument name="x" default="first"} {argument name="x" default="second"}`)
	values := Resolve(specs, nil)
	if values["x"] != "first" {
		t.Errorf("first-seen default should win, got %q", values["x"])
	}
}

func TestDistinctSpecs(t *testing.T) {
	specs := ExtractArguments(`{argument name="b"} {argument name="a"} {argument name="b" default="v"}`)
	distinct := DistinctSpecs(specs)
	if len(distinct) != 2 {
		t.Fatalf("expected 2 distinct specs, got %d", len(distinct))
	}
	if distinct[0].Name != "b" || distinct[1].Name != "a" {
		t.Errorf("unexpected order: %v", distinct)
	}
	if distinct[0].HasDefault {
		t.Error("first occurrence of b has no default; later defaults must not leak in")
	}
}
