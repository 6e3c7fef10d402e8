package model

import "testing"

func TestNormalizeConceptName(t *testing.T) {
	if got := NormalizeConceptName("  Bone "); got != "bone" {
		t.Fatalf("expected bone, got %q", got)
	}
}

func TestAddConceptTypeDeduplicates(t *testing.T) {
	c := &Concept{Name: "dog"}
	c.AddConceptType("animal")
	c.AddConceptType("Animal")
	c.AddConceptType(" pet ")
	c.AddConceptType("")

	if len(c.ConceptTypes) != 2 {
		t.Fatalf("expected 2 types, got %v", c.ConceptTypes)
	}
	if !c.HasType("ANIMAL") || !c.HasType("pet") {
		t.Fatalf("type lookups should be case insensitive, got %v", c.ConceptTypes)
	}
}

func TestGroundingKeyOrderIndependent(t *testing.T) {
	a := GroundingKey("tpl", []string{"c1", "c2"})
	b := GroundingKey("tpl", []string{"c2", "c1"})
	if a != b {
		t.Fatalf("grounding key must not depend on argument order: %q vs %q", a, b)
	}
	if a == GroundingKey("other", []string{"c1", "c2"}) {
		t.Fatal("grounding key must include the template")
	}
}
