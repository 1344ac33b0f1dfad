package keywords

import "testing"

func TestContainsTerm_ShortTermsNeedWordBoundaries(t *testing.T) {
	if ContainsTerm("building maintainable software", "ai") {
		t.Error(`"maintainable" must not match "ai"`)
	}
	if !ContainsTerm("applied ai in the clinic", "ai") {
		t.Error(`standalone "ai" should match`)
	}
	if !ContainsTerm("hosted at mit", "mit") {
		t.Error(`trailing "mit" should match`)
	}
	if ContainsTerm("permittivity studies", "mit") {
		t.Error(`"permittivity" must not match "mit"`)
	}
	if ContainsTerm("annual vendor summit", "mit") {
		t.Error(`"summit" must not match "mit"`)
	}
}

func TestContainsAnyTerm(t *testing.T) {
	terms := []string{"mit", "cambridge"}
	if !ContainsAnyTerm("seminar in cambridge", terms) {
		t.Error("Expected long-term match")
	}
	if ContainsAnyTerm("vendor summit in las vegas", terms) {
		t.Error("Expected no match inside unrelated words")
	}
}
