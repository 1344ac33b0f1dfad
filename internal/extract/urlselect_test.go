package extract

import (
	"testing"

	"github.com/skovatch/agora/internal/model"
)

const listing = "https://ex.edu/upcoming"

func TestSelectURL_PrefersDetailLink(t *testing.T) {
	c := model.Candidate{
		Title: "Quantum Computing Seminar",
		Links: []model.CandidateLink{
			{URL: "https://ex.edu/about", AnchorText: "About"},
			{URL: "https://ex.edu/events/quantum-computing-seminar", AnchorText: "Quantum Computing Seminar"},
			{URL: "https://ex.edu/index", AnchorText: "Home"},
		},
	}

	got, ok := SelectURL(&c, listing)
	if !ok {
		t.Fatal("Expected a selected URL")
	}
	if got != "https://ex.edu/events/quantum-computing-seminar" {
		t.Errorf("Expected detail link, got %q", got)
	}
}

func TestSelectURL_SkipsSelfReference(t *testing.T) {
	c := model.Candidate{
		Title: "Robotics Open House",
		Links: []model.CandidateLink{
			{URL: listing, AnchorText: "Robotics Open House"},
		},
	}

	if _, ok := SelectURL(&c, listing); ok {
		t.Error("Expected no URL when only the listing itself is linked")
	}
}

func TestSelectURL_AllGenericRejected(t *testing.T) {
	c := model.Candidate{
		Title: "Some Gathering",
		Links: []model.CandidateLink{
			{URL: "https://ex.edu/index2", AnchorText: "click here"},
			{URL: "https://ex.edu/contact", AnchorText: "Contact"},
		},
	}

	if _, ok := SelectURL(&c, listing); ok {
		t.Error("Expected rejection when every link scores as navigation")
	}
}

func TestSelectURL_NoLinks(t *testing.T) {
	c := model.Candidate{Title: "Linkless"}
	if _, ok := SelectURL(&c, listing); ok {
		t.Error("Expected no URL for a linkless candidate")
	}
}

func TestSelectURL_Deterministic(t *testing.T) {
	c := model.Candidate{
		Title: "Genomics Colloquium",
		Links: []model.CandidateLink{
			{URL: "https://ex.edu/events/genomics-1", AnchorText: "Genomics Colloquium details"},
			{URL: "https://ex.edu/events/genomics-2", AnchorText: "Genomics Colloquium details"},
		},
	}

	first, ok := SelectURL(&c, listing)
	if !ok {
		t.Fatal("Expected a selection")
	}
	for i := 0; i < 20; i++ {
		got, _ := SelectURL(&c, listing)
		if got != first {
			t.Fatalf("Selection changed between calls: %q vs %q", got, first)
		}
	}
}

func TestSelectURL_TieBreakLongerAnchor(t *testing.T) {
	c := model.Candidate{
		Title: "Storage Systems Talk",
		Links: []model.CandidateLink{
			{URL: "https://ex.edu/events/short", AnchorText: "Storage Systems Talk"},
			{URL: "https://ex.edu/events/long", AnchorText: "Storage Systems Talk with the authors"},
		},
	}

	got, ok := SelectURL(&c, listing)
	if !ok {
		t.Fatal("Expected a selection")
	}
	if got != "https://ex.edu/events/long" {
		t.Errorf("Expected longer anchor to break the tie, got %q", got)
	}
}
