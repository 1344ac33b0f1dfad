package classify

import (
	"reflect"
	"testing"

	"github.com/skovatch/agora/internal/keywords"
	"github.com/skovatch/agora/internal/model"
)

const mlTitle = "Machine Learning Workshop"
const mlDesc = "Hands-on machine learning and deep learning research workshop with neural network training."

func TestCategorize_MachineLearningWorkshop(t *testing.T) {
	c := NewCategorizer(keywords.Defaults())

	labels := c.Categorize(mlTitle, mlDesc)
	found := false
	for _, l := range labels {
		if l == "computer science" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected computer science label, got %v", labels)
	}
}

func TestCategorize_NoSignalYieldsNoLabels(t *testing.T) {
	c := NewCategorizer(keywords.Defaults())

	labels := c.Categorize("Pottery Evening", "Bring your own clay and join our relaxed studio session.")
	if len(labels) != 0 {
		t.Errorf("Expected no labels, got %v", labels)
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	c := NewCategorizer(keywords.Defaults())

	first := c.Categorize(mlTitle, mlDesc)
	for i := 0; i < 10; i++ {
		if got := c.Categorize(mlTitle, mlDesc); !reflect.DeepEqual(got, first) {
			t.Fatalf("Run %d differed: %v vs %v", i, got, first)
		}
	}
}

func TestCategorize_DoesNotMutateTables(t *testing.T) {
	tables := keywords.Defaults()
	c := NewCategorizer(tables)

	before := len(tables.Labels[0].Terms)
	weight := tables.Labels[0].Terms["machine learning"]

	c.Categorize(mlTitle, mlDesc)
	c.Categorize("computer virus outbreak biology", "malware analysis of biological data")

	if len(tables.Labels[0].Terms) != before {
		t.Error("Term table size changed during scoring")
	}
	if tables.Labels[0].Terms["machine learning"] != weight {
		t.Error("Term weight changed during scoring")
	}
}

func TestScore_ExclusionDampens(t *testing.T) {
	tables := keywords.Defaults()
	c := NewCategorizer(tables)
	bio := &tables.Labels[1]

	clean := c.Score(bio, "Genetics Research Talk", "A genetics and genomics research study presentation.")
	// Same text plus an exclusion phrase.
	dampened := c.Score(bio, "Genetics Research Talk", "A genetics and genomics research study presentation on artificial neural network methods.")

	if dampened >= clean {
		t.Errorf("Expected exclusion to dampen: clean=%v dampened=%v", clean, dampened)
	}
}

func TestScore_HardExclusionDampensFurther(t *testing.T) {
	tables := keywords.Defaults()
	c := NewCategorizer(tables)
	bio := &tables.Labels[1]

	soft := c.Score(bio, "Virus Talk", "virus research on artificial neural network models")
	hard := c.Score(bio, "Virus Talk", "computer virus research on artificial neural network models")

	if hard >= soft {
		t.Errorf("Expected hard exclusion below soft: soft=%v hard=%v", soft, hard)
	}
}

func TestScore_LongTextNormalized(t *testing.T) {
	tables := keywords.Defaults()
	c := NewCategorizer(tables)
	cs := &tables.Labels[0]

	short := c.Score(cs, "Algorithm Seminar", "algorithm design")
	padding := ""
	for i := 0; i < 100; i++ {
		padding += "unrelated filler words about nothing in particular "
	}
	long := c.Score(cs, "Algorithm Seminar", "algorithm design "+padding)

	if long >= short {
		t.Errorf("Expected normalization to shrink diluted score: short=%v long=%v", short, long)
	}
}

func TestCost(t *testing.T) {
	c := NewCategorizer(keywords.Defaults())

	cases := []struct {
		title, desc string
		want        model.CostType
	}{
		{"Free Python Workshop", "Pizza included.", model.CostFree},
		{"Data Summit", "Tickets from $299.", model.CostPaid},
		{"Lab Open House", "Drop by and meet the group.", model.CostUnknown},
		// "free" wins over "$" when both appear.
		{"Community Day", "Free admission, $5 suggested donation.", model.CostFree},
	}
	for _, tc := range cases {
		if got := c.Cost(tc.title, tc.desc); got != tc.want {
			t.Errorf("Cost(%q) = %v, want %v", tc.title, got, tc.want)
		}
	}
}
