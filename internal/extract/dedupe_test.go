package extract

import (
	"reflect"
	"testing"

	"github.com/ppiankov/regulqa/internal/model"
)

func TestDedupeStrings_PreservesOrder(t *testing.T) {
	got := DedupeStrings([]string{"b", "a", "b", "c", "a"})
	want := []string{"b", "a", "c"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestDedupeStrings_ExactMatchOnly(t *testing.T) {
	got := DedupeStrings([]string{"Shall log.", "shall log.", "Shall log. "})
	if len(got) != 3 {
		t.Errorf("Expected no fuzzy matching, got %q", got)
	}
}

func TestDedupeRecords_FirstOccurrenceWins(t *testing.T) {
	records := []model.Record{
		{Source: "PURE", ReqText: "The system shall log all faults."},
		{Source: "PURE", ReqText: "The pump shall stop."},
		{Source: "DOMAIN", ReqText: "The system shall log all faults."},
		{Source: "DOMAIN", ReqText: "The valve shall close."},
	}

	unique, dropped := DedupeRecords(records)

	if dropped != 1 {
		t.Errorf("Expected 1 dropped row, got %d", dropped)
	}
	if len(unique) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(unique))
	}
	if unique[0].Source != "PURE" {
		t.Errorf("Expected first occurrence (PURE) to survive, got %s", unique[0].Source)
	}

	var texts []string
	for _, r := range unique {
		texts = append(texts, r.ReqText)
	}
	want := []string{"The system shall log all faults.", "The pump shall stop.", "The valve shall close."}
	if !reflect.DeepEqual(texts, want) {
		t.Errorf("Expected order %q, got %q", want, texts)
	}
}

func TestDedupeRecords_Empty(t *testing.T) {
	unique, dropped := DedupeRecords(nil)
	if len(unique) != 0 || dropped != 0 {
		t.Errorf("Expected empty result, got %d records, %d dropped", len(unique), dropped)
	}
}
