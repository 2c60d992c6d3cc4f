package score

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/regulqa/internal/model"
)

func TestSummarize(t *testing.T) {
	records := []model.Record{
		{ReqText: "A shall be done.", Sector: model.SectorGeneral, AmbigPresence: model.PresenceAmbiguous, AmbigType: "syntactic", Severity: model.SeverityLow},
		{ReqText: "B should be fast.", Sector: model.SectorGeneral, AmbigPresence: model.PresenceAmbiguous, AmbigType: "lexical;syntactic", Severity: model.SeverityLow},
		{ReqText: "C shall be done.", Sector: model.SectorRail, AmbigPresence: model.PresenceAmbiguous, AmbigType: "syntactic", Severity: model.SeverityMedium},
		{ReqText: "D processes.", Sector: model.SectorRail, AmbigPresence: model.PresenceClear},
		{ReqText: "D processes.", Sector: model.SectorRail, AmbigPresence: model.PresenceClear},
	}

	s := Summarize(records)

	if s.Total != 5 {
		t.Errorf("Expected total 5, got %d", s.Total)
	}
	if s.DuplicateText != 1 {
		t.Errorf("Expected 1 duplicate, got %d", s.DuplicateText)
	}

	wantPresence := []model.Count{{Value: "ambiguous", N: 3}, {Value: "clear", N: 2}}
	if diff := cmp.Diff(wantPresence, s.Presence); diff != "" {
		t.Errorf("presence mismatch (-want +got):\n%s", diff)
	}

	wantTypes := []model.Count{{Value: "syntactic", N: 2}, {Value: "lexical;syntactic", N: 1}}
	if diff := cmp.Diff(wantTypes, s.TopTypes); diff != "" {
		t.Errorf("types mismatch (-want +got):\n%s", diff)
	}

	wantSeverity := []model.Count{{Value: "low", N: 2}, {Value: "medium", N: 1}}
	if diff := cmp.Diff(wantSeverity, s.Severity); diff != "" {
		t.Errorf("severity mismatch (-want +got):\n%s", diff)
	}

	wantSectors := []model.Count{{Value: "rail", N: 3}, {Value: "general", N: 2}}
	if diff := cmp.Diff(wantSectors, s.Sectors); diff != "" {
		t.Errorf("sectors mismatch (-want +got):\n%s", diff)
	}

	if len(s.Warnings) != 1 {
		t.Errorf("Expected a single duplicate warning, got %v", s.Warnings)
	}
}

func TestSummarize_TopTypesLimit(t *testing.T) {
	var records []model.Record
	for i := 0; i < TopTypesLimit+5; i++ {
		records = append(records, model.Record{
			ReqText:       string(rune('a'+i)) + " shall be done.",
			AmbigPresence: model.PresenceAmbiguous,
			AmbigType:     string(rune('a' + i)),
			Severity:      model.SeverityLow,
		})
	}

	s := Summarize(records)
	if len(s.TopTypes) != TopTypesLimit {
		t.Errorf("Expected %d top types, got %d", TopTypesLimit, len(s.TopTypes))
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 {
		t.Errorf("Expected total 0, got %d", s.Total)
	}
	if len(s.Warnings) != 1 || s.Warnings[0] != "Dataset is empty" {
		t.Errorf("Expected empty-dataset warning, got %v", s.Warnings)
	}
}
