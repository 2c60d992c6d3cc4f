package pool

import (
	"errors"
	"testing"

	"github.com/ppiankov/regulqa/internal/model"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func table(source string, tier model.Tier, doc string, cols []string, rows ...string) model.RawTable {
	t := model.RawTable{Source: source, Tier: tier, Document: doc, Columns: cols}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r})
	}
	return t
}

func TestBuild_CrossSourceDedup(t *testing.T) {
	tables := []model.RawTable{
		table(model.SourceDomain, model.TierT3, "harvest.csv", []string{"req_text"},
			"The system shall log all faults."),
		table(model.SourcePURE, model.TierT1, "pure.csv", []string{"Text"},
			"The   system shall log\tall faults.  "),
	}

	res, err := NewBuilder(nil, nil).Build(tables)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(res.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(res.Records))
	}

	rec := res.Records[0]
	if rec.Source != model.SourcePURE {
		t.Errorf("Expected first-tier source PURE, got %s", rec.Source)
	}
	if rec.ReqText != "The system shall log all faults." {
		t.Errorf("Expected normalized text, got %q", rec.ReqText)
	}
	if rec.ID != "PURE_000000" {
		t.Errorf("Expected id PURE_000000, got %s", rec.ID)
	}
	if res.Report.Duplicates != 1 {
		t.Errorf("Expected 1 duplicate, got %d", res.Report.Duplicates)
	}
}

func TestBuild_SequentialIDsAcrossSources(t *testing.T) {
	tables := []model.RawTable{
		table(model.SourcePURE, model.TierT1, "a.csv", []string{"text"},
			"The pump shall stop on fault.", "The valve shall open in 10 ms."),
		table(model.SourceSynthetic, model.TierT2, "b.csv", []string{"req_text"},
			"The ECU shall log every reset."),
		table("MYSTERY", model.TierT3, "c.csv", []string{"sentence"},
			"The gateway shall reject bad frames."),
	}

	res, err := NewBuilder(nil, nil).Build(tables)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []string{"PURE_000000", "PURE_000001", "SYN_000002", "UNK_000003"}
	if len(res.Records) != len(want) {
		t.Fatalf("Expected %d records, got %d", len(want), len(res.Records))
	}
	for i, id := range want {
		if res.Records[i].ID != id {
			t.Errorf("Record %d: expected %s, got %s", i, id, res.Records[i].ID)
		}
		if res.Records[i].Annotated() {
			t.Errorf("Record %d: expected empty annotation columns", i)
		}
	}
}

func TestBuild_IDsStableAcrossRuns(t *testing.T) {
	tables := []model.RawTable{
		table(model.SourceNASATrick, model.TierT1, "srs.csv", []string{"requirement"},
			"The flight software shall reject stale telemetry.",
			"The system shall record every command."),
	}

	first, err := NewBuilder(nil, nil).Build(tables)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	second, err := NewBuilder(nil, nil).Build(tables)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for i := range first.Records {
		if first.Records[i].ID != second.Records[i].ID {
			t.Errorf("Record %d: id changed between runs: %s vs %s", i, first.Records[i].ID, second.Records[i].ID)
		}
	}
}

func TestBuild_DropsShortText(t *testing.T) {
	tables := []model.RawTable{
		table(model.SourcePURE, model.TierT1, "a.csv", []string{"text"},
			"short", "  ", "six ch", "The device shall beep."),
	}

	res, err := NewBuilder(nil, nil).Build(tables)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(res.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(res.Records))
	}
	if res.Records[0].ReqText != "six ch" {
		t.Errorf("Expected six-character text to survive, got %q", res.Records[0].ReqText)
	}
	if res.Report.RowsDropped != 2 {
		t.Errorf("Expected 2 dropped rows, got %d", res.Report.RowsDropped)
	}
}

func TestBuild_SkipsTablesWithoutTextColumn(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	builder := NewBuilder(nil, zap.New(core))

	tables := []model.RawTable{
		table(model.SourcePURE, model.TierT1, "bad.csv", []string{"body"}, "The system shall work."),
		table(model.SourcePURE, model.TierT1, "empty.csv", []string{"text"}),
		table(model.SourcePURE, model.TierT1, "good.csv", []string{"text"}, "The system shall restart."),
	}

	res, err := builder.Build(tables)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if res.Report.TablesSkipped != 2 {
		t.Errorf("Expected 2 skipped tables, got %d", res.Report.TablesSkipped)
	}
	if res.Report.TablesRead != 1 {
		t.Errorf("Expected 1 table read, got %d", res.Report.TablesRead)
	}

	entries := logs.FilterMessage("skipping table").All()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 skip log entries, got %d", len(entries))
	}
	if doc := entries[0].ContextMap()["document"]; doc != "bad.csv" {
		t.Errorf("Expected skip log for bad.csv, got %v", doc)
	}
}

func TestBuild_NoInput(t *testing.T) {
	if _, err := NewBuilder(nil, nil).Build(nil); !errors.Is(err, ErrNoInput) {
		t.Errorf("Expected ErrNoInput for no tables, got %v", err)
	}

	empty := []model.RawTable{table(model.SourcePURE, model.TierT1, "a.csv", []string{"text"})}
	if _, err := NewBuilder(nil, nil).Build(empty); !errors.Is(err, ErrNoInput) {
		t.Errorf("Expected ErrNoInput for empty tables, got %v", err)
	}

	tiny := []model.RawTable{table(model.SourcePURE, model.TierT1, "a.csv", []string{"text"}, "ok", "no")}
	if _, err := NewBuilder(nil, nil).Build(tiny); !errors.Is(err, ErrNoInput) {
		t.Errorf("Expected ErrNoInput when every row is dropped, got %v", err)
	}
}

func TestBuild_AssignsSectors(t *testing.T) {
	sectors := NewSectorEngine(map[string]string{"pump.csv": " medical "})
	tables := []model.RawTable{
		table(model.SourcePURE, model.TierT1, "pump.csv", []string{"text"}, "The pump shall stop."),
		table(model.SourceNASATrick, model.TierT1, "trick.csv", []string{"text"}, "The bank shall settle."),
	}

	res, err := NewBuilder(sectors, nil).Build(tables)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if res.Records[0].Sector != model.SectorMedical {
		t.Errorf("Expected override sector medical, got %s", res.Records[0].Sector)
	}
	if res.Records[1].Sector != model.SectorAerospace {
		t.Errorf("Expected aerospace for NASA source, got %s", res.Records[1].Sector)
	}
}
