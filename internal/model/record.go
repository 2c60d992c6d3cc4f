package model

// Record is one requirement candidate in the pool.
// Annotation fields stay empty until the rule engine (or a human) fills them.
type Record struct {
	ID            string   `json:"id"`
	Source        string   `json:"source"`
	Tier          Tier     `json:"tier"`
	Sector        Sector   `json:"sector"`
	Document      string   `json:"document"`
	ReqText       string   `json:"req_text"`
	AmbigPresence Presence `json:"ambig_presence"`
	AmbigType     string   `json:"ambig_type"`
	RegClause     string   `json:"reg_clause"`
	Severity      Severity `json:"severity"`
	Notes         string   `json:"notes"`
}

// Columns is the exact column order of pool and labeled tables.
var Columns = []string{
	"id", "source", "tier", "sector", "document", "req_text",
	"ambig_presence", "ambig_type", "reg_clause", "severity", "notes",
}

// Row renders the record in Columns order.
func (r Record) Row() []string {
	return []string{
		r.ID,
		r.Source,
		string(r.Tier),
		string(r.Sector),
		r.Document,
		r.ReqText,
		string(r.AmbigPresence),
		r.AmbigType,
		r.RegClause,
		string(r.Severity),
		r.Notes,
	}
}

// RecordFromRow builds a record from a row using a header index.
// Missing columns are left empty.
func RecordFromRow(index map[string]int, row []string) Record {
	get := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	return Record{
		ID:            get("id"),
		Source:        get("source"),
		Tier:          Tier(get("tier")),
		Sector:        Sector(get("sector")),
		Document:      get("document"),
		ReqText:       get("req_text"),
		AmbigPresence: Presence(get("ambig_presence")),
		AmbigType:     get("ambig_type"),
		RegClause:     get("reg_clause"),
		Severity:      Severity(get("severity")),
		Notes:         get("notes"),
	}
}

// Annotated reports whether any annotation column holds a value.
func (r Record) Annotated() bool {
	return r.AmbigPresence != "" || r.AmbigType != "" || r.RegClause != "" || r.Severity != "" || r.Notes != ""
}

// RawTable is one parsed raw file together with its provenance.
type RawTable struct {
	Source   string     `json:"source"`
	Tier     Tier       `json:"tier"`
	Document string     `json:"document"`
	Path     string     `json:"path,omitempty"`
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
}

// Empty reports whether the table has no data rows.
func (t RawTable) Empty() bool {
	return len(t.Rows) == 0
}
