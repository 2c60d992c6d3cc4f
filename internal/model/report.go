package model

import "time"

// SkipNote records why a table or file was not used
type SkipNote struct {
	Document string `json:"document"`
	Reason   string `json:"reason"`
}

// PoolReport summarizes a pool build
type PoolReport struct {
	TablesRead    int        `json:"tables_read"`
	TablesSkipped int        `json:"tables_skipped"`
	RowsRead      int        `json:"rows_read"`
	RowsDropped   int        `json:"rows_dropped"` // req_text too short after normalization
	Duplicates    int        `json:"duplicates"`
	Records       int        `json:"records"`
	Skipped       []SkipNote `json:"skipped,omitempty"`
}

// Count is a value with its frequency
type Count struct {
	Value string `json:"value"`
	N     int    `json:"n"`
}

// QualitySummary describes the label distribution of a dataset
type QualitySummary struct {
	Total         int      `json:"total"`
	Presence      []Count  `json:"presence"`
	TopTypes      []Count  `json:"top_types"` // ambiguous rows only
	Severity      []Count  `json:"severity"`
	DuplicateText int      `json:"duplicate_text"`
	Sectors       []Count  `json:"sectors"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Manifest is written next to fetched or harvested files
type Manifest struct {
	RunID      string         `json:"run_id"`
	CreatedAt  time.Time      `json:"created_at"`
	Downloaded []string       `json:"downloaded,omitempty"`
	Files      []ManifestFile `json:"files,omitempty"`
}

// ManifestFile is one harvested file and its extracted row count
type ManifestFile struct {
	File string `json:"file"`
	Rows int    `json:"rows"`
}
