package extract

import "github.com/ppiankov/regulqa/internal/model"

// DedupeStrings removes repeated strings, keeping the first occurrence
func DedupeStrings(items []string) []string {
	seen := make(map[string]bool, len(items))
	unique := make([]string, 0, len(items))

	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			unique = append(unique, item)
		}
	}

	return unique
}

// DedupeRecords keeps the first record for each exact req_text and returns
// the survivors in input order together with the number of dropped rows
func DedupeRecords(records []model.Record) ([]model.Record, int) {
	seen := make(map[string]bool, len(records))
	unique := make([]model.Record, 0, len(records))

	for _, rec := range records {
		if seen[rec.ReqText] {
			continue
		}
		seen[rec.ReqText] = true
		unique = append(unique, rec)
	}

	return unique, len(records) - len(unique)
}
