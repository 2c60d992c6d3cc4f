package pool

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ppiankov/regulqa/internal/model"
	"gopkg.in/yaml.v3"
)

// sectorHint is one entry of the keyword table
type sectorHint struct {
	sector   model.Sector
	keywords []string
}

// sectorHints is scanned in declared order; the first sector with a substring hit wins
var sectorHints = []sectorHint{
	{model.SectorAutomotive, []string{"automotive", "vehicle", "car", "iso 26262", "ecu", "autonomous"}},
	{model.SectorMedical, []string{"medical", "health", "patient", "device", "iec 62304", "hl7", "fhir"}},
	{model.SectorAerospace, []string{"aerospace", "space", "nasa", "avionics", "do-178c", "aircraft"}},
	{model.SectorRail, []string{"rail", "train", "signaling", "ertms"}},
	{model.SectorFinance, []string{"bank", "finance", "trading", "payment", "pci"}},
	{model.SectorDefense, []string{"defense", "military", "weapon"}},
	{model.SectorEnergy, []string{"grid", "energy", "power plant", "scada"}},
}

// SectorEngine resolves the domain sector of a record.
// Precedence: document override, then known provenance, then keywords, then general.
type SectorEngine struct {
	overrides map[string]string
}

// NewSectorEngine creates a sector engine; a nil override map is treated as empty
func NewSectorEngine(overrides map[string]string) *SectorEngine {
	if overrides == nil {
		overrides = map[string]string{}
	}
	return &SectorEngine{overrides: overrides}
}

// Infer returns the sector for rec
func (e *SectorEngine) Infer(rec model.Record) model.Sector {
	doc := strings.TrimSpace(rec.Document)
	if sector, ok := e.overrides[doc]; ok {
		return model.Sector(strings.TrimSpace(sector))
	}

	if rec.Source == model.SourceNASATrick {
		return model.SectorAerospace
	}

	haystack := strings.ToLower(rec.Document + " " + rec.ReqText)
	for _, hint := range sectorHints {
		for _, kw := range hint.keywords {
			if strings.Contains(haystack, kw) {
				return hint.sector
			}
		}
	}

	return model.SectorGeneral
}

// LoadOverrides reads a YAML document→sector map. A missing file yields an empty map.
func LoadOverrides(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}

	overrides := map[string]string{}
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse overrides %s: %w", path, err)
	}
	return overrides, nil
}
