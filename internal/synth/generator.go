package synth

import (
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"

	"github.com/ppiankov/regulqa/internal/dataset"
	"github.com/ppiankov/regulqa/internal/model"
)

// OutputFile is the synthetic table written into the t2 folder
const OutputFile = "synthetic_requirements.csv"

// Columns of the synthetic table
var Columns = []string{"sector", "document", "req_text"}

// SectorTemplates is the template set of one sector. Templates use the
// placeholders {verb}, {ms} and {cond}.
type SectorTemplates struct {
	Sector    model.Sector
	Templates []string
}

// DefaultTemplates returns the automotive, medical and aerospace templates in generation order
func DefaultTemplates() []SectorTemplates {
	return []SectorTemplates{
		{model.SectorAutomotive, []string{
			"Per ISO 26262, the ECU shall {verb} the braking command within {ms} ms under {cond}.",
			"The vehicle control unit shall {verb} torque request when {cond} in accordance with ISO 26262.",
			"The autonomous driving stack shall {verb} sensor fusion output within {ms} ms (ISO 26262 ASIL).",
		}},
		{model.SectorMedical, []string{
			"As required by IEC 62304, the medical device software shall {verb} patient vitals at an interval of {ms} ms.",
			"The device shall {verb} alarm when {cond} per IEC 62304 risk control requirements.",
			"Per IEC 62304, the software shall {verb} dosage calculation when {cond}.",
		}},
		{model.SectorAerospace, []string{
			"In accordance with DO-178C avionics objectives, the flight SW shall {verb} telemetry packets within {ms} ms after {cond}.",
			"DO-178C: The system shall {verb} mode transition when {cond}.",
			"Per DO-178C, the avionics application shall {verb} command dispatch within {ms} ms.",
		}},
	}
}

var (
	verbs      = []string{"log", "validate", "transmit", "compute", "limit", "store"}
	msec       = []string{"10", "20", "50", "100", "200"}
	conditions = []string{"loss of signal", "over-temperature", "sensor fault", "voltage drop"}
)

// Generator fills the templates with random slot values. The same seed
// always yields the same rows.
type Generator struct {
	rng       *rand.Rand
	templates []SectorTemplates
}

// NewGenerator creates a generator over the default templates
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		templates: DefaultTemplates(),
	}
}

// Row is one synthetic requirement
type Row struct {
	Sector   model.Sector
	Document string
	ReqText  string
}

// Generate returns perSector rows for every sector, sector by sector
func (g *Generator) Generate(perSector int) []Row {
	rows := make([]Row, 0, perSector*len(g.templates))
	for _, st := range g.templates {
		doc := strings.ToUpper(string(st.Sector)) + "_SYNTH"
		for i := 0; i < perSector; i++ {
			tpl := pick(g.rng, st.Templates)
			text := strings.NewReplacer(
				"{verb}", pick(g.rng, verbs),
				"{ms}", pick(g.rng, msec),
				"{cond}", pick(g.rng, conditions),
			).Replace(tpl)
			rows = append(rows, Row{Sector: st.Sector, Document: doc, ReqText: text})
		}
	}
	return rows
}

// Write generates perSector rows per sector into t2Dir/OutputFile and returns the path
func (g *Generator) Write(t2Dir string, perSector int) (string, int, error) {
	if perSector < 0 {
		return "", 0, fmt.Errorf("rows per sector must not be negative: %d", perSector)
	}

	rows := g.Generate(perSector)
	table := make([][]string, len(rows))
	for i, r := range rows {
		table[i] = []string{string(r.Sector), r.Document, r.ReqText}
	}

	path := filepath.Join(t2Dir, OutputFile)
	if err := dataset.WriteCSV(path, Columns, table); err != nil {
		return "", 0, err
	}
	return path, len(rows), nil
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}
