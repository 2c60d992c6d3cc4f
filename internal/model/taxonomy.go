package model

import "strings"

// Tier is the provenance tier of a raw dataset
type Tier string

const (
	TierT1 Tier = "T1" // Established public datasets
	TierT2 Tier = "T2" // Synthetically generated
	TierT3 Tier = "T3" // Harvested domain documents
)

// TierFromFolder derives the tier from a raw folder name (t1_*, t2_*, else T3)
func TierFromFolder(folder string) Tier {
	switch {
	case strings.HasPrefix(folder, "t1_"):
		return TierT1
	case strings.HasPrefix(folder, "t2_"):
		return TierT2
	default:
		return TierT3
	}
}

// Rank orders tiers T1 < T2 < T3; unknown tiers sort last
func (t Tier) Rank() int {
	switch t {
	case TierT1:
		return 1
	case TierT2:
		return 2
	case TierT3:
		return 3
	default:
		return 4
	}
}

// Sector is the inferred domain of a requirement
type Sector string

const (
	SectorAutomotive Sector = "automotive"
	SectorMedical    Sector = "medical"
	SectorAerospace  Sector = "aerospace"
	SectorRail       Sector = "rail"
	SectorFinance    Sector = "finance"
	SectorDefense    Sector = "defense"
	SectorEnergy     Sector = "energy"
	SectorGeneral    Sector = "general"
)

// Sectors lists the closed sector taxonomy
var Sectors = []Sector{
	SectorAutomotive, SectorMedical, SectorAerospace, SectorRail,
	SectorFinance, SectorDefense, SectorEnergy, SectorGeneral,
}

// Valid reports whether s belongs to the taxonomy
func (s Sector) Valid() bool {
	for _, known := range Sectors {
		if s == known {
			return true
		}
	}
	return false
}

// Presence is the ambiguity verdict of a requirement
type Presence string

const (
	PresenceUnlabeled Presence = ""
	PresenceClear     Presence = "clear"
	PresenceAmbiguous Presence = "ambiguous"
)

// Valid reports whether p is a known presence value
func (p Presence) Valid() bool {
	switch p {
	case PresenceUnlabeled, PresenceClear, PresenceAmbiguous:
		return true
	}
	return false
}

// Category is the linguistic category of an ambiguity rule
type Category string

const (
	CategoryLexical   Category = "lexical"
	CategorySyntactic Category = "syntactic"
	CategorySemantic  Category = "semantic"
)

// Severity estimates the impact of an ambiguity
type Severity string

const (
	SeverityNone   Severity = ""
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Valid reports whether s is a known severity value
func (s Severity) Valid() bool {
	switch s {
	case SeverityNone, SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}
