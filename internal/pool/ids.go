package pool

import (
	"fmt"

	"github.com/ppiankov/regulqa/internal/model"
)

// UnknownPrefix is used for sources without a registered prefix
const UnknownPrefix = "UNK"

// IDWidth is the zero-padded width of the sequence part of an id
const IDWidth = 6

var sourcePrefixes = map[string]string{
	model.SourcePURE:       "PURE",
	model.SourcePromiseExp: "PROM",
	model.SourceNASATrick:  "NASA",
	model.SourceSynthetic:  "SYN",
	model.SourceDomain:     "DOM",
}

// Prefix returns the id prefix for a source tag
func Prefix(source string) string {
	if p, ok := sourcePrefixes[source]; ok {
		return p
	}
	return UnknownPrefix
}

// FormatID builds "{PREFIX}_{seq}" with the sequence zero-padded to IDWidth
func FormatID(source string, seq int) string {
	return fmt.Sprintf("%s_%0*d", Prefix(source), IDWidth, seq)
}
