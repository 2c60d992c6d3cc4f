package validate

import (
	"github.com/ppiankov/regulqa/internal/model"
)

// ProvenanceClassifier maps source tags to the tier of the raw folder they
// are read from
type ProvenanceClassifier struct {
	tiers map[string]model.Tier
}

// NewProvenanceClassifier builds the classifier from the folder layout.
// A nil layout uses model.DefaultFolders.
func NewProvenanceClassifier(folders []model.FolderSource) *ProvenanceClassifier {
	if folders == nil {
		folders = model.DefaultFolders()
	}

	c := &ProvenanceClassifier{tiers: make(map[string]model.Tier)}
	for _, f := range folders {
		// First folder wins when a source is listed twice
		if _, ok := c.tiers[f.Source]; !ok {
			c.tiers[f.Source] = model.TierFromFolder(f.Folder)
		}
	}
	return c
}

// Tier returns the expected tier of source and whether the source is known
func (c *ProvenanceClassifier) Tier(source string) (model.Tier, bool) {
	tier, ok := c.tiers[source]
	return tier, ok
}
