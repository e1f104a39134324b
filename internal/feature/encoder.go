package feature

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/hangry-labs/siteselect/internal/artifact"
)

// Encoder maps district and category strings to the integer codes fixed at
// training time. The code tables come from the bundle metadata, so encoding
// stays aligned with the models regardless of reference-table row order.
type Encoder struct {
	districts  map[string]int
	categories map[string]int
}

// NewEncoder builds an Encoder from the bundle's metadata code tables.
func NewEncoder(b *artifact.Bundle) *Encoder {
	return &Encoder{
		districts:  codeTable(b.Districts),
		categories: codeTable(b.Categories),
	}
}

// District returns the training-time code for a district name. Values not
// seen at training time encode as 0; this silently degrades prediction
// quality rather than failing the request.
func (e *Encoder) District(name string) int {
	return e.lookup(e.districts, name, "district")
}

// Category returns the training-time code for a category name. Unknown
// values encode as 0.
func (e *Encoder) Category(name string) int {
	return e.lookup(e.categories, name, "category")
}

func (e *Encoder) lookup(table map[string]int, value, kind string) int {
	code, ok := table[Normalize(value)]
	if !ok {
		zap.L().Debug("feature: unknown categorical value encoded as 0",
			zap.String("kind", kind),
			zap.String("value", value),
		)
		return 0
	}
	return code
}

func codeTable(values []string) map[string]int {
	table := make(map[string]int, len(values))
	for i, v := range values {
		table[Normalize(v)] = i
	}
	return table
}

// Normalize canonicalizes a categorical value for lookup: NFC Unicode
// normalization, trimmed whitespace, case-folded. District names arrive
// from both CSV exports and web forms with mixed composition.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}
