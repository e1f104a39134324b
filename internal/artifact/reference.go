package artifact

import (
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
)

// Branch is one row of the read-only reference branch table.
type Branch struct {
	ID               string  `csv:"branch_id" json:"branch_id"`
	Name             string  `csv:"branch_name" json:"branch_name"`
	District         string  `csv:"district" json:"district"`
	Category         string  `csv:"category" json:"category"`
	Lat              float64 `csv:"latitude" json:"latitude"`
	Lng              float64 `csv:"longitude" json:"longitude"`
	Revenue          float64 `csv:"revenue" json:"revenue"`
	PerformanceScore float64 `csv:"performance_score" json:"performance_score"`
}

// LoadReference reads the reference branch table from a CSV file.
func LoadReference(path string) ([]Branch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "artifact: read reference table %s", path)
	}

	var branches []Branch
	if err := csvutil.Unmarshal(data, &branches); err != nil {
		return nil, eris.Wrapf(err, "artifact: decode reference table %s", path)
	}
	return branches, nil
}
