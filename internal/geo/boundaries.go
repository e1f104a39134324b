package geo

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ring is a closed polygon ring in (lng, lat) order, matching shapefile
// point order.
type ring []shp.Point

// Boundary is a named district polygon read from a shapefile.
type Boundary struct {
	District string
	rings    []ring
}

// Boundaries holds district polygons for point-in-district lookups.
type Boundaries struct {
	areas []Boundary
}

// LoadBoundaries reads district polygons from a shapefile. The district name
// is taken from the NAME attribute (falling back to DISTRICT).
func LoadBoundaries(shpPath string) (*Boundaries, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrap(err, "geo: open district shapefile")
	}
	defer func() { _ = reader.Close() }()

	nameIdx := fieldIndex(reader, "NAME")
	if nameIdx < 0 {
		nameIdx = fieldIndex(reader, "DISTRICT")
	}
	if nameIdx < 0 {
		return nil, eris.New("geo: district shapefile has no NAME or DISTRICT field")
	}

	b := &Boundaries{}
	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if poly == nil || !ok {
			continue
		}

		// DBF string fields are NUL-padded; go-shp trims spaces only.
		name := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		if name == "" {
			continue
		}

		b.areas = append(b.areas, Boundary{
			District: name,
			rings:    polygonRings(poly),
		})
	}

	zap.L().Info("geo: district boundaries loaded",
		zap.String("path", shpPath),
		zap.Int("districts", len(b.areas)),
	)
	return b, nil
}

// DistrictOf returns the district containing the point, if any. The first
// matching polygon wins; shapefiles with overlapping districts are not
// supported.
func (b *Boundaries) DistrictOf(p Point) (string, bool) {
	if b == nil {
		return "", false
	}
	for _, area := range b.areas {
		// Ring 0 is the outer ring; subsequent rings are holes.
		if len(area.rings) == 0 || !pointInRing(p, area.rings[0]) {
			continue
		}
		inHole := false
		for _, hole := range area.rings[1:] {
			if pointInRing(p, hole) {
				inHole = true
				break
			}
		}
		if !inHole {
			return area.District, true
		}
	}
	return "", false
}

// Len returns the number of loaded district polygons.
func (b *Boundaries) Len() int {
	if b == nil {
		return 0
	}
	return len(b.areas)
}

// polygonRings splits a shapefile polygon into its part rings.
func polygonRings(p *shp.Polygon) []ring {
	rings := make([]ring, 0, p.NumParts)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}
		rings = append(rings, ring(p.Points[start:end]))
	}
	return rings
}

// pointInRing runs a ray-casting crossing test. Shapefile points are
// (X=lng, Y=lat).
func pointInRing(p Point, r ring) bool {
	inside := false
	n := len(r)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := r[i].X, r[i].Y
		xj, yj := r[j].X, r[j].Y
		if (yi > p.Lat) != (yj > p.Lat) &&
			p.Lng < (xj-xi)*(p.Lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// fieldIndex returns the index of a named field in the shapefile, or -1.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}
