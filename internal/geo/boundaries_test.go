package geo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type districtPolygon struct {
	name  string
	rings [][]shp.Point
}

// writeDistrictShapefile writes a polygon shapefile with a NAME attribute.
// The oversized field leaves the names NUL-padded on disk, as real DBF
// exports are.
func writeDistrictShapefile(t *testing.T, districts []districtPolygon) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "districts.shp")

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("NAME", 40)}))

	for i, d := range districts {
		w.Write((*shp.Polygon)(shp.NewPolyLine(d.rings)))
		require.NoError(t, w.WriteAttribute(i, 0, d.name))
	}
	w.Close()

	// go-shp's writer drops the dot from the attribute file name.
	require.NoError(t, os.Rename(filepath.Join(dir, "districtsdbf"), filepath.Join(dir, "districts.dbf")))
	return path
}

func testDistricts() []districtPolygon {
	return []districtPolygon{
		{
			name: "Setia Budi",
			rings: [][]shp.Point{{
				{X: 106.80, Y: -6.25},
				{X: 106.84, Y: -6.25},
				{X: 106.84, Y: -6.21},
				{X: 106.80, Y: -6.21},
				{X: 106.80, Y: -6.25},
			}},
		},
		{
			name: "Kebayoran Baru",
			rings: [][]shp.Point{{
				{X: 106.76, Y: -6.28},
				{X: 106.80, Y: -6.28},
				{X: 106.80, Y: -6.25},
				{X: 106.76, Y: -6.25},
				{X: 106.76, Y: -6.28},
			}},
		},
	}
}

func TestLoadBoundaries(t *testing.T) {
	path := writeDistrictShapefile(t, testDistricts())

	b, err := LoadBoundaries(path)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Len())

	district, ok := b.DistrictOf(Point{Lat: -6.225, Lng: 106.825})
	require.True(t, ok)
	// Names must come back clean despite DBF NUL padding.
	assert.Equal(t, "Setia Budi", district)

	district, ok = b.DistrictOf(Point{Lat: -6.26, Lng: 106.78})
	require.True(t, ok)
	assert.Equal(t, "Kebayoran Baru", district)

	_, ok = b.DistrictOf(Point{Lat: -6.5, Lng: 107.0})
	assert.False(t, ok)
}

func TestLoadBoundariesMissingFile(t *testing.T) {
	_, err := LoadBoundaries(filepath.Join(t.TempDir(), "nope.shp"))
	assert.Error(t, err)
}
