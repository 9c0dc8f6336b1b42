package geom

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPlacesCSV(t *testing.T) {
	in := "Name,Lng,Lat,Color,BG\n" +
		"Beijing,116.405285,39.904989,\"rgb(255 ,99, 71)\",\"rgba(255 ,99, 71, 0.3)\"\n" +
		"bad,x,1,,\n" +
		"Xian,108.5545,34.1524,,\n"
	places, err := ReadPlacesCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, "Beijing", places[0].Name)
	assert.Equal(t, orb.Point{116.405285, 39.904989}, places[0].Pos)
	assert.Equal(t, "rgb(255 ,99, 71)", places[0].Color)
	assert.Equal(t, "rgba(255 ,99, 71, 0.3)", places[0].Background)
	assert.Equal(t, "", places[1].Color)

	_, err = ReadPlacesCSV(strings.NewReader("a,b\n1,2\n"))
	assert.Error(t, err)
}

func TestParseKML(t *testing.T) {
	doc := `<?xml version="1.0"?>
<kml xmlns="http://www.opengis.net/kml/2.2"><Document>
  <Placemark><name>Pin</name><Point><coordinates>116.4,39.9,0</coordinates></Point></Placemark>
  <Folder><Placemark><name>Area</name><Polygon>
    <outerBoundaryIs><LinearRing><coordinates>0,0 4,0 4,4 0,4 0,0</coordinates></LinearRing></outerBoundaryIs>
    <innerBoundaryIs><LinearRing><coordinates>1,1 2,1 2,2 1,1</coordinates></LinearRing></innerBoundaryIs>
  </Polygon></Placemark></Folder>
</Document></kml>`
	c, places, err := ParseKML([]byte(doc))
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "Pin", places[0].Name)
	assert.Equal(t, orb.Point{116.4, 39.9}, places[0].Pos)

	require.Len(t, c.Features, 1)
	assert.Equal(t, "Area", c.Features[0].Name)
	assert.Len(t, Rings(c.Features[0].Geometry), 2)
}

func TestParseWKT(t *testing.T) {
	f, err := ParseWKT("POLYGON((0 0, 2 0, 2 2, 0 2, 0 0))", "pasted")
	require.NoError(t, err)
	assert.Equal(t, "pasted", f.Name)
	assert.InDelta(t, 1.0, f.Center[0], 1e-9)
	assert.InDelta(t, 1.0, f.Center[1], 1e-9)

	_, err = ParseWKT("POINT(1 2)", "p")
	assert.Error(t, err)
	_, err = ParseWKT("  ", "p")
	assert.Error(t, err)
}

func TestIndexAt(t *testing.T) {
	ix := NewIndex()
	ix.Insert(0, orb.Polygon{{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}})
	ix.Insert(1, orb.Polygon{{{10, 10}, {12, 10}, {10, 12}, {10, 10}}})
	ix.Insert(2, nil)
	assert.Equal(t, 2, ix.Len())

	assert.Equal(t, []int{0}, ix.At(orb.Point{1, 1}))
	assert.Empty(t, ix.At(orb.Point{11.9, 11.9}), "inside bound, outside triangle")
	assert.Equal(t, []int{1}, ix.At(orb.Point{10.5, 10.5}))
	assert.ElementsMatch(t, []int{0, 1}, ix.Search(orb.Bound{Min: orb.Point{-1, -1}, Max: orb.Point{20, 20}}))
}
