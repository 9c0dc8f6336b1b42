package geom

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// LoadPlacesCSV reads label records from a CSV file.
func LoadPlacesCSV(path string) ([]Place, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPlacesCSV(f)
}

// ReadPlacesCSV parses label records. Column detection (case-insensitive):
// name|label|title, lat|latitude|y, lon|lng|long|longitude|x, color and
// background|bg. Rows with unparsable coordinates are skipped.
func ReadPlacesCSV(r io.Reader) ([]Place, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.New("csv: empty file")
	}
	idxName, idxLat, idxLon, idxColor, idxBg := -1, -1, -1, -1, -1
	first := func(idx *int, i int) {
		if *idx == -1 {
			*idx = i
		}
	}
	for i, h := range recs[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "name", "label", "title":
			first(&idxName, i)
		case "lat", "latitude", "y":
			first(&idxLat, i)
		case "lon", "lng", "long", "longitude", "x":
			first(&idxLon, i)
		case "color", "colour":
			first(&idxColor, i)
		case "background", "bg":
			first(&idxBg, i)
		}
	}
	if idxLat == -1 || idxLon == -1 {
		return nil, errors.New("csv: latitude/longitude columns not found")
	}
	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	var places []Place
	for _, row := range recs[1:] {
		lon, err1 := strconv.ParseFloat(cell(row, idxLon), 64)
		lat, err2 := strconv.ParseFloat(cell(row, idxLat), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		places = append(places, Place{
			Name:       cell(row, idxName),
			Pos:        orb.Point{lon, lat},
			Color:      cell(row, idxColor),
			Background: cell(row, idxBg),
		})
	}
	if len(places) == 0 {
		return nil, errors.New("csv: no valid rows parsed")
	}
	return places, nil
}
