package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jengzang/towerjump-backend-go/internal/models"
)

// RequiredColumns lists the carrier export columns every upload must carry
var RequiredColumns = []string{
	"Page",
	"Item",
	"UTCDateTime",
	"LocalDateTime",
	"Latitude",
	"Longitude",
	"TimeZone",
	"City",
	"County",
	"State",
	"Country",
	"CellType",
}

// Accepted UTCDateTime layouts, carrier format first
var timeLayouts = []string{
	"01/02/06 15:04",
	"1/2/06 15:04",
	"1/2/2006 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

var (
	// ErrMissingColumns is returned when the header lacks required columns
	ErrMissingColumns = errors.New("missing required columns")
	// ErrEmptyFile is returned when the upload has no header row
	ErrEmptyFile = errors.New("empty file")
)

// Dataset is a preprocessed, chronologically sorted carrier export
type Dataset struct {
	Records     []models.LocationRecord
	Columns     []string
	DroppedRows int
}

// Load reads a carrier CSV export, validates its columns and preprocesses the rows:
// rows at (0, 0) or without latitude, longitude or state are dropped, rows with an
// unparsable UTCDateTime are dropped, non-numeric coordinates become absent, and
// the result is stably sorted by timestamp.
func Load(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := indexColumns(header)
	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	ds := &Dataset{Columns: cleanHeader(header)}
	initial := 0
	afterLocation := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", initial+2, err)
		}
		initial++

		field := func(name string) string {
			idx := cols[name]
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		latStr, lonStr, state := field("Latitude"), field("Longitude"), field("State")
		if latStr == "" || lonStr == "" || state == "" {
			continue
		}
		coord := parseCoordinate(latStr, lonStr)
		if coord.Valid && coord.Lat == 0 && coord.Lon == 0 {
			continue
		}
		afterLocation++

		ts, ok := parseTime(field("UTCDateTime"))
		if !ok {
			continue
		}

		ds.Records = append(ds.Records, models.LocationRecord{
			Timestamp: ts,
			Region:    state,
			Coord:     coord,
			City:      field("City"),
			County:    field("County"),
			Country:   field("Country"),
			CellType:  field("CellType"),
		})
	}

	sort.SliceStable(ds.Records, func(i, j int) bool {
		return ds.Records[i].Timestamp.Before(ds.Records[j].Timestamp)
	})
	ds.DroppedRows = initial - len(ds.Records)

	log.Printf("[Ingest] Initial rows: %d, after location cleanup: %d, valid datetime: %d",
		initial, afterLocation, len(ds.Records))

	return ds, nil
}

// DateRange returns the first and last timestamps, or N/A for an empty dataset
func (d *Dataset) DateRange() models.DateRange {
	if len(d.Records) == 0 {
		return models.DateRange{Start: "N/A", End: "N/A"}
	}
	return models.DateRange{
		Start: d.Records[0].Timestamp.Format(models.TimeLayout),
		End:   d.Records[len(d.Records)-1].Timestamp.Format(models.TimeLayout),
	}
}

// Stats summarizes the dataset contents
func (d *Dataset) Stats() models.DatasetStats {
	stats := models.DatasetStats{
		TotalRecords: len(d.Records),
		DateRange:    d.DateRange(),
		CellTypes:    make(map[string]int),
		States:       make(map[string]int),
		DroppedRows:  d.DroppedRows,
	}

	for _, r := range d.Records {
		if r.Coord.IsUsable() {
			stats.RecordsWithLocation++
		}
		stats.States[r.Region]++
		if r.CellType != "" {
			stats.CellTypes[r.CellType]++
		}
	}
	stats.UniqueStates = len(stats.States)

	return stats
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range cleanHeader(header) {
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	return cols
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		out[i] = name
	}
	return out
}

func parseCoordinate(latStr, lonStr string) models.Coordinate {
	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil {
		return models.AbsentCoordinate()
	}
	c := models.NewCoordinate(lat, lon)
	if !c.IsUsable() {
		return models.AbsentCoordinate()
	}
	return c
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
