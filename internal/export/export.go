// Package export writes a conference's results in the formats consumed
// downstream: the merged general.json, the errors.json bucket map and the
// locations CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/matsen/affil/internal/reference"
)

// General maps paper ID to its export entry.
type General map[string]reference.Entry

// Buckets maps an error message to the sorted IDs of the papers that hit it.
type Buckets map[string][]string

// Location is a geocoded affiliation. Lat and Lng are nil when the
// affiliation could not be resolved.
type Location struct {
	Name string   `json:"name"`
	Lat  *float64 `json:"lat,omitempty"`
	Lng  *float64 `json:"lng,omitempty"`
}

// Merge builds the general export from extracted papers and manual
// overrides. A manual record replaces an extracted one with the same ID.
func Merge(extracted, manual []reference.Paper) General {
	out := make(General, len(extracted)+len(manual))
	for _, p := range extracted {
		out[p.ID] = p.Entry()
	}
	for _, p := range manual {
		out[p.ID] = p.Entry()
	}
	return out
}

// Bucket groups failures by message.
func Bucket(failures []reference.Failure) Buckets {
	out := make(Buckets)
	for _, f := range failures {
		out[f.Message] = append(out[f.Message], f.PaperID)
	}
	for _, ids := range out {
		sort.Strings(ids)
	}
	return out
}

// Affiliations returns the distinct affiliations of all entries, sorted.
func (g General) Affiliations() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range g {
		for _, affs := range e.Authors {
			for _, a := range affs {
				if a != "" && !seen[a] {
					seen[a] = true
					out = append(out, a)
				}
			}
		}
	}
	sort.Strings(out)
	return out
}

// WriteJSON writes v to path as 4-space indented JSON, creating parent
// directories as needed.
func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadJSON decodes the JSON file at path into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// WriteLocations writes locations as CSV with a Location,Latitude,Longitude
// header. Unresolved coordinates are left empty.
func WriteLocations(path string, locs []Location) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Location", "Latitude", "Longitude"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, l := range locs {
		if err := w.Write([]string{l.Name, formatCoord(l.Lat), formatCoord(l.Lng)}); err != nil {
			return fmt.Errorf("writing %q: %w", l.Name, err)
		}
	}
	w.Flush()
	return w.Error()
}

// ReadLocations reads a CSV written by WriteLocations.
func ReadLocations(path string) ([]Location, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	locs := make([]Location, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != 3 {
			return nil, fmt.Errorf("%s line %d: want 3 fields, got %d", path, i+2, len(rec))
		}
		l := Location{Name: rec[0]}
		if l.Lat, err = parseCoord(rec[1]); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+2, err)
		}
		if l.Lng, err = parseCoord(rec[2]); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+2, err)
		}
		locs = append(locs, l)
	}
	return locs, nil
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func parseCoord(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid coordinate %q", s)
	}
	return &v, nil
}
