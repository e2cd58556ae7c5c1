package conference

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/matsen/affil/internal/export"
	"github.com/matsen/affil/internal/reference"
)

// Links maps paper ID to the URL of its PDF.
type Links map[string]string

// IDs returns the paper IDs in sorted order.
func (l Links) IDs() []string {
	ids := make([]string, 0, len(l))
	for id := range l {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadLinks reads a conference's paper list.
func LoadLinks(path string) (Links, error) {
	var links Links
	if err := export.ReadJSON(path, &links); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no paper list at %s", path)
		}
		return nil, err
	}
	return links, nil
}

// LoadOverrides reads the manually curated records of a conference, sorted
// by ID. A missing file means no overrides.
func LoadOverrides(path, conference string) ([]reference.Paper, error) {
	var entries map[string]reference.Entry
	if err := export.ReadJSON(path, &entries); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	papers := make([]reference.Paper, 0, len(entries))
	for id, e := range entries {
		papers = append(papers, reference.Paper{
			ID:         id,
			Conference: conference,
			URL:        e.URL,
			Title:      e.Title,
			Authors:    e.Authors,
			Source:     reference.SourceManual,
		})
	}
	sort.Slice(papers, func(i, j int) bool { return papers[i].ID < papers[j].ID })
	return papers, nil
}
