package conference

import (
	"fmt"

	"github.com/matsen/affil/internal/config"
	"github.com/matsen/affil/internal/export"
	"github.com/matsen/affil/internal/reference"
	"github.com/matsen/affil/internal/storage"
)

// ResultSource lists stored outcomes.
type ResultSource interface {
	ListPapers(conference string) ([]reference.Paper, error)
	ListFailures(conference string) ([]reference.Failure, error)
}

// Exported reports what WriteExports wrote.
type Exported struct {
	Papers  int    `json:"papers"`
	Manual  int    `json:"manual"`
	Buckets int    `json:"error_buckets"`
	General string `json:"general"`
	Errors  string `json:"errors"`
	JSONL   string `json:"jsonl"`
}

// WriteExports writes general.json, errors.json and the JSONL dump of a
// conference. Manual records replace extracted ones in general.json, and
// failures of manually covered papers are left out of errors.json.
func WriteExports(src ResultSource, layout config.Layout, conference string, manual []reference.Paper) (*Exported, error) {
	papers, err := src.ListPapers(conference)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	failures, err := src.ListFailures(conference)
	if err != nil {
		return nil, fmt.Errorf("listing failures: %w", err)
	}

	covered := make(map[string]bool, len(manual))
	for _, p := range manual {
		covered[p.ID] = true
	}
	open := failures[:0]
	for _, f := range failures {
		if !covered[f.PaperID] {
			open = append(open, f)
		}
	}

	general := export.Merge(papers, manual)
	buckets := export.Bucket(open)

	out := &Exported{
		Papers:  len(papers),
		Manual:  len(manual),
		Buckets: len(buckets),
		General: layout.GeneralPath(conference),
		Errors:  layout.ErrorsPath(conference),
		JSONL:   layout.PapersPath(conference),
	}
	if err := export.WriteJSON(out.General, general); err != nil {
		return nil, err
	}
	if err := export.WriteJSON(out.Errors, buckets); err != nil {
		return nil, err
	}
	if err := storage.WriteAll(out.JSONL, papers); err != nil {
		return nil, err
	}
	return out, nil
}
