// Package conference runs affiliation extraction over every paper of a
// conference and writes the merged results.
package conference

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/matsen/affil/internal/affiliation"
	"github.com/matsen/affil/internal/config"
	"github.com/matsen/affil/internal/fetch"
	"github.com/matsen/affil/internal/fold"
	"github.com/matsen/affil/internal/metadata"
	"github.com/matsen/affil/internal/pdf"
	"github.com/matsen/affil/internal/reference"
)

// Downloader caches a URL at a path.
type Downloader interface {
	Download(ctx context.Context, url, path string) (bool, error)
}

// MetadataSource returns the citation metadata of a landing page.
type MetadataSource interface {
	Fetch(ctx context.Context, url, path string) (*metadata.Paper, error)
}

// Extractor maps authors to affiliations on a page.
type Extractor interface {
	Extract(page affiliation.Page, ref affiliation.Reference) (*affiliation.Result, error)
}

// Store persists per-paper outcomes.
type Store interface {
	Fingerprint(conference, id string) (string, error)
	SavePaper(p reference.Paper) error
	RecordFailure(f reference.Failure) error
}

// PageOpener loads the first page of a downloaded PDF.
type PageOpener func(path string) (affiliation.Page, error)

// OpenPDF is the PageOpener for real PDF files.
func OpenPDF(path string) (affiliation.Page, error) {
	return pdf.Open(path)
}

// Outcome of one paper.
const (
	StatusExtracted = "extracted"
	StatusUnchanged = "unchanged"
	StatusManual    = "manual"
	StatusFailed    = "failed"
)

// Runner analyses the papers of one conference.
type Runner struct {
	conference string
	layout     config.Layout
	download   Downloader
	meta       MetadataSource
	open       PageOpener
	extractor  Extractor
	store      Store
	workers    int
	force      bool
	logger     *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets how many papers are processed at once.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithForce re-extracts papers whose PDF is unchanged.
func WithForce(force bool) Option {
	return func(r *Runner) {
		r.force = force
	}
}

// WithLogger sets the progress logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithPageOpener replaces the PDF loader.
func WithPageOpener(open PageOpener) Option {
	return func(r *Runner) {
		r.open = open
	}
}

// NewRunner creates a runner for conference. Downloads and metadata pages
// are cached under layout.
func NewRunner(conference string, layout config.Layout, dl Downloader, meta MetadataSource, ex Extractor, store Store, opts ...Option) *Runner {
	r := &Runner{
		conference: conference,
		layout:     layout,
		download:   dl,
		meta:       meta,
		open:       OpenPDF,
		extractor:  ex,
		store:      store,
		workers:    config.DefaultConcurrency,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Summary counts the outcomes of a run.
type Summary struct {
	Extracted int                 `json:"extracted"`
	Unchanged int                 `json:"unchanged"`
	Manual    int                 `json:"manual"`
	Failed    int                 `json:"failed"`
	Failures  []reference.Failure `json:"failures,omitempty"`
}

// aggregator collects outcomes from concurrent workers.
type aggregator struct {
	mu      sync.Mutex
	summary Summary
}

func (a *aggregator) add(status string, failure *reference.Failure) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch status {
	case StatusExtracted:
		a.summary.Extracted++
	case StatusUnchanged:
		a.summary.Unchanged++
	case StatusManual:
		a.summary.Manual++
	case StatusFailed:
		a.summary.Failed++
		a.summary.Failures = append(a.summary.Failures, *failure)
	}
}

// Analyse processes every paper in links not covered by manual. A paper's
// failure is recorded and never stops the batch; only cancellation of ctx
// ends it early.
func (r *Runner) Analyse(ctx context.Context, links Links, manual []reference.Paper) (*Summary, error) {
	skip := make(map[string]bool, len(manual))
	for _, p := range manual {
		skip[p.ID] = true
	}

	agg := &aggregator{}
	var wg sync.WaitGroup
	sem := make(chan struct{}, r.workers)

	for _, id := range links.IDs() {
		if ctx.Err() != nil {
			break
		}
		if skip[id] {
			agg.add(StatusManual, nil)
			continue
		}
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			continue
		}
		wg.Add(1)
		go func(id, url string) {
			defer wg.Done()
			defer func() { <-sem }()
			status, failure := r.run(ctx, id, url)
			agg.add(status, failure)
		}(id, links[id])
	}

	wg.Wait()
	return &agg.summary, ctx.Err()
}

// run processes one paper and records its outcome in the store.
func (r *Runner) run(ctx context.Context, id, url string) (string, *reference.Failure) {
	paper, err := r.Process(ctx, id, url)
	if err != nil {
		f := reference.Failure{PaperID: id, Conference: r.conference, Message: err.Error()}
		if serr := r.store.RecordFailure(f); serr != nil {
			r.logger.Error("recording failure", "paper", id, "error", serr)
		}
		r.logger.Warn("paper failed", "paper", id, "error", err)
		return StatusFailed, &f
	}
	if paper == nil {
		r.logger.Debug("paper unchanged", "paper", id)
		return StatusUnchanged, nil
	}
	r.logger.Info("paper extracted", "paper", id, "authors", len(paper.Authors))
	return StatusExtracted, nil
}

// Process downloads, extracts and stores one paper. It returns nil without
// error when the stored result came from the same PDF.
func (r *Runner) Process(ctx context.Context, id, url string) (*reference.Paper, error) {
	pdfPath := r.layout.PDFPath(r.conference, id)
	fetched, err := r.download.Download(ctx, url, pdfPath)
	if err != nil {
		return nil, fmt.Errorf("downloading PDF: %w", err)
	}
	if !fetched {
		r.logger.Debug("using cached PDF", "paper", id, "path", pdfPath)
	}

	fp, err := fetch.FingerprintFile(pdfPath)
	if err != nil {
		return nil, err
	}
	if !r.force {
		stored, err := r.store.Fingerprint(r.conference, id)
		if err != nil {
			return nil, err
		}
		if stored == fp {
			return nil, nil
		}
	}

	meta, err := r.meta.Fetch(ctx, metadata.PageURL(url), r.layout.PagePath(r.conference, id))
	if err != nil {
		return nil, err
	}
	page, err := r.open(pdfPath)
	if err != nil {
		return nil, err
	}
	res, err := r.extractor.Extract(page, meta.Reference())
	if err != nil {
		return nil, err
	}

	paper := reference.Paper{
		ID:          id,
		Conference:  r.conference,
		URL:         url,
		Title:       meta.Title,
		Authors:     FoldAffiliations(res.Authors),
		AuthorOrder: res.Order,
		Fingerprint: fp,
		Source:      reference.SourceExtracted,
	}
	if err := r.store.SavePaper(paper); err != nil {
		return nil, err
	}
	return &paper, nil
}

// FoldAffiliations strips accents from every affiliation, dropping
// entries that become duplicates.
func FoldAffiliations(authors map[string][]string) map[string][]string {
	out := make(map[string][]string, len(authors))
	for name, affs := range authors {
		seen := make(map[string]bool, len(affs))
		folded := make([]string, 0, len(affs))
		for _, a := range affs {
			f := fold.Accents(a)
			if !seen[f] {
				seen[f] = true
				folded = append(folded, f)
			}
		}
		out[name] = folded
	}
	return out
}
