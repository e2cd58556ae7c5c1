package config

import "path/filepath"

// Data directory layout.
const (
	PapersDir      = "papers"
	ConferencesDir = "conferences"
	OutputDir      = "output"
	GeneralFile    = "general.json"
	ErrorsFile     = "errors.json"
	LocationsFile  = "locations.csv"
	PapersFile     = "papers.jsonl"
	DBFile         = "results.db"
)

// Layout resolves file locations under a data directory.
type Layout struct {
	Root string
}

// NewLayout returns the layout rooted at the configured data directory.
func NewLayout(cfg *GlobalConfig) Layout {
	return Layout{Root: cfg.DataRoot()}
}

// PaperDir returns the directory holding a conference's downloads.
func (l Layout) PaperDir(conference string) string {
	return filepath.Join(l.Root, PapersDir, conference)
}

// PDFPath returns the cached PDF of a paper.
func (l Layout) PDFPath(conference, paperID string) string {
	return filepath.Join(l.PaperDir(conference), paperID+".pdf")
}

// PagePath returns the cached landing page of a paper.
func (l Layout) PagePath(conference, paperID string) string {
	return filepath.Join(l.PaperDir(conference), paperID+".html")
}

// LinksPath returns the paper id -> PDF URL file of a conference.
func (l Layout) LinksPath(conference string) string {
	return filepath.Join(l.Root, ConferencesDir, conference+".json")
}

// OverridesPath returns the manual records file of a conference.
func (l Layout) OverridesPath(conference string) string {
	return filepath.Join(l.Root, PapersDir, conference+".json")
}

// OutputPath returns the directory holding a conference's exports.
func (l Layout) OutputPath(conference string) string {
	return filepath.Join(l.Root, OutputDir, conference)
}

// GeneralPath returns the merged results export.
func (l Layout) GeneralPath(conference string) string {
	return filepath.Join(l.OutputPath(conference), GeneralFile)
}

// ErrorsPath returns the error buckets export.
func (l Layout) ErrorsPath(conference string) string {
	return filepath.Join(l.OutputPath(conference), ErrorsFile)
}

// LocationsPath returns the geocoded affiliations export.
func (l Layout) LocationsPath(conference string) string {
	return filepath.Join(l.OutputPath(conference), LocationsFile)
}

// PapersPath returns the JSONL dump of paper records.
func (l Layout) PapersPath(conference string) string {
	return filepath.Join(l.OutputPath(conference), PapersFile)
}

// DBPath returns the results database.
func (l Layout) DBPath() string {
	return filepath.Join(l.Root, DBFile)
}
