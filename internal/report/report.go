// Package report records what a run did to each directory of the tree.
//
// A report can be written as TOML, YAML or JSON depending on the file
// extension:
//
//	run_id = "550e8400-e29b-41d4-a716-446655440000"
//	root = "/srv/files"
//	total_size = 12345
//
//	[[directories]]
//	path = "code"
//	listing = "created"
//	listing_size = 312
//	listing_digest = "sha256:..."
//	total_size = 322
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/opencontainers/go-digest"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Listing outcomes for a directory.
const (
	ListingCreated  = "created"
	ListingExisting = "existing"
)

// Report describes one run over a tree.
type Report struct {
	RunID       string    `toml:"run_id" yaml:"run_id" json:"run_id"`
	Root        string    `toml:"root" yaml:"root" json:"root"`
	StartedAt   time.Time `toml:"started_at" yaml:"started_at" json:"started_at"`
	TotalSize   int64     `toml:"total_size" yaml:"total_size" json:"total_size"`
	Directories []Entry   `toml:"directories" yaml:"directories" json:"directories"`
}

// Entry describes a single visited directory.
type Entry struct {
	// Path is relative to the root, slash separated; the root itself is ".".
	Path          string `toml:"path" yaml:"path" json:"path"`
	Listing       string `toml:"listing" yaml:"listing" json:"listing"`
	ListingSize   int64  `toml:"listing_size" yaml:"listing_size" json:"listing_size"`
	ListingDigest string `toml:"listing_digest,omitempty" yaml:"listing_digest,omitempty" json:"listing_digest,omitempty"`
	TotalSize     int64  `toml:"total_size" yaml:"total_size" json:"total_size"`
}

// New returns an empty report for a run over root.
func New(runID, root string) *Report {
	return &Report{
		RunID:       runID,
		Root:        root,
		StartedAt:   time.Now().UTC(),
		Directories: []Entry{},
	}
}

// Add appends an entry.
func (r *Report) Add(e Entry) {
	r.Directories = append(r.Directories, e)
}

// Created returns the number of listings created during the run.
func (r *Report) Created() int {
	n := 0
	for _, e := range r.Directories {
		if e.Listing == ListingCreated {
			n++
		}
	}
	return n
}

// Digest returns the content digest recorded for a created listing.
func Digest(content []byte) string {
	return digest.FromBytes(content).String()
}

// Marshal encodes the report in the format implied by the extension of name.
func (r *Report) Marshal(name string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		return toml.Marshal(r)
	case ".yaml", ".yml":
		return yaml.Marshal(r)
	default:
		return json.MarshalIndent(r, "", "  ")
	}
}

// WriteFile writes the report to path.
func (r *Report) WriteFile(path string) error {
	data, err := r.Marshal(path)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
