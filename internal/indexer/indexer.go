// Package indexer walks a directory tree and writes a listing page into every
// directory that does not have one yet.
package indexer

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/nebari-dev/dirindex/internal/listing"
	"github.com/nebari-dev/dirindex/internal/report"
)

// RootTitle is the page title used for the root of a run.
const RootTitle = "/"

// Options configures an Indexer.
type Options struct {
	// FileName is the name of the listing page written into each directory.
	FileName string
	// Exclude holds doublestar patterns. A pattern without a '/' is matched
	// against entry names, any other pattern against the slash separated path
	// relative to the root.
	Exclude []string
	Logger  *slog.Logger
}

// Indexer writes listing pages. It is not safe for concurrent use.
type Indexer struct {
	fileName string
	exclude  []string
	logger   *slog.Logger
	report   *report.Report
}

// New validates opts and returns an Indexer.
func New(opts Options) (*Indexer, error) {
	name := opts.FileName
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid listing file name %q", name)
	}
	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Indexer{
		fileName: name,
		exclude:  opts.Exclude,
		logger:   logger,
	}, nil
}

// Run indexes the tree at root and returns a report of the run.
func (i *Indexer) Run(root string) (*report.Report, error) {
	runID := uuid.New().String()
	rep := report.New(runID, root)

	prevLogger := i.logger
	i.logger = i.logger.With("run_id", runID)
	i.report = rep
	defer func() {
		i.logger = prevLogger
		i.report = nil
	}()

	i.logger.Info("Indexing tree", "root", root, "file_name", i.fileName)
	total, err := i.visit(root, ".", RootTitle)
	if err != nil {
		return nil, err
	}
	rep.TotalSize = total
	i.logger.Info("Indexing finished", "root", root, "total_size", total, "created", rep.Created())
	return rep, nil
}

// Visit indexes the directory at dir, using title for its page, and returns
// the total size of its contents including every listing page below it.
func (i *Indexer) Visit(dir, title string) (int64, error) {
	return i.visit(dir, ".", title)
}

func (i *Indexer) visit(dir, rel, title string) (int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	// snapshot maps display names to sizes; directory names end in '/'.
	snapshot := make(map[string]int64, len(entries)+1)
	for _, e := range entries {
		name := e.Name()
		childRel := path.Join(rel, name)
		// The listing itself is always counted, whatever the patterns say.
		if name != i.fileName && i.excluded(name, childRel) {
			i.logger.Debug("Skipping excluded entry", "path", childRel)
			continue
		}

		switch {
		case e.IsDir():
			size, err := i.visit(filepath.Join(dir, name), childRel, name)
			if err != nil {
				return 0, err
			}
			snapshot[name+"/"] = size
		case e.Type().IsRegular():
			info, err := e.Info()
			if err != nil {
				return 0, fmt.Errorf("reading file info %s: %w", filepath.Join(dir, name), err)
			}
			snapshot[name] = info.Size()
		default:
			i.logger.Debug("Skipping entry", "path", childRel, "type", e.Type().String())
		}
	}

	entry := report.Entry{Path: rel, Listing: report.ListingExisting}
	content, err := i.writeListing(dir, title, snapshot)
	switch {
	case errors.Is(err, fs.ErrExist):
		i.logger.Debug("Listing already exists", "path", rel)
		size, ok := snapshot[i.fileName]
		if !ok {
			size = snapshot[i.fileName+"/"]
		}
		entry.ListingSize = size
	case err != nil:
		return 0, err
	default:
		info, err := os.Stat(filepath.Join(dir, i.fileName))
		if err != nil {
			return 0, fmt.Errorf("measuring listing in %s: %w", dir, err)
		}
		snapshot[i.fileName] = info.Size()
		entry.Listing = report.ListingCreated
		entry.ListingSize = info.Size()
		entry.ListingDigest = report.Digest(content)
		i.logger.Info("Created listing", "path", rel, "size", info.Size())
	}

	var total int64
	for _, size := range snapshot {
		total += size
	}

	entry.TotalSize = total
	if i.report != nil {
		i.report.Add(entry)
	}
	return total, nil
}

// writeListing creates the listing page in dir if it does not exist and
// returns its content. It returns an error matching fs.ErrExist when a page
// is already present.
func (i *Indexer) writeListing(dir, title string, snapshot map[string]int64) ([]byte, error) {
	target := filepath.Join(dir, i.fileName)
	if _, err := os.Lstat(target); err == nil {
		return nil, fs.ErrExist
	}

	page, err := listing.NewPage(title, i.fileName, snapshot)
	if err != nil {
		return nil, fmt.Errorf("building listing for %s: %w", dir, err)
	}
	var buf bytes.Buffer
	if err := listing.Render(&buf, page); err != nil {
		return nil, fmt.Errorf("rendering listing for %s: %w", dir, err)
	}

	if err := createListing(target, buf.Bytes()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (i *Indexer) excluded(name, rel string) bool {
	for _, p := range i.exclude {
		subject := rel
		if !strings.Contains(p, "/") {
			subject = name
		}
		if ok, _ := doublestar.Match(p, subject); ok {
			return true
		}
	}
	return false
}

// createListing writes content to a new file at target. A file that appeared
// since the caller looked is reported as fs.ErrExist and left untouched.
func createListing(target string, content []byte) error {
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return err
		}
		return fmt.Errorf("creating listing %s: %w", target, err)
	}

	_, err = f.Write(content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(target)
		return fmt.Errorf("writing listing %s: %w", target, err)
	}
	return nil
}
