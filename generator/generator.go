package generator

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/erraggy/restspec/aggregator"
	"github.com/erraggy/restspec/interaction"
	"github.com/erraggy/restspec/model"
)

// Emitter serializes the canonical model in one format.
type Emitter interface {
	// Name is the emitter name and the default output file base name.
	Name() string
	// Extension is the output file extension without the dot.
	Extension() string
	// Emit serializes doc. It must not modify doc.
	Emit(doc *model.Document) ([]byte, error)
}

// GeneratedFile represents a single generated document
type GeneratedFile struct {
	// Name is the file name (e.g., "openapi3.json")
	Name string
	// Emitter is the name of the emitter that produced the file
	Emitter string
	// Public is true for the variant without private operations
	Public bool
	// Content is the serialized document
	Content []byte
}

// Result contains the results of a generation run
type Result struct {
	// Files contains all generated files in emitter order, each full
	// document followed by its public variant
	Files []GeneratedFile
	// Warnings are the non-fatal aggregation warnings
	Warnings []*aggregator.Warning
	// Stats summarizes the aggregation
	Stats aggregator.Stats
	// Written is the directory the files were written to, or empty
	Written string
	// LoadTime is the time taken to load the records
	LoadTime time.Duration
	// AggregateTime is the time taken to merge the records
	AggregateTime time.Duration
	// EmitTime is the time taken to run every emitter
	EmitTime time.Duration
}

// HasWarnings returns true if the aggregation reported warnings
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// GetFile returns the generated file with the given name, or nil if not found
func (r *Result) GetFile(name string) *GeneratedFile {
	for i := range r.Files {
		if r.Files[i].Name == name {
			return &r.Files[i]
		}
	}
	return nil
}

// Generate loads records, aggregates them and runs every configured emitter.
//
// Any aggregation error stops generation before an emitter runs and
// nothing is written. Emitters run concurrently over the read-only
// document. When an output directory is configured, every file is written
// atomically.
//
// Example:
//
//	result, err := generator.Generate(
//	    generator.WithSnippetsDir("build/snippets"),
//	    generator.WithOutputDir("build/api-spec"),
//	    generator.WithFormats(generator.FormatOpenAPI3, generator.FormatPostman),
//	)
func Generate(opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("generator: invalid options: %w", err)
	}
	result := &Result{}

	start := time.Now()
	records, err := cfg.load()
	if err != nil {
		return nil, fmt.Errorf("generator: loading records: %w", err)
	}
	result.LoadTime = time.Since(start)
	cfg.logger.Debug("loaded records", "records", len(records), "duration", result.LoadTime)

	start = time.Now()
	aggOpts := append([]aggregator.Option{aggregator.WithLogger(cfg.logger)}, cfg.aggregatorOpts...)
	agg, err := aggregator.Aggregate(records, aggOpts...)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	result.AggregateTime = time.Since(start)
	result.Warnings = agg.Warnings
	result.Stats = agg.Stats

	start = time.Now()
	files, err := cfg.emit(agg.Document)
	if err != nil {
		return nil, err
	}
	result.Files = files
	result.EmitTime = time.Since(start)

	if cfg.outputDir != "" {
		if err := result.WriteFiles(cfg.outputDir); err != nil {
			return nil, err
		}
		result.Written = cfg.outputDir
		cfg.logger.Info("wrote documents", "dir", cfg.outputDir, "files", len(result.Files))
	}
	return result, nil
}

func (c *generateConfig) load() ([]interaction.Record, error) {
	var records []interaction.Record
	records = append(records, c.records...)
	if c.snippetsDir != "" {
		loaded, err := interaction.LoadDir(c.snippetsDir)
		if err != nil {
			return nil, err
		}
		records = append(records, loaded...)
	}
	for _, cas := range c.cassettes {
		loaded, err := interaction.FromCassette(cas.name, cas.opts...)
		if err != nil {
			return nil, err
		}
		records = append(records, loaded...)
	}
	return records, nil
}

// emit runs each emitter on the full document and, when requested, on the
// public document. Jobs write into their own slot, so no locking is needed.
func (c *generateConfig) emit(doc *model.Document) ([]GeneratedFile, error) {
	type job struct {
		emitter Emitter
		public  bool
	}
	var jobs []job
	for _, e := range c.emitters {
		jobs = append(jobs, job{emitter: e})
		if c.separatePublic {
			jobs = append(jobs, job{emitter: e, public: true})
		}
	}

	var public *model.Document
	if c.separatePublic {
		public = doc.Public()
	}

	files := make([]GeneratedFile, len(jobs))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, j := range jobs {
		g.Go(func() error {
			src := doc
			if j.public {
				src = public
			}
			content, err := j.emitter.Emit(src)
			if err != nil {
				return fmt.Errorf("generator: %s: %w", j.emitter.Name(), err)
			}
			files[i] = GeneratedFile{
				Name:    c.fileName(j.emitter, j.public),
				Emitter: j.emitter.Name(),
				Public:  j.public,
				Content: content,
			}
			c.logger.Debug("emitted document", "emitter", j.emitter.Name(), "public", j.public, "bytes", len(content))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

func (c *generateConfig) fileName(e Emitter, public bool) string {
	base := c.outputPrefix + e.Name()
	if public {
		base += "-public"
	}
	return base + "." + e.Extension()
}

// checkFileNames rejects emitters whose files would overwrite each other.
func checkFileNames(c *generateConfig) error {
	seen := make(map[string]bool)
	var errs []error
	for _, e := range c.emitters {
		name := c.fileName(e, false)
		if name != filepath.Base(name) {
			errs = append(errs, fmt.Errorf("file name %q must not contain path separators", name))
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("two emitters write %q", name))
		}
		seen[name] = true
	}
	return errors.Join(errs...)
}
