package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/moby/sys/atomicwriter"

	"github.com/erraggy/restspec/internal/fileutil"
)

// WriteFiles writes all generated files to the specified output directory.
// The directory is created if it doesn't exist. Each file is replaced
// atomically, so readers never see a partial document.
func (r *Result) WriteFiles(outputDir string) error {
	if err := os.MkdirAll(outputDir, fileutil.DirReadableByAll); err != nil {
		return fmt.Errorf("generator: failed to create output directory: %w", err)
	}

	for _, file := range r.Files {
		safeName := filepath.Base(file.Name)
		if safeName != file.Name {
			return fmt.Errorf("generator: invalid file name %q: must not contain path separators", file.Name)
		}
		if err := file.WriteFile(filepath.Join(outputDir, safeName)); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile atomically writes a single generated file to the specified path.
func (f *GeneratedFile) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), fileutil.DirReadableByAll); err != nil {
		return fmt.Errorf("generator: failed to create directory: %w", err)
	}
	if err := atomicwriter.WriteFile(path, f.Content, fileutil.ReadableByAll); err != nil {
		return fmt.Errorf("generator: failed to write file %s: %w", f.Name, err)
	}
	return nil
}
