// Package fileutil holds file modes shared by the packages that write output.
package fileutil

import "os"

// ReadableByAll is the file permission mode for generated documents
// intended to be published.
const ReadableByAll os.FileMode = 0o644

// DirReadableByAll is the mode of created output directories.
const DirReadableByAll os.FileMode = 0o755
