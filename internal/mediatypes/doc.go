// Package mediatypes provides shared type definitions and utilities for
// image file handling across the image watcher.
//
// This package exists as a dependency-free foundation that can be imported by
// other packages without creating import cycles. It contains the set of
// supported image extensions, the format tag reported for each, and a few
// pure helpers.
//
// # Extension Detection
//
// Extensions are matched case-insensitively and include the leading dot:
//
//	if mediatypes.IsSupported(filepath.Ext(name)) {
//	    // candidate for indexing
//	}
//
// Only PNG files carry the text chunks that hold generation parameters:
//
//	if mediatypes.HasTextChunks(path) {
//	    // run the chunk pipeline
//	}
package mediatypes
