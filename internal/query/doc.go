// Package query evaluates free-text filters against the image index.
//
// A filter is split like a shell command line, so quoted phrases form a
// single term, and every term is lower-cased. Terms match as substrings of
// the selected metadata fields:
//
//	cat dog       both terms must appear (each in any field)
//	cat ~ dog     either term may appear
//	cat -blurry   terms prefixed with "-" exclude a record when found
//
// The synthetic field "Size" matches against "WIDTHxHEIGHT". An empty
// filter or an empty field set disables filtering. Results are ordered by
// on-disk modification time, newest first, and files that no longer exist
// are left out.
package query
