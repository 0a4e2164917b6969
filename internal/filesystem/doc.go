/*
Package filesystem provides the filesystem primitives used by the indexer:
candidate enumeration, modification time stamps, and stat/open wrappers with
retry logic for NFS stale file handle errors.

# Enumeration

ListFiles lists regular files directly inside a folder or, when recursive,
in its whole tree. Results are in lexical order so a sync pass always visits
files in the same sequence:

	paths, err := filesystem.ListFiles(dir, true, mediatypes.IsSupportedPath)

# Modification Time

Stamp converts a modification time into the float seconds stored on index
records, and DisplayTime renders it for people:

	info, _ := os.Stat(path)
	stamp := filesystem.Stamp(info.ModTime())         // 1714043112.123456789
	label := filesystem.DisplayTime(info.ModTime())   // "2024-04-25, 01:05:12 PM"

# Retry Behavior

StatWithRetry and OpenWithRetry retry only ESTALE errors, with exponential
backoff:
  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms
  - MaxBackoff: 500ms

All other errors fail immediately without retry attempts.
*/
package filesystem
