package database

import "fmt"

// PersistenceCorruptError reports an index file that exists but cannot be
// parsed. Store.Load logs it and falls back to an empty index.
type PersistenceCorruptError struct {
	Path string
	Err  error
}

func (e *PersistenceCorruptError) Error() string {
	return fmt.Sprintf("corrupt index file %s: %v", e.Path, e.Err)
}

func (e *PersistenceCorruptError) Unwrap() error { return e.Err }

// IOWriteError reports a failure to write or remove the index file. The
// previously persisted state is left in place.
type IOWriteError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOWriteError) Error() string {
	return fmt.Sprintf("failed to %s index file %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOWriteError) Unwrap() error { return e.Err }
