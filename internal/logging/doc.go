// Package logging provides a simple leveled logging interface for the
// image watcher.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// Messages are written through a shared logrus logger. The initial level is
// read from the LOG_LEVEL (or DEBUG) environment variable and may be changed
// later with SetLevel, for example from a config file or CLI flag.
package logging
