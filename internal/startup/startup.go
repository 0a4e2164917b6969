package startup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"

	"image-watcher/internal/database"
	"image-watcher/internal/indexer"
	"image-watcher/internal/logging"
	"image-watcher/internal/mediatypes"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

const rule = "------------------------------------------------------------"

// section starts a titled block of startup output.
func section(title string) {
	logging.Info("")
	logging.Info(rule)
	logging.Info(title)
	logging.Info(rule)
}

// LogConfig logs the build, the runtime and the effective configuration of
// a long-running command, followed by the state of the index file it will
// start from.
func LogConfig(config *Config) {
	section(fmt.Sprintf("IMAGE WATCHER %s (commit %s, built %s)", Version, Commit, BuildTime))
	logging.Info("  Go %s on %s/%s, %d CPUs", runtime.Version(), runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	if wd, err := os.Getwd(); err == nil {
		logging.Debug("  Working dir: %s", wd)
	}

	section("CONFIGURATION")
	logging.Info("  Folder:        %s", config.WatchDir)
	logging.Info("  Recursive:     %v", config.Recursive)
	logging.Info("  Extensions:    %s", strings.Join(mediatypes.Extensions(), " "))
	logging.Info("  Filter fields: %s", strings.Join(config.FilterFields, ", "))
	logging.Info("  Debounce:      %v", config.Debounce)
	logging.Info("  HTTP port:     %s (metrics: %v, health check logs: %v)", config.Port, config.MetricsEnabled, config.LogHealthChecks)
	logging.Info("  Metadata LRU:  %d entries", config.MetadataCacheSize)
	logging.Info("  Log level:     %s", logging.GetLevel())
	logging.Info("  Index file:    %s", config.IndexPath())
	logging.Info("                 %s", IndexFileState(config.IndexPath()))

	if err := testWriteAccess(config.WatchDir); err != nil {
		logging.Warn("  Folder is not writable, the index cannot be saved: %v", err)
	}
}

// IndexFileState describes the index file at path for the startup log:
// whether it exists, how many records it holds and its size.
func IndexFileState(path string) string {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "not present, a full sync will build it"
	}
	if err != nil {
		return fmt.Sprintf("cannot stat: %v", err)
	}

	idx, err := database.ReadIndexFile(path)
	if err != nil {
		return fmt.Sprintf("unreadable (%s), it will be rebuilt: %v", humanize.Bytes(uint64(info.Size())), err)
	}
	return fmt.Sprintf("%d records, %s, saved %s", len(idx), humanize.Bytes(uint64(info.Size())), humanize.Time(info.ModTime()))
}

// LogIndexerInit logs the start of the initial sync.
func LogIndexerInit(root string, recursive bool) {
	section("INITIAL SYNC")
	mode := "top level only"
	if recursive {
		mode = "including subfolders"
	}
	logging.Info("  Scanning %s (%s)...", root, mode)
}

// LogIndexerStarted logs the outcome of the initial sync and the index file
// it left behind.
func LogIndexerStarted(result *indexer.SyncResult, indexPath string) {
	if result.Deleted {
		logging.Info("  [OK] No images in the folder, index file removed (%v)", result.Duration)
		return
	}

	logging.Info("  [OK] %d images indexed in %v", len(result.Index), result.Duration)
	logging.Info("       extracted %d, unchanged %d, removed %d, skipped %d",
		result.Extracted, result.Unchanged, result.Removed, len(result.Skipped))
	for i, s := range result.Skipped {
		if i == 5 {
			logging.Info("       ... and %d more skipped", len(result.Skipped)-i)
			break
		}
		logging.Info("       skipped %s: %v", s.Path, s.Err)
	}
	logging.Info("  Index file: %s", IndexFileState(indexPath))
}

// LogWatcherInit logs live watcher initialization
func LogWatcherInit(debounce time.Duration) {
	section("LIVE UPDATES")
	logging.Info("  Re-syncing %v after the last change in the folder", debounce)
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// GetRoutes lists the routes of router that serve requests, sorted by path
// and method. Routes without a method restriction report "*".
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		if route.GetHandler() == nil {
			// subrouter mount points
			return nil
		}
		path, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}
		for _, method := range methods {
			routes = append(routes, RouteInfo{Method: method, Path: path, Name: route.GetName()})
		}
		return nil
	})

	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})
	return routes, err
}

// LogHTTPRoutes logs the API routes. The full table is only printed at
// debug level.
func LogHTTPRoutes(router *mux.Router, logHealthChecks bool) {
	section("HTTP API")

	routes, err := GetRoutes(router)
	if err != nil {
		logging.Warn("  Failed to list routes: %v", err)
	}
	logging.Info("  %d routes registered", len(routes))
	for _, r := range routes {
		logging.Debug("    %-6s %s", r.Method, r.Path)
	}

	if logHealthChecks {
		logging.Info("  Health check requests are logged")
	} else {
		logging.Info("  Health check requests are not logged (LOG_HEALTH_CHECKS=true to enable)")
	}
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs the listening address and the main endpoints.
func LogServerStarted(config ServerConfig) {
	base := "http://localhost:" + config.Port
	section(fmt.Sprintf("SERVER STARTED in %v", config.StartupDuration))
	logging.Info("  Filter:   %s/api/filter?q=...&fields=...", base)
	logging.Info("  Metadata: %s/api/metadata?path=...", base)
	logging.Info("  Sync:     POST %s/api/sync", base)
	if config.MetricsEnabled {
		logging.Info("  Metrics:  %s/metrics", base)
	}
	logging.Info("  Press Ctrl+C to stop")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	section(fmt.Sprintf("SHUTTING DOWN (%s)", signal))
}

// ShutdownStep runs one shutdown step and logs its outcome. A failing step
// is logged and does not stop the remaining ones.
func ShutdownStep(name string, step func() error) {
	logging.Debug("  %s...", name)
	if err := step(); err != nil {
		logging.Warn("  [FAILED] %s: %v", name, err)
		return
	}
	logging.Info("  [OK] %s", name)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// testWriteAccess writes and removes a hidden probe file in dir. The leading
// dot keeps the live watcher from reacting to it.
func testWriteAccess(dir string) error {
	testFile, err := os.CreateTemp(dir, ".write-test-*")
	if err != nil {
		return err
	}
	name := testFile.Name()
	if err := testFile.Close(); err != nil {
		logging.Warn("failed to close write test file %s: %v", name, err)
	}
	if err := os.Remove(name); err != nil {
		logging.Warn("failed to remove write test file %s: %v", name, err)
	}
	return nil
}
