package ports

// Watcher monitors files for changes so searches can be re-run.
// Only one Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring the given files. onChange is called with the
	// absolute path of each changed file, at most once per debounce window.
	// The callback may be invoked from any goroutine. Returns an error if a
	// file's directory doesn't exist or permissions are insufficient.
	Watch(files []string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
