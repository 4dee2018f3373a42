package ports

// Watcher monitors a single file and reports changes to it. The adapter
// (fsnotify) watches the parent directory so editors that replace the file
// on save are still seen. Only one Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring path. onChange is called with the absolute
	// path after each debounced write, create or rename of the file.
	// The callback may be invoked from any goroutine.
	Watch(path string, onChange func(path string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
