package parquet

// Functional options for Open: the idiomatic Go way to let a host override a handful
// of defaults without an exported config struct.

// OpenOption configures a FileHandle at Open time.
type OpenOption func(*FileHandle)

// WithExecutor overrides the default worker pool used to decode pages in parallel
// (spec §4.3, spec §6's "executor" parameter).
func WithExecutor(exec Executor) OpenOption {
	return func(h *FileHandle) { h.executor = exec }
}

// WithDecompressors overrides the codec table pages are decompressed with (spec §6's
// "decompressors" parameter). A nil table falls back to the process-wide registry
// (compress.go's DefaultDecompressors).
func WithDecompressors(table map[CompressionCodec]Decompressor) OpenOption {
	return func(h *FileHandle) { h.decompressors = table }
}

// WithLogger overrides the structured logger used for prefetch-miss diagnostics and
// other ambient-stack messages (SPEC_FULL.md §1.3).
func WithLogger(logger Logger) OpenOption {
	return func(h *FileHandle) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithBatchCapacity overrides the number of records buffered per batch by the Assembly
// Buffer and the Nested Batch Loader (spec §4.4, spec §4.5).
func WithBatchCapacity(n int) OpenOption {
	return func(h *FileHandle) {
		if n > 0 {
			h.batchCapacity = n
		}
	}
}

// WithPrefetchDepth overrides the adaptive Page Cursor's starting and maximum prefetch
// depth (spec §4.3; defaults are 4 and 8).
func WithPrefetchDepth(initial, max int) OpenOption {
	return func(h *FileHandle) {
		if initial > 0 {
			h.prefetchInit = initial
		}
		if max >= h.prefetchInit {
			h.prefetchMax = max
		}
	}
}

// WithFileName attaches a display name used in error messages (errors.go's Error.File).
func WithFileName(name string) OpenOption {
	return func(h *FileHandle) { h.fileName = name }
}
