package parquet

// Logger is the small injectable debug sink spec §1.2 (SPEC_FULL) calls for in place of
// the Java original's JFR events (FileOpenedEvent, PageDecodedEvent, PrefetchMissEvent,
// RowGroupScannedEvent): a host wires one in via WithLogger; the default is silent. The
// interface itself — not a concrete backend — is the contract, a small
// single-method-interface matching the rest of this package's decoder abstractions.
type Logger interface {
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
