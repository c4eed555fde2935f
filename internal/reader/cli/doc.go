// Package cli provides the interactive QR reader ("lector").
//
// A keyboard-wedge scanner types each code as one line on stdin, so any line
// that is not a command is treated as a scanned payload: it is debounced,
// checked locally and forwarded to the validation backend, and the verdict is
// printed. A background watcher probes the backend and shows whether the
// reader is online in the prompt.
//
// The reader must be unlocked with the device access PIN before it accepts
// scans. The REPL is started via App.Run(ctx).
package cli
