// Package scanlog records every successful ticket scan in a SQLite audit
// log, separate from the YAML registry snapshot. The snapshot is rewritten
// wholesale on save; the log is append-only, so scans registered between
// saves survive a crash.
package scanlog
