package matchmaker

import "errors"

// ErrNotPersisted reports a run whose decision was made and printed but
// could not be fully written to disk.
var ErrNotPersisted = errors.New("match decision not persisted")
