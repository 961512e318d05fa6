package vault

import "errors"

// ErrSnapshotNotFound is returned by GetSnapshot when nothing was stored for
// the host.
var ErrSnapshotNotFound = errors.New("snapshot not found")
