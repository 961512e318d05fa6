package journal

import "io"

// Vault stores database snapshots off-site. Readers and writers are streamed
// so large journals are never held in memory.
type Vault interface {
	// PutSnapshot stores the snapshot for hostID, replacing any previous one.
	// size is the number of bytes that will be read from r. version is kept
	// alongside the snapshot for consistency checks.
	PutSnapshot(hostID string, r io.Reader, size int64, version int64) error

	// GetSnapshot writes the stored snapshot for hostID to w.
	GetSnapshot(hostID string, w io.Writer) error

	// GetSnapshotVersion returns the stored version, or 0 if none exists.
	GetSnapshotVersion(hostID string) (int64, error)

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup() error
}
