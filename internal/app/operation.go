package app

// Status values recorded for a backup operation.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusError   = "error"
)

// BackupOperation tracks a backup or restore run. Operations are created in
// memory with ID=0 and only persisted when they are about to change the vault,
// which gives them the auto-increment ID used as the snapshot version.
type BackupOperation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string
}

// NewBackupOperation creates a new in-memory backup operation.
func NewBackupOperation(operation, parameters string) *BackupOperation {
	return &BackupOperation{
		Operation:  operation,
		Parameters: parameters,
		Status:     StatusRunning,
	}
}

// Persisted returns true if this operation has been saved to the database.
func (op *BackupOperation) Persisted() bool {
	return op.ID != 0
}

// Finish records the outcome of the operation.
func (op *BackupOperation) Finish(err error) {
	if err != nil {
		op.Status = StatusError
		return
	}
	op.Status = StatusSuccess
}
