package ds

// Service is the orchestration layer that coordinates the store and the
// filesystem to capture and restore directory timestamp state.
type Service struct {
	database Database
	fsmgr    FilesystemManager
	logger   Logger
	clock    Clock
}

// NewService creates a Service with the provided dependencies.
func NewService(database Database, fsmgr FilesystemManager, logger Logger, clock Clock) *Service {
	return &Service{
		database: database,
		fsmgr:    fsmgr,
		logger:   logger,
		clock:    clock,
	}
}
