package backend

import (
	"context"
	"time"

	"budget/internal/services"
	"budget/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult holds the repository chosen by the factory and the service
// wrapping it.
type BackendResult struct {
	Repository storage.FinanceRepository
	Service    *services.FinanceService
	Cleanup    CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	FinanceFilePath string
	SQLiteDBPath    string

	// AMQP is optional for both backends.
	AMQPURL        string
	AMQPExchange   string
	AMQPQueue      string
	PublishTimeout time.Duration
}

// BackendType represents the type of backend
type BackendType string

const (
	JSONBackend   BackendType = "json"
	SQLiteBackend BackendType = "sqlite"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case JSONBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
