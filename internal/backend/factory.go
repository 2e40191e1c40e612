package backend

import (
	"context"
	"fmt"

	"budget/internal/amqp"
	"budget/internal/log"
	"budget/internal/services"
	"budget/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	repo, err := OpenRepository(config.Type, config.location())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s repository: %w", config.Type, err)
	}

	// AMQP is optional: a broker that cannot be reached only disables events.
	var publisher services.Publisher
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, config.PublishTimeout)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			publisher = client
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				log.FieldExchange, config.AMQPExchange,
				log.FieldQueue, config.AMQPQueue)
		}
	}

	service := services.NewFinanceService(repo, publisher, config.Type.String(), f.logger)

	f.logger.DebugContext(ctx, "Initialized backend",
		log.FieldBackend, config.Type,
		log.FieldPath, config.location(),
		"amqp_enabled", publisher != nil)

	return &BackendResult{
		Repository: repo,
		Service:    service,
		Cleanup:    service.Close,
	}, nil
}

func (c Config) location() string {
	if c.Type == SQLiteBackend {
		return c.SQLiteDBPath
	}
	return c.FinanceFilePath
}

// OpenRepository opens a repository of the given type at path. SQLite
// repositories must be closed by the caller.
func OpenRepository(t BackendType, path string) (storage.FinanceRepository, error) {
	switch t {
	case JSONBackend:
		return storage.NewJSONRepository(path), nil
	case SQLiteBackend:
		return storage.NewSQLiteRepository(path)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", t)
	}
}
