package services

import (
	"context"
	"errors"
	"fmt"

	"budget/internal/amqp"
	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/storage"
)

// Publisher announces saved snapshots.
type Publisher interface {
	PublishSnapshotSaved(ctx context.Context, msg *amqp.SnapshotSavedMessage) error
}

// FinanceService runs one user action against the stored snapshot: load it,
// apply a pure update, save the result and announce it.
type FinanceService struct {
	repo      storage.FinanceRepository
	publisher Publisher
	backend   string
	logger    *log.Logger
}

// NewFinanceService wires a repository with an optional publisher. A nil
// publisher disables events.
func NewFinanceService(repo storage.FinanceRepository, publisher Publisher, backend string, logger *log.Logger) *FinanceService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &FinanceService{
		repo:      repo,
		publisher: publisher,
		backend:   backend,
		logger:    logger.WithComponent(log.ComponentService),
	}
}

func (s *FinanceService) Load(ctx context.Context) (core.Finance, error) {
	f, err := s.repo.Load(ctx)
	if err != nil {
		return core.Finance{}, fmt.Errorf("load finance: %w", err)
	}
	return f, nil
}

// AddLog appends e to the stored log and returns the saved snapshot.
func (s *FinanceService) AddLog(ctx context.Context, e core.LogEntry) (core.Finance, error) {
	if err := e.Validate(); err != nil {
		return core.Finance{}, fmt.Errorf("validate log entry: %w", err)
	}

	f, err := s.Load(ctx)
	if err != nil {
		return core.Finance{}, err
	}

	f = f.WithLog(e)
	if err := s.Save(ctx, f); err != nil {
		return core.Finance{}, err
	}

	s.logger.InfoContext(ctx, "Log entry added",
		log.NewFields().
			WithOperation(log.OpAppend).
			WithLogEntry(e.Product, e.Price, e.YearMonth.String()).
			ToSlice()...)

	return f, nil
}

// AddProduct registers p, replacing the category of an existing product.
func (s *FinanceService) AddProduct(ctx context.Context, p core.Product) (core.Finance, error) {
	if err := p.Validate(); err != nil {
		return core.Finance{}, fmt.Errorf("validate product: %w", err)
	}

	f, err := s.Load(ctx)
	if err != nil {
		return core.Finance{}, err
	}

	f = f.WithProduct(p)
	if err := s.Save(ctx, f); err != nil {
		return core.Finance{}, err
	}

	s.logger.InfoContext(ctx, "Product registered",
		log.NewFields().
			WithOperation(log.OpProduct).
			WithProduct(p.ID, p.Category).
			ToSlice()...)

	return f, nil
}

// Save persists f and publishes a snapshot-saved message. Publishing is best
// effort: a failure is logged and the save still counts.
func (s *FinanceService) Save(ctx context.Context, f core.Finance) error {
	if err := s.repo.Save(ctx, f); err != nil {
		return fmt.Errorf("save finance: %w", err)
	}

	if err := s.publish(ctx, f); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish snapshot message",
			log.NewFields().WithOperation(log.OpPublish).WithError(err).ToSlice()...)
	}

	return nil
}

func (s *FinanceService) publish(ctx context.Context, f core.Finance) error {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "AMQP publisher not configured, skipping snapshot message")
		return nil
	}

	msg := amqp.NewSnapshotSavedMessage(s.backend, s.location(), f.Len(), len(f.Products()))
	return s.publisher.PublishSnapshotSaved(ctx, msg)
}

func (s *FinanceService) location() string {
	if p, ok := s.repo.(interface{ Path() string }); ok {
		return p.Path()
	}
	return ""
}

// Close releases the repository and publisher when they hold resources.
func (s *FinanceService) Close() error {
	var errs []error

	if c, ok := s.repo.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if c, ok := s.publisher.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close finance service: %w", err)
	}
	return nil
}
