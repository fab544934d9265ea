package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/balanceledger/internal/domain"
)

// SequenceGenerator issues transaction identifiers from the shared counter.
type SequenceGenerator struct {
	counterRepo CounterRepository
	location    *time.Location
	counterID   string
}

// NewSequenceGenerator creates a SequenceGenerator. A nil location means UTC.
func NewSequenceGenerator(counterRepo CounterRepository, counterID string, location *time.Location) *SequenceGenerator {
	if counterID == "" {
		counterID = domain.DefaultCounterID
	}

	if location == nil {
		location = time.UTC
	}

	return &SequenceGenerator{
		counterRepo: counterRepo,
		location:    location,
		counterID:   counterID,
	}
}

// NextTransactionID increments the counter inside tx and formats the new value
// with the date of now. Concurrent callers serialize on the counter row lock
// held until tx ends.
func (g *SequenceGenerator) NextTransactionID(ctx context.Context, tx Transaction, now time.Time) (string, error) {
	last, err := g.counterRepo.GetForUpdate(ctx, tx, g.counterID)
	if err != nil {
		return "", err
	}

	next := last + 1
	if err := g.counterRepo.Set(ctx, tx, g.counterID, next); err != nil {
		return "", fmt.Errorf("advance counter %s: %w", g.counterID, err)
	}

	return domain.FormatTransactionID(now.In(g.location), next), nil
}

// CounterID returns the counter row this generator advances.
func (g *SequenceGenerator) CounterID() string {
	return g.counterID
}
