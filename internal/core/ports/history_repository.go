package ports

import (
	"context"

	"github.com/terangafund/citizen-projects/internal/core/domain"
)

// HistoryRepository is the append-only audit ledger. There is deliberately no
// update or delete operation.
type HistoryRepository interface {
	Insert(ctx context.Context, e *domain.HistoryEntry) error
	// ListByProject returns entries newest-first, at most limit of them.
	ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.HistoryEntry, error)
}
