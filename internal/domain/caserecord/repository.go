package caserecord

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *Case) error
	GetByID(ctx context.Context, id uuid.UUID) (*Case, error)
	List(ctx context.Context, q *ListCasesQuery) (*PagedCases, error)

	// UpdateTransition persists a status transition with check-and-set
	// semantics: the row is written only if the stored status still equals
	// expected, otherwise ErrStatusConflict. The audit trail travels in the
	// same write, so concurrent reviewers racing on one case produce exactly
	// one success.
	UpdateTransition(ctx context.Context, c *Case, expected Status) error

	// PendingReview returns the review queue: emergencies first, then oldest
	// escalation first.
	PendingReview(ctx context.Context, limit int) ([]*Case, error)
}
