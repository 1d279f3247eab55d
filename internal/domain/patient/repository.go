package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	ExistsByNationalID(ctx context.Context, nationalID string, excludeID *uuid.UUID) (bool, error)
	List(ctx context.Context, q *ListPatientsQuery) (*PagedPatients, error)
	SetPregnancyStatus(ctx context.Context, id uuid.UUID, pregnant bool) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
