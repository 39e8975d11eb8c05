package domain

import (
	"context"
	"time"
)

type Project struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title" validate:"required,max=150"`
	Description string    `json:"description" validate:"max=1000"`
	Github      string    `json:"github" validate:"required,max=300"`
	Demo        string    `json:"demo" validate:"max=300"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProjectRepository interface {
	// ListByOwner returns the owner's projects, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]Project, error)
	// GetByID returns (nil, nil) when the project does not exist.
	GetByID(ctx context.Context, id string) (*Project, error)
	// Create assigns the id and created_at and stores the record.
	Create(ctx context.Context, project *Project) error
	Update(ctx context.Context, project *Project) error
	// Delete is idempotent: deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
}

type ProjectUsecase interface {
	ListOwn(ctx context.Context) ([]Project, error)
	Create(ctx context.Context, project *Project) (*Project, error)
	Update(ctx context.Context, id string, project *Project) (*Project, error)
	Delete(ctx context.Context, id string) error
}
