package postgres

import (
	"context"
	"errors"
	"time"

	"profolio-backend/internal/domain"
	"profolio-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type projectRepo struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) domain.ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	// The id tiebreak keeps ordering stable for projects created in the same
	// instant.
	query := `SELECT id, owner_id, title, description, github, demo, created_at
	          FROM projects WHERE owner_id = $1
	          ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Github, &p.Demo, &p.CreatedAt); err != nil {
			return nil, apperror.Internal(err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Internal(err)
	}
	return projects, nil
}

func (r *projectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT id, owner_id, title, description, github, demo, created_at
	          FROM projects WHERE id = $1`

	var p domain.Project
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Github, &p.Demo, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Internal(err)
	}
	return &p, nil
}

func (r *projectRepo) Create(ctx context.Context, project *domain.Project) error {
	// The gateway assigns the id and timestamp, like the document store did
	project.ID = uuid.NewString()
	project.CreatedAt = time.Now()

	query := `INSERT INTO projects (id, owner_id, title, description, github, demo, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		project.ID, project.OwnerID, project.Title, project.Description,
		project.Github, project.Demo, project.CreatedAt,
	)
	if err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (r *projectRepo) Update(ctx context.Context, project *domain.Project) error {
	query := `UPDATE projects SET title = $2, description = $3, github = $4, demo = $5
	          WHERE id = $1`

	_, err := r.db.Exec(ctx, query,
		project.ID, project.Title, project.Description, project.Github, project.Demo,
	)
	if err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (r *projectRepo) Delete(ctx context.Context, id string) error {
	// Idempotent: zero rows affected is fine
	_, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return apperror.Internal(err)
	}
	return nil
}
