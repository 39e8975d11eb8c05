package usecase

import (
	"context"
	"strings"

	"profolio-backend/internal/domain"
	"profolio-backend/pkg/apperror"
	"profolio-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type projectUsecase struct {
	projectRepo domain.ProjectRepository
	validate    *validator.Validate
}

func NewProjectUsecase(projectRepo domain.ProjectRepository, validate *validator.Validate) domain.ProjectUsecase {
	return &projectUsecase{
		projectRepo: projectRepo,
		validate:    validate,
	}
}

func (u *projectUsecase) ListOwn(ctx context.Context) ([]domain.Project, error) {
	uid, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || uid == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	return u.projectRepo.ListByOwner(ctx, uid)
}

func (u *projectUsecase) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	uid, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || uid == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	if err := checkRequired(project); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(project); err != nil {
		return nil, apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
	}

	// Ownership comes from the verified identity, never from the payload
	project.OwnerID = uid

	if err := u.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (u *projectUsecase) Update(ctx context.Context, id string, project *domain.Project) (*domain.Project, error) {
	uid, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || uid == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	if err := checkRequired(project); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(project); err != nil {
		return nil, apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
	}

	existing, err := u.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperror.NotFound("Project not found")
	}
	if existing.OwnerID != uid {
		return nil, apperror.Forbidden("You can only edit your own projects")
	}

	// Unconditional overwrite of the mutable fields; id, owner and creation
	// time are immutable.
	updated := *existing
	updated.Title = project.Title
	updated.Description = project.Description
	updated.Github = project.Github
	updated.Demo = project.Demo

	if err := u.projectRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (u *projectUsecase) Delete(ctx context.Context, id string) error {
	uid, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || uid == "" {
		return apperror.Unauthorized("User not authenticated")
	}

	existing, err := u.projectRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		// Deleting an absent id is not an error
		return nil
	}
	if existing.OwnerID != uid {
		return apperror.Forbidden("You can only delete your own projects")
	}

	return u.projectRepo.Delete(ctx, id)
}

func checkRequired(project *domain.Project) error {
	project.Title = strings.TrimSpace(project.Title)
	project.Github = strings.TrimSpace(project.Github)
	if project.Title == "" || project.Github == "" {
		return apperror.BadRequest("Title and GitHub link are required.")
	}
	return nil
}
