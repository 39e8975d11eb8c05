package usecase

import (
	"context"
	"fmt"
	"strings"

	"profolio-backend/internal/domain"
	"profolio-backend/pkg/apperror"
)

type portfolioUsecase struct {
	profileRepo domain.ProfileRepository
	projectRepo domain.ProjectRepository
}

func NewPortfolioUsecase(profileRepo domain.ProfileRepository, projectRepo domain.ProjectRepository) domain.PortfolioUsecase {
	return &portfolioUsecase{
		profileRepo: profileRepo,
		projectRepo: projectRepo,
	}
}

// GetByUsername is the public two-phase read: username -> profile, then
// profile -> projects. An unknown username short-circuits to NotFound and
// the project query never runs.
func (u *portfolioUsecase) GetByUsername(ctx context.Context, username string) (*domain.Portfolio, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.BadRequest("Username is required")
	}

	profile, err := u.profileRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperror.NotFound(fmt.Sprintf("Portfolio for user '%s' not found", username))
	}

	projects, err := u.projectRepo.ListByOwner(ctx, profile.UID)
	if err != nil {
		return nil, err
	}

	return &domain.Portfolio{
		Profile:  profile.Public(),
		Projects: projects,
	}, nil
}
