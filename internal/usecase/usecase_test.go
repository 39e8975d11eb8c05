package usecase_test

import (
	"context"
	"strings"
	"testing"

	"profolio-backend/internal/domain"
	"profolio-backend/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockProfileRepo) GetByUID(ctx context.Context, uid string) (*domain.Profile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) Update(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	return m.Called(ctx, project).Error(0)
}

func (m *MockProjectRepo) Update(ctx context.Context, project *domain.Project) error {
	return m.Called(ctx, project).Error(0)
}

func (m *MockProjectRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockSessionCache struct {
	mock.Mock
}

func (m *MockSessionCache) Put(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockSessionCache) Get(ctx context.Context, uid string) (*domain.Profile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockSessionCache) Merge(ctx context.Context, uid string, patch domain.ProfilePatch) (*domain.Profile, error) {
	args := m.Called(ctx, uid, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockSessionCache) Clear(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, path, data, contentType)
	return args.String(0), args.Error(1)
}

func authedCtx(uid string) context.Context {
	return context.WithValue(context.Background(), domain.KeyUserID, uid)
}

func TestEnsureProfileExistsFirstSignIn(t *testing.T) {
	mockRepo := new(MockProfileRepo)
	mockSession := new(MockSessionCache)
	uc := usecase.NewAuthUsecase(mockRepo, mockSession, "", "")

	ctx := context.Background()
	identity := domain.Identity{ID: "uid-1", Email: "ada@example.com", Name: "Ada Lovelace"}

	mockRepo.On("GetByUID", ctx, "uid-1").Return(nil, nil).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Profile")).Return(nil).Run(func(args mock.Arguments) {
		p := args.Get(1).(*domain.Profile)
		assert.Equal(t, "adalovelace", p.Username)
		assert.Equal(t, "Aspiring Developer", p.Title)
		assert.Equal(t, "Hello! I'm Ada Lovelace, and this is my portfolio.", p.Bio)
		assert.Equal(t, "ada@example.com", p.Email)
	}).Once()
	created := &domain.Profile{UID: "uid-1", Username: "adalovelace"}
	mockRepo.On("GetByUID", ctx, "uid-1").Return(created, nil).Once()
	mockSession.On("Put", ctx, created).Return(nil)

	profile, err := uc.EnsureProfileExists(ctx, identity)
	assert.NoError(t, err)
	assert.Equal(t, "adalovelace", profile.Username)
	mockRepo.AssertExpectations(t)
}

func TestEnsureProfileExistsIsIdempotent(t *testing.T) {
	mockRepo := new(MockProfileRepo)
	mockSession := new(MockSessionCache)
	uc := usecase.NewAuthUsecase(mockRepo, mockSession, "", "")

	ctx := context.Background()
	existing := &domain.Profile{UID: "uid-1", Username: "adalovelace"}
	mockRepo.On("GetByUID", ctx, "uid-1").Return(existing, nil)
	mockSession.On("Put", ctx, existing).Return(nil)

	for i := 0; i < 2; i++ {
		profile, err := uc.EnsureProfileExists(ctx, domain.Identity{ID: "uid-1", Email: "ada@example.com"})
		assert.NoError(t, err)
		assert.Equal(t, "adalovelace", profile.Username)
	}

	// The default document is never written a second time
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEnsureProfileExistsFallsBackToEmailLocalPart(t *testing.T) {
	mockRepo := new(MockProfileRepo)
	mockSession := new(MockSessionCache)
	uc := usecase.NewAuthUsecase(mockRepo, mockSession, "", "")

	ctx := context.Background()
	mockRepo.On("GetByUID", ctx, "uid-2").Return(nil, nil).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Profile")).Return(nil).Run(func(args mock.Arguments) {
		p := args.Get(1).(*domain.Profile)
		assert.Equal(t, "grace", p.Name)
		assert.Equal(t, "grace", p.Username)
	}).Once()
	mockRepo.On("GetByUID", ctx, "uid-2").Return(&domain.Profile{UID: "uid-2"}, nil).Once()
	mockSession.On("Put", ctx, mock.Anything).Return(nil)

	_, err := uc.EnsureProfileExists(ctx, domain.Identity{ID: "uid-2", Email: "grace@example.com"})
	assert.NoError(t, err)
}

func TestCurrentProfilePrefersSessionCache(t *testing.T) {
	mockRepo := new(MockProfileRepo)
	mockSession := new(MockSessionCache)
	uc := usecase.NewAuthUsecase(mockRepo, mockSession, "", "")

	ctx := authedCtx("uid-1")
	cached := &domain.Profile{UID: "uid-1", Username: "adalovelace"}
	mockSession.On("Get", ctx, "uid-1").Return(cached, nil)

	profile, err := uc.CurrentProfile(ctx)
	assert.NoError(t, err)
	assert.Equal(t, cached, profile)
	mockRepo.AssertNotCalled(t, "GetByUID", mock.Anything, mock.Anything)
}

func TestCurrentProfileRequiresAuth(t *testing.T) {
	uc := usecase.NewAuthUsecase(new(MockProfileRepo), new(MockSessionCache), "", "")

	_, err := uc.CurrentProfile(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "User not authenticated")
}

func TestSignOutClearsSession(t *testing.T) {
	mockSession := new(MockSessionCache)
	uc := usecase.NewAuthUsecase(new(MockProfileRepo), mockSession, "", "")

	ctx := authedCtx("uid-1")
	mockSession.On("Clear", ctx, "uid-1").Return(nil)

	assert.NoError(t, uc.SignOut(ctx, "token"))
	mockSession.AssertExpectations(t)
}

func TestProfileSaveNormalizesSkills(t *testing.T) {
	mockRepo := new(MockProfileRepo)
	mockSession := new(MockSessionCache)
	validate := validator.New()
	uc := usecase.NewProfileUsecase(mockRepo, new(MockBlobStore), mockSession, validate)

	ctx := authedCtx("uid-1")
	existing := &domain.Profile{UID: "uid-1", Username: "adalovelace"}
	mockRepo.On("GetByUID", ctx, "uid-1").Return(existing, nil)
	mockRepo.On("Update", ctx, mock.AnythingOfType("*domain.Profile")).Return(nil).Run(func(args mock.Arguments) {
		p := args.Get(1).(*domain.Profile)
		assert.Equal(t, []string{"Go", "Rust"}, p.Skills)
	})
	mockSession.On("Merge", ctx, "uid-1", mock.Anything).Return(nil, nil)

	skills := []string{" Go ", "Rust", "go", ""}
	saved, err := uc.Save(ctx, domain.ProfilePatch{Skills: &skills}, nil)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Go", "Rust"}, saved.Skills)
}

func TestProfileSaveCanClearSkills(t *testing.T) {
	mockRepo := new(MockProfileRepo)
	mockSession := new(MockSessionCache)
	validate := validator.New()
	uc := usecase.NewProfileUsecase(mockRepo, new(MockBlobStore), mockSession, validate)

	ctx := authedCtx("uid-1")
	existing := &domain.Profile{UID: "uid-1", Skills: []string{"Go"}}
	mockRepo.On("GetByUID", ctx, "uid-1").Return(existing, nil)
	mockRepo.On("Update", ctx, mock.AnythingOfType("*domain.Profile")).Return(nil)
	mockSession.On("Merge", ctx, "uid-1", mock.Anything).Return(nil, nil)

	// Adding then removing a skill ends with an empty list, not the old one
	skills := []string{}
	saved, err := uc.Save(ctx, domain.ProfilePatch{Skills: &skills}, nil)
	assert.NoError(t, err)
	assert.Empty(t, saved.Skills)
}

func TestProfileSaveRejectsBlankEducationEntry(t *testing.T) {
	mockRepo := new(MockProfileRepo)
	validate := validator.New()
	uc := usecase.NewProfileUsecase(mockRepo, new(MockBlobStore), new(MockSessionCache), validate)

	ctx := authedCtx("uid-1")
	education := []domain.Education{{Institution: "  ", Degree: "", Field: "", Period: ""}}

	_, err := uc.Save(ctx, domain.ProfilePatch{Education: &education}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least one field")
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProfileSaveRejectsNonImageUpload(t *testing.T) {
	mockRepo := new(MockProfileRepo)
	mockBlobs := new(MockBlobStore)
	validate := validator.New()
	uc := usecase.NewProfileUsecase(mockRepo, mockBlobs, new(MockSessionCache), validate)

	ctx := authedCtx("uid-1")
	mockRepo.On("GetByUID", ctx, "uid-1").Return(&domain.Profile{UID: "uid-1"}, nil)

	images := []domain.ImageUpload{{Slot: domain.SlotProfilePic, Filename: "x.txt", Data: []byte("plain text, not pixels")}}
	_, err := uc.Save(ctx, domain.ProfilePatch{}, images)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be image files")
	mockBlobs.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProfileSaveKeepsOriginalEncodingExtension(t *testing.T) {
	mockRepo := new(MockProfileRepo)
	mockBlobs := new(MockBlobStore)
	mockSession := new(MockSessionCache)
	validate := validator.New()
	uc := usecase.NewProfileUsecase(mockRepo, mockBlobs, mockSession, validate)

	ctx := authedCtx("uid-1")
	mockRepo.On("GetByUID", ctx, "uid-1").Return(&domain.Profile{UID: "uid-1"}, nil)
	mockRepo.On("Update", ctx, mock.Anything).Return(nil)
	mockSession.On("Merge", ctx, "uid-1", mock.Anything).Return(nil, nil)

	// A WebP upload skips the JPEG re-encode; the stored key and content
	// type must both say webp.
	webp := append([]byte("RIFF\x24\x00\x00\x00WEBPVP8 "), make([]byte, 32)...)
	mockBlobs.On("Upload", ctx, mock.Anything, mock.Anything, "image/webp").Return("https://cdn.example.com/x.webp", nil).Run(func(args mock.Arguments) {
		path := args.Get(1).(string)
		assert.True(t, strings.HasSuffix(path, ".webp"), "blob key %q should carry the webp extension", path)
		assert.False(t, strings.Contains(path, ".jpg"))
	})

	images := []domain.ImageUpload{{Slot: domain.SlotProfilePic, Filename: "pic.webp", Data: webp}}
	saved, err := uc.Save(ctx, domain.ProfilePatch{}, images)
	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/x.webp", saved.ProfilePicURL)
	mockBlobs.AssertExpectations(t)
}

func TestProjectCreateRequiredFields(t *testing.T) {
	mockRepo := new(MockProjectRepo)
	validate := validator.New()
	uc := usecase.NewProjectUsecase(mockRepo, validate)

	ctx := authedCtx("uid-1")

	t.Run("Should fail when title is blank", func(t *testing.T) {
		_, err := uc.Create(ctx, &domain.Project{Title: "   ", Github: "https://github.com/ada/x"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Title and GitHub link are required.")
	})

	t.Run("Should fail when github link is blank", func(t *testing.T) {
		_, err := uc.Create(ctx, &domain.Project{Title: "Analytical Engine", Github: ""})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Title and GitHub link are required.")
	})

	// No write reaches the repository for rejected input
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProjectCreateForcesOwnerFromContext(t *testing.T) {
	mockRepo := new(MockProjectRepo)
	validate := validator.New()
	uc := usecase.NewProjectUsecase(mockRepo, validate)

	ctx := authedCtx("uid-1")
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Project")).Return(nil).Run(func(args mock.Arguments) {
		p := args.Get(1).(*domain.Project)
		assert.Equal(t, "uid-1", p.OwnerID)
	})

	_, err := uc.Create(ctx, &domain.Project{OwnerID: "hacker_try", Title: "Engine", Github: "https://github.com/ada/engine"})
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestProjectUpdateOwnershipCheck(t *testing.T) {
	mockRepo := new(MockProjectRepo)
	validate := validator.New()
	uc := usecase.NewProjectUsecase(mockRepo, validate)

	ctx := authedCtx("uid-1")
	mockRepo.On("GetByID", ctx, "p1").Return(&domain.Project{ID: "p1", OwnerID: "someone-else"}, nil)

	_, err := uc.Update(ctx, "p1", &domain.Project{Title: "Engine", Github: "https://github.com/ada/engine"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "only edit your own projects")
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProjectDeleteIsIdempotent(t *testing.T) {
	mockRepo := new(MockProjectRepo)
	validate := validator.New()
	uc := usecase.NewProjectUsecase(mockRepo, validate)

	ctx := authedCtx("uid-1")
	mockRepo.On("GetByID", ctx, "gone").Return(nil, nil)

	// Deleting an id that no longer exists succeeds both times
	assert.NoError(t, uc.Delete(ctx, "gone"))
	assert.NoError(t, uc.Delete(ctx, "gone"))
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestPortfolioUnknownUsername(t *testing.T) {
	mockProfiles := new(MockProfileRepo)
	mockProjects := new(MockProjectRepo)
	uc := usecase.NewPortfolioUsecase(mockProfiles, mockProjects)

	ctx := context.Background()
	mockProfiles.On("GetByUsername", ctx, "nobody").Return(nil, nil)

	_, err := uc.GetByUsername(ctx, "nobody")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Portfolio for user 'nobody' not found")
	mockProjects.AssertNotCalled(t, "ListByOwner", mock.Anything, mock.Anything)
}

func TestPortfolioWithholdsContactDetails(t *testing.T) {
	mockProfiles := new(MockProfileRepo)
	mockProjects := new(MockProjectRepo)
	uc := usecase.NewPortfolioUsecase(mockProfiles, mockProjects)

	ctx := context.Background()
	profile := &domain.Profile{
		UID:      "uid-1",
		Username: "adalovelace",
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Phone:    "+44 20 7946 0000",
		Github:   "https://github.com/ada",
	}
	mockProfiles.On("GetByUsername", ctx, "adalovelace").Return(profile, nil)
	mockProjects.On("ListByOwner", ctx, "uid-1").Return([]domain.Project{{ID: "p1", OwnerID: "uid-1", Title: "Engine"}}, nil)

	portfolio, err := uc.GetByUsername(ctx, "adalovelace")
	assert.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", portfolio.Profile.Name)
	assert.Equal(t, "https://github.com/ada", portfolio.Profile.Github)
	assert.Len(t, portfolio.Projects, 1)
}
