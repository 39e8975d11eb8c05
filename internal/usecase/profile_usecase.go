package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"profolio-backend/internal/domain"
	"profolio-backend/pkg/apperror"
	"profolio-backend/pkg/storage"
	"profolio-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

const (
	imageMaxDimension = 1200
	imageJPEGQuality  = 80
)

type profileUsecase struct {
	profileRepo domain.ProfileRepository
	blobs       domain.BlobStore
	session     domain.SessionCache
	validate    *validator.Validate
}

func NewProfileUsecase(profileRepo domain.ProfileRepository, blobs domain.BlobStore, session domain.SessionCache, validate *validator.Validate) domain.ProfileUsecase {
	return &profileUsecase{
		profileRepo: profileRepo,
		blobs:       blobs,
		session:     session,
		validate:    validate,
	}
}

func (u *profileUsecase) GetOwnProfile(ctx context.Context) (*domain.Profile, error) {
	uid, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || uid == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	if cached, err := u.session.Get(ctx, uid); err == nil && cached != nil {
		return cached, nil
	}

	profile, err := u.profileRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperror.NotFound("Profile not found")
	}
	return profile, nil
}

// Save runs the editor's save pipeline: upload pending images, normalize the
// list sections, merge the patch into the stored document, write it, and push
// the same patch into the session cache. Any upload or validation failure
// aborts before the document write, so the caller can retry with its local
// state intact.
func (u *profileUsecase) Save(ctx context.Context, patch domain.ProfilePatch, images []domain.ImageUpload) (*domain.Profile, error) {
	uid, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || uid == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	if err := u.validate.Struct(&patch); err != nil {
		return nil, apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
	}

	if patch.Skills != nil {
		normalized := normalizeSkills(*patch.Skills)
		patch.Skills = &normalized
	}
	if patch.Education != nil {
		for _, e := range *patch.Education {
			if blankEducation(e) {
				return nil, apperror.BadRequest("Please fill in at least one field for each education entry")
			}
		}
	}
	if patch.Experience != nil {
		for _, e := range *patch.Experience {
			if blankExperience(e) {
				return nil, apperror.BadRequest("Please fill in at least one field for each experience entry")
			}
		}
	}

	existing, err := u.profileRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperror.NotFound("Profile not found")
	}

	// The uploads run sequentially and independently: a later failure aborts
	// the save, but an earlier slot's blob stays uploaded until the retry.
	for _, img := range images {
		url, err := u.uploadImage(ctx, uid, img)
		if err != nil {
			return nil, err
		}
		switch img.Slot {
		case domain.SlotProfilePic:
			patch.ProfilePicURL = &url
		case domain.SlotBanner:
			patch.BannerURL = &url
		}
	}

	merged := *existing
	merged.Apply(patch)

	if err := u.profileRepo.Update(ctx, &merged); err != nil {
		return nil, err
	}

	// Optimistic local merge; the cache is best-effort and never refetched
	_, _ = u.session.Merge(ctx, uid, patch)

	return &merged, nil
}

func (u *profileUsecase) uploadImage(ctx context.Context, uid string, img domain.ImageUpload) (string, error) {
	if img.Slot != domain.SlotProfilePic && img.Slot != domain.SlotBanner {
		return "", apperror.BadRequest(fmt.Sprintf("Unknown image slot %q", img.Slot))
	}

	contentType := http.DetectContentType(img.Data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", apperror.BadRequest("Profile images must be image files")
	}

	data, err := storage.CompressImage(img.Data, imageMaxDimension, imageJPEGQuality)
	if err != nil {
		// Unsupported encodings are stored as uploaded
		data = img.Data
	} else {
		contentType = "image/jpeg"
	}

	path := fmt.Sprintf("profiles/%s/%s_%d%s", uid, img.Slot, time.Now().UnixNano(), imageExtension(contentType))
	url, err := u.blobs.Upload(ctx, path, data, contentType)
	if err != nil {
		return "", apperror.UploadFailed(fmt.Sprintf("Failed to upload %s image", img.Slot), err)
	}
	return url, nil
}

// imageExtension keeps the blob key consistent with what is actually stored,
// including encodings that skip the JPEG re-encode.
func imageExtension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}

// normalizeSkills trims entries, drops blanks, and removes case-insensitive
// duplicates while preserving first-seen order and casing.
func normalizeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

func blankEducation(e domain.Education) bool {
	return strings.TrimSpace(e.Institution) == "" &&
		strings.TrimSpace(e.Degree) == "" &&
		strings.TrimSpace(e.Field) == "" &&
		strings.TrimSpace(e.Period) == ""
}

func blankExperience(e domain.Experience) bool {
	return strings.TrimSpace(e.Company) == "" &&
		strings.TrimSpace(e.Title) == "" &&
		strings.TrimSpace(e.Duration) == "" &&
		strings.TrimSpace(e.Description) == ""
}
