package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode"

	"profolio-backend/internal/domain"
	"profolio-backend/pkg/apperror"
)

const defaultTitle = "Aspiring Developer"

type authUsecase struct {
	profileRepo domain.ProfileRepository
	session     domain.SessionCache
	providerURL string // identity provider base URL, for sign-out confirmation
	providerKey string
	httpClient  *http.Client
}

func NewAuthUsecase(profileRepo domain.ProfileRepository, session domain.SessionCache, providerURL, providerKey string) domain.AuthUsecase {
	return &authUsecase{
		profileRepo: profileRepo,
		session:     session,
		providerURL: providerURL,
		providerKey: providerKey,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// EnsureProfileExists returns the profile for the identity, creating the
// default document on first sign-in. Safe to call repeatedly: the insert is
// a no-op for an existing UID and the result is re-fetched either way, so
// concurrent first sign-ins converge on a single document.
func (u *authUsecase) EnsureProfileExists(ctx context.Context, identity domain.Identity) (*domain.Profile, error) {
	if identity.ID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	existing, err := u.profileRepo.GetByUID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// Best effort: a cache failure must not fail the sign-in
		_ = u.session.Put(ctx, existing)
		return existing, nil
	}

	profile := defaultProfile(identity)
	err = u.profileRepo.Create(ctx, profile)
	if appErr, ok := err.(*apperror.AppError); ok && appErr.Code == http.StatusConflict {
		// Username taken by another user: retry once with a uid-derived suffix
		profile.Username = profile.Username + suffixFromUID(identity.ID)
		err = u.profileRepo.Create(ctx, profile)
	}
	if err != nil {
		return nil, err
	}

	// Re-fetch to pick up whichever document won a concurrent create
	created, err := u.profileRepo.GetByUID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, apperror.Internal(nil)
	}

	_ = u.session.Put(ctx, created)
	return created, nil
}

func (u *authUsecase) CurrentProfile(ctx context.Context) (*domain.Profile, error) {
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

	_ = u.session.Put(ctx, profile)
	return profile, nil
}

// SignOut clears the cached session first, then confirms with the provider.
// The clear-then-confirm ordering keeps a failed provider round trip from
// leaving stale authenticated state behind.
func (u *authUsecase) SignOut(ctx context.Context, token string) error {
	uid, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || uid == "" {
		return apperror.Unauthorized("User not authenticated")
	}

	if err := u.session.Clear(ctx, uid); err != nil {
		return apperror.Internal(err)
	}

	if u.providerURL != "" && token != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.providerURL+"/auth/v1/logout", nil)
		if err == nil {
			req.Header.Set("Authorization", "Bearer "+token)
			req.Header.Set("apikey", u.providerKey)
			if resp, err := u.httpClient.Do(req); err == nil {
				resp.Body.Close()
			}
			// Provider failure is not surfaced: local state is already cleared
		}
	}

	return nil
}

// defaultProfile synthesizes the first-sign-in document from provider data.
func defaultProfile(identity domain.Identity) *domain.Profile {
	name := identity.Name
	if name == "" {
		// Some providers omit a display name; fall back to the email local part
		name = strings.SplitN(identity.Email, "@", 2)[0]
	}

	now := time.Now()
	return &domain.Profile{
		UID:        identity.ID,
		Username:   deriveUsername(name, identity.ID),
		Name:       name,
		Title:      defaultTitle,
		Bio:        "Hello! I'm " + name + ", and this is my portfolio.",
		Email:      identity.Email,
		Skills:     []string{},
		Education:  []domain.Education{},
		Experience: []domain.Experience{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// deriveUsername lowercases the display name and strips whitespace; an empty
// result falls back to a uid-derived handle.
func deriveUsername(name, uid string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user" + suffixFromUID(uid)
	}
	return b.String()
}

// suffixFromUID yields a short disambiguator from the identity id.
func suffixFromUID(uid string) string {
	clean := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, strings.ToLower(uid))
	if len(clean) > 6 {
		clean = clean[:6]
	}
	return clean
}
