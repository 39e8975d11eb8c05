package domain

import (
	"context"
	"time"
)

// Identity is the provider-issued reference to a signed-in user, extracted
// from a verified token.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"` // display name from provider metadata
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Period      string `json:"period"`
}

type Experience struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Profile is the persisted, editable aggregate behind a public portfolio.
// Username is derived from the display name at creation and never changes;
// it is the public routing key.
type Profile struct {
	UID           string       `json:"uid"`
	Username      string       `json:"username"`
	Name          string       `json:"name" validate:"max=100"`
	Title         string       `json:"title" validate:"max=100"`
	Tagline       string       `json:"tagline" validate:"max=200"`
	Bio           string       `json:"bio" validate:"max=2000"`
	Location      string       `json:"location" validate:"max=100"`
	Phone         string       `json:"phone" validate:"max=30"`
	Email         string       `json:"email" validate:"omitempty,email"`
	Github        string       `json:"github" validate:"max=300"`
	Linkedin      string       `json:"linkedin" validate:"max=300"`
	Twitter       string       `json:"twitter" validate:"max=300"`
	ProfilePicURL string       `json:"profile_pic_url" validate:"max=500"`
	BannerURL     string       `json:"banner_url" validate:"max=500"`
	Skills        []string     `json:"skills"`
	Education     []Education  `json:"education"`
	Experience    []Experience `json:"experience"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// ProfilePatch is a shallow partial update. Nil fields are left untouched.
// Username is deliberately absent: it is immutable after creation.
type ProfilePatch struct {
	Name          *string       `json:"name,omitempty" validate:"omitempty,max=100"`
	Title         *string       `json:"title,omitempty" validate:"omitempty,max=100"`
	Tagline       *string       `json:"tagline,omitempty" validate:"omitempty,max=200"`
	Bio           *string       `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Location      *string       `json:"location,omitempty" validate:"omitempty,max=100"`
	Phone         *string       `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email         *string       `json:"email,omitempty" validate:"omitempty,email"`
	Github        *string       `json:"github,omitempty" validate:"omitempty,max=300"`
	Linkedin      *string       `json:"linkedin,omitempty" validate:"omitempty,max=300"`
	Twitter       *string       `json:"twitter,omitempty" validate:"omitempty,max=300"`
	ProfilePicURL *string       `json:"profile_pic_url,omitempty" validate:"omitempty,max=500"`
	BannerURL     *string       `json:"banner_url,omitempty" validate:"omitempty,max=500"`
	Skills        *[]string     `json:"skills,omitempty"`
	Education     *[]Education  `json:"education,omitempty"`
	Experience    *[]Experience `json:"experience,omitempty"`
}

// Apply merges the patch into the profile in place.
func (p *Profile) Apply(patch ProfilePatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Tagline != nil {
		p.Tagline = *patch.Tagline
	}
	if patch.Bio != nil {
		p.Bio = *patch.Bio
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.Github != nil {
		p.Github = *patch.Github
	}
	if patch.Linkedin != nil {
		p.Linkedin = *patch.Linkedin
	}
	if patch.Twitter != nil {
		p.Twitter = *patch.Twitter
	}
	if patch.ProfilePicURL != nil {
		p.ProfilePicURL = *patch.ProfilePicURL
	}
	if patch.BannerURL != nil {
		p.BannerURL = *patch.BannerURL
	}
	if patch.Skills != nil {
		p.Skills = *patch.Skills
	}
	if patch.Education != nil {
		p.Education = *patch.Education
	}
	if patch.Experience != nil {
		p.Experience = *patch.Experience
	}
}

type ProfileRepository interface {
	// Create inserts the profile. Inserting an existing UID is a no-op;
	// a username collision surfaces as a Conflict error.
	Create(ctx context.Context, profile *Profile) error
	// GetByUID returns (nil, nil) when no profile exists for the UID.
	GetByUID(ctx context.Context, uid string) (*Profile, error)
	// GetByUsername matches case-insensitively against the unique index.
	// Returns (nil, nil) when absent.
	GetByUsername(ctx context.Context, username string) (*Profile, error)
	// Update rewrites the full row, last-write-wins.
	Update(ctx context.Context, profile *Profile) error
}

// ImageSlot names one of the two image positions on a profile.
type ImageSlot string

const (
	SlotProfilePic ImageSlot = "profile_pic"
	SlotBanner     ImageSlot = "banner"
)

// ImageUpload is a pending image file attached to a profile save.
type ImageUpload struct {
	Slot     ImageSlot
	Filename string
	Data     []byte
}

type AuthUsecase interface {
	// EnsureProfileExists returns the profile for the identity, creating the
	// default document on first sign-in. Idempotent.
	EnsureProfileExists(ctx context.Context, identity Identity) (*Profile, error)
	// CurrentProfile resolves the signed-in user's profile, preferring the
	// session cache.
	CurrentProfile(ctx context.Context) (*Profile, error)
	// SignOut clears the local session before confirming with the provider.
	SignOut(ctx context.Context, token string) error
}

type ProfileUsecase interface {
	GetOwnProfile(ctx context.Context) (*Profile, error)
	// Save uploads pending images, merges the patch into the stored document,
	// writes it, and pushes the result into the session cache.
	Save(ctx context.Context, patch ProfilePatch, images []ImageUpload) (*Profile, error)
}

// SessionCache holds the per-identity profile snapshot for the lifetime of a
// browsing session.
type SessionCache interface {
	Put(ctx context.Context, profile *Profile) error
	// Get returns (nil, nil) when nothing is cached for the UID.
	Get(ctx context.Context, uid string) (*Profile, error)
	// Merge shallow-merges the patch into the cached profile without
	// re-reading storage. No-op when nothing is cached.
	Merge(ctx context.Context, uid string, patch ProfilePatch) (*Profile, error)
	Clear(ctx context.Context, uid string) error
}

// BlobStore uploads image bytes and returns a publicly reachable URL.
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}
