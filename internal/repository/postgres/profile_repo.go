package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"profolio-backend/internal/domain"
	"profolio-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
)

const profileColumns = `uid, username, name, title, tagline, bio, location, phone, email,
	       github, linkedin, twitter, profile_pic_url, banner_url,
	       skills, education, experience, created_at, updated_at`

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	// DO NOTHING on uid makes concurrent first sign-ins converge on one row;
	// the caller re-fetches afterwards. Username collisions still surface.
	query := `INSERT INTO profiles (
	              uid, username, name, title, tagline, bio, location, phone, email,
	              github, linkedin, twitter, profile_pic_url, banner_url,
	              skills, education, experience, created_at, updated_at
	          ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	          ON CONFLICT (uid) DO NOTHING`

	args, err := insertArgs(profile)
	if err != nil {
		return apperror.Internal(err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation &&
			strings.Contains(pgErr.ConstraintName, "username") {
			return apperror.Conflict("Username is already taken")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (r *profileRepo) GetByUID(ctx context.Context, uid string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE uid = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, uid))
}

func (r *profileRepo) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	// Usernames are stored lowercase; lower() on both sides keeps the lookup
	// case-insensitive and on the unique index.
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE lower(username) = lower($1)`
	return r.scanOne(r.db.QueryRow(ctx, query, username))
}

func (r *profileRepo) Update(ctx context.Context, profile *domain.Profile) error {
	profile.UpdatedAt = time.Now()

	// Wholesale rewrite, last-write-wins. Username is never touched here.
	query := `UPDATE profiles SET
	              name = $2, title = $3, tagline = $4, bio = $5, location = $6,
	              phone = $7, email = $8, github = $9, linkedin = $10, twitter = $11,
	              profile_pic_url = $12, banner_url = $13,
	              skills = $14, education = $15, experience = $16,
	              updated_at = $17
	          WHERE uid = $1`

	args, err := updateArgs(profile)
	if err != nil {
		return apperror.Internal(err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// insertArgs builds the Create argument list. The jsonb sections go over the
// wire pre-marshaled: the pool runs in simple protocol mode, which cannot
// derive an encode plan for a struct slice.
func insertArgs(profile *domain.Profile) ([]any, error) {
	education, experience, err := marshalSections(profile)
	if err != nil {
		return nil, err
	}
	return []any{
		profile.UID, profile.Username, profile.Name, profile.Title, profile.Tagline,
		profile.Bio, profile.Location, profile.Phone, profile.Email,
		profile.Github, profile.Linkedin, profile.Twitter,
		profile.ProfilePicURL, profile.BannerURL,
		profile.Skills, education, experience,
		profile.CreatedAt, profile.UpdatedAt,
	}, nil
}

func updateArgs(profile *domain.Profile) ([]any, error) {
	education, experience, err := marshalSections(profile)
	if err != nil {
		return nil, err
	}
	return []any{
		profile.UID,
		profile.Name, profile.Title, profile.Tagline, profile.Bio, profile.Location,
		profile.Phone, profile.Email, profile.Github, profile.Linkedin, profile.Twitter,
		profile.ProfilePicURL, profile.BannerURL,
		profile.Skills, education, experience,
		profile.UpdatedAt,
	}, nil
}

// marshalSections renders education and experience as jsonb text. Nil slices
// become empty arrays so the NOT NULL '[]' columns never see a JSON null.
func marshalSections(profile *domain.Profile) (string, string, error) {
	education := profile.Education
	if education == nil {
		education = []domain.Education{}
	}
	experience := profile.Experience
	if experience == nil {
		experience = []domain.Experience{}
	}

	eduJSON, err := json.Marshal(education)
	if err != nil {
		return "", "", err
	}
	expJSON, err := json.Marshal(experience)
	if err != nil {
		return "", "", err
	}
	return string(eduJSON), string(expJSON), nil
}

func (r *profileRepo) scanOne(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.UID, &p.Username, &p.Name, &p.Title, &p.Tagline, &p.Bio, &p.Location,
		&p.Phone, &p.Email, &p.Github, &p.Linkedin, &p.Twitter,
		&p.ProfilePicURL, &p.BannerURL,
		&p.Skills, &p.Education, &p.Experience,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Absent is a valid result, not a failure
			return nil, nil
		}
		return nil, apperror.Internal(err)
	}
	return &p, nil
}
