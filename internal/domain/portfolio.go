package domain

import "context"

// PublicProfile is the visitor-facing shape of a profile. Contact details
// that are not meant for the public page (phone, raw email) are withheld.
type PublicProfile struct {
	UID           string       `json:"uid"`
	Username      string       `json:"username"`
	Name          string       `json:"name"`
	Title         string       `json:"title"`
	Tagline       string       `json:"tagline"`
	Bio           string       `json:"bio"`
	Location      string       `json:"location"`
	Github        string       `json:"github"`
	Linkedin      string       `json:"linkedin"`
	Twitter       string       `json:"twitter"`
	ProfilePicURL string       `json:"profile_pic_url"`
	BannerURL     string       `json:"banner_url"`
	Skills        []string     `json:"skills"`
	Education     []Education  `json:"education"`
	Experience    []Experience `json:"experience"`
}

// Public projects the profile onto its visitor-facing shape.
func (p *Profile) Public() PublicProfile {
	return PublicProfile{
		UID:           p.UID,
		Username:      p.Username,
		Name:          p.Name,
		Title:         p.Title,
		Tagline:       p.Tagline,
		Bio:           p.Bio,
		Location:      p.Location,
		Github:        p.Github,
		Linkedin:      p.Linkedin,
		Twitter:       p.Twitter,
		ProfilePicURL: p.ProfilePicURL,
		BannerURL:     p.BannerURL,
		Skills:        p.Skills,
		Education:     p.Education,
		Experience:    p.Experience,
	}
}

type Portfolio struct {
	Profile  PublicProfile `json:"profile"`
	Projects []Project     `json:"projects"`
}

type PortfolioUsecase interface {
	// GetByUsername resolves username -> profile, then profile -> projects.
	// An unknown username is a NotFound result; the project query never runs.
	GetByUsername(ctx context.Context, username string) (*Portfolio, error)
}
