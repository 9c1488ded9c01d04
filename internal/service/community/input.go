package community

import (
	"net/url"
	"strings"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

const (
	maxBioLength         = 2_000
	maxDisplayNameLength = 100
	maxLocationLength    = 200
)

// UpdateProfileInput carries a partial profile update; nil fields are
// left untouched.
type UpdateProfileInput struct {
	Bio         *string
	AvatarURL   *string
	Location    *string
	WebsiteURL  *string
	DisplayName *string
	IsPublic    *bool
}

// Validate checks all fields and collects all errors.
func (i *UpdateProfileInput) Validate() error {
	var errs []domain.FieldError

	if i.Bio != nil && len(*i.Bio) > maxBioLength {
		errs = append(errs, domain.FieldError{Field: "bio", Message: "too long"})
	}
	if i.DisplayName != nil {
		if name := strings.TrimSpace(*i.DisplayName); name == "" || len(name) > maxDisplayNameLength {
			errs = append(errs, domain.FieldError{Field: "display_name", Message: "must be 1-100 characters"})
		}
	}
	if i.Location != nil && len(*i.Location) > maxLocationLength {
		errs = append(errs, domain.FieldError{Field: "location", Message: "too long"})
	}
	if i.AvatarURL != nil && !validHTTPURL(*i.AvatarURL) {
		errs = append(errs, domain.FieldError{Field: "avatar_url", Message: "must be a valid http(s) URL"})
	}
	if i.WebsiteURL != nil && !validHTTPURL(*i.WebsiteURL) {
		errs = append(errs, domain.FieldError{Field: "website_url", Message: "must be a valid http(s) URL"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
