package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AnalysisRequest is the input to a single analysis.
type AnalysisRequest struct {
	URL         string `json:"url" validate:"required"`
	CompanyName string `json:"companyName,omitempty" validate:"omitempty,max=200"`
	SaveToCRM   bool   `json:"saveToCrm,omitempty"`
}

// ValidationError reports a request that cannot be analyzed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// Request validation messages.
const (
	MsgURLRequired = "URL is required"
	MsgInvalidURL  = "Invalid URL"
)

var validate = validator.New()

// Normalize validates the request and returns a copy whose URL carries an
// explicit scheme. A bare host such as "example.com" becomes
// "https://example.com".
func (r AnalysisRequest) Normalize() (AnalysisRequest, error) {
	r.URL = strings.TrimSpace(r.URL)
	r.CompanyName = strings.TrimSpace(r.CompanyName)

	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "URL":
				return r, &ValidationError{Field: "url", Message: MsgURLRequired}
			case "CompanyName":
				return r, &ValidationError{Field: "companyName", Message: "Company name is too long"}
			}
		}
		return r, &ValidationError{Field: "request", Message: err.Error()}
	}

	normalized, err := NormalizeURL(r.URL)
	if err != nil {
		return r, &ValidationError{Field: "url", Message: MsgInvalidURL}
	}
	r.URL = normalized
	return r, nil
}

// NormalizeURL ensures a URL has a scheme and a host.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Host == "" || strings.ContainsAny(u.Host, " \t") {
		return "", errors.New("missing host")
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}

// DomainOf returns the host of a URL without a leading "www.".
func DomainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
