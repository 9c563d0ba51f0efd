package models

import "strings"

// Claims is the decoded identity-token payload. It exists only for the
// duration of one callback request; the raw token is never persisted.
type Claims struct {
	Subject    string `json:"sub"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Email      string `json:"email"`
}

// DisplayName returns the provider-supplied name, or synthesizes one from the
// given/family name parts (space-joined, empty parts omitted).
func (c Claims) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	parts := make([]string, 0, 2)
	if c.GivenName != "" {
		parts = append(parts, c.GivenName)
	}
	if c.FamilyName != "" {
		parts = append(parts, c.FamilyName)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Profile is the projection of Claims the gateway hands to the front-end.
type Profile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
}

// ProfileFromClaims derives the persisted projection from decoded claims.
func ProfileFromClaims(c Claims) Profile {
	return Profile{
		Name:    c.DisplayName(),
		Email:   c.Email,
		Subject: c.Subject,
	}
}
