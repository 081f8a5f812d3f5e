package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// The type claim is the sole discriminator between the two token kinds; both
// share one signing secret and one wire shape.
const (
	TypeAccess  = "authToken"
	TypeRefresh = "refreshToken"
)

// Claims is the signed token payload. Access tokens additionally carry the
// authorities claim; refresh tokens never do, their holder's authorities are
// re-read from the user store when redeemed.
type Claims struct {
	Type        string `json:"type"`
	Authorities string `json:"authorities,omitempty"`
	jwt.RegisteredClaims
}

// IsRefresh reports whether the claims belong to a refresh token.
func (c *Claims) IsRefresh() bool {
	return c.Type == TypeRefresh
}

// AuthorityList splits the comma-joined authorities claim, order preserved.
func (c *Claims) AuthorityList() []string {
	if c.Authorities == "" {
		return nil
	}
	return strings.Split(c.Authorities, ",")
}
