package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/user"
)

var errInvalidClaims = errors.New("invalid token claims")

// actorFromRequest builds the authenticated caller from the verified JWT.
// Services never touch claims; this is the only place the token shape is
// known.
func actorFromRequest(r *http.Request) (user.Actor, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return user.Actor{}, err
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Actor{}, errInvalidClaims
	}
	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return user.Actor{}, errInvalidClaims
	}
	roleStr, ok := claims["role"].(string)
	if !ok || roleStr == "" {
		return user.Actor{}, errInvalidClaims
	}

	return user.Actor{
		UserID:    userID,
		CompanyID: companyID,
		Role:      user.Role(roleStr),
	}, nil
}
