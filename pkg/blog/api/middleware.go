package api

import (
	"net/http"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
)

const maxMultipartMemory = 32 << 20 // 32 MB

// accountID extracts the caller's account id from the verified session token.
// It must only be called on routes behind the jwtauth verifier.
func accountID(r *http.Request) (uuid.UUID, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return uuid.Nil, err
	}

	raw, _ := claims["account_id"].(string)
	return uuid.Parse(raw)
}
