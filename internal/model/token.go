package model

import "errors"

// ErrInvalidToken is returned when an access token fails verification for
// any reason: bad signature, malformed payload, or expired claims.
var ErrInvalidToken = errors.New("invalid token")

// AccessTokenCookie is the cookie carrying the bearer token between requests.
const AccessTokenCookie = "access_token"
