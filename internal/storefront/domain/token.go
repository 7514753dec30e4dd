package domain

// TokenPair is what a successful authentication returns: a short-lived
// access token and a long-lived refresh token, both HS256 JWTs.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
