package domain

// TokenPair is what a successful login produces: the short-lived access token
// (JWT, transported in the Authorization header) and the longer-lived refresh
// token (transported as an HTTP-only cookie).
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
