package service

// TokenPair is the result of every token-issuance event: a short-lived access
// token returned in the body and a long-lived refresh token delivered as an
// httpOnly cookie by the handler.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresIn int64
}
