package model

// User identifies the account a session belongs to.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Credentials holds the session state persisted in the credential store.
// At most one logical session exists; login and refresh replace the token
// pair, logout clears everything.
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
	UserEmail    string `json:"userEmail"`
}

// Authenticated reports whether the session is usable: both tokens must
// be present. A partially cleared session counts as unauthenticated.
func (c Credentials) Authenticated() bool {
	return c.AccessToken != "" && c.RefreshToken != ""
}
