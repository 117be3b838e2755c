package dto

// AuthorizeRequest is an operator login
type AuthorizeRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthorizeResponse carries a single-use authorization code
type AuthorizeResponse struct {
	Code string `json:"code"`
}

// TokenRequest is either an authorization_code or a client_credentials grant.
// ClientID is the id of a credential created with POST /credentials.
type TokenRequest struct {
	GrantType    string `json:"grant_type" binding:"required"`
	Code         string `json:"code"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}
