package domain

// Identity is a user as the Analysis Backend knows it. ID is the backend's
// durable user id and is never empty on a resolved identity.
type Identity struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// OAuthProfile is what an OAuth provider reports about the signed-in user.
// ProviderID + ProviderAccountID is the natural key the backend reconciles on.
type OAuthProfile struct {
	ProviderID        string `json:"providerId"`
	ProviderAccountID string `json:"providerAccountId"`
	Email             string `json:"email,omitempty"`
	Name              string `json:"name,omitempty"`
	ImageURL          string `json:"imageUrl,omitempty"`
}

// SessionUser is the user object the gateway returns to the browser.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Image string `json:"image,omitempty"`
}
