package http

import "github.com/aussiebroadwan/jdmatchr/internal/gateway/domain"

// LoginRequest is the credentials sign-in body. Form posts use the same
// field names.
type LoginRequest struct {
	Email       string `json:"email"                 example:"user@example.com"`
	Password    string `json:"password"              example:"correct-horse"`
	CallbackURL string `json:"callbackUrl,omitempty" example:"/analyze"`
}

// RegisterRequest is the sign-up body.
type RegisterRequest struct {
	Name     string `json:"name"     example:"Jane Doe"`
	Email    string `json:"email"    example:"jane@example.com"`
	Password string `json:"password" example:"correct-horse"`
}

// LoginResponse is returned once the session cookie is set.
type LoginResponse struct {
	Message string             `json:"message"`
	User    domain.SessionUser `json:"user"`
}

// SessionResponse describes the current session. Both fields are absent when
// there is none.
type SessionResponse struct {
	User    *domain.SessionUser `json:"user,omitempty"`
	Expires string              `json:"expires,omitempty"`
}

// MessageResponse carries a single human-readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Message string `json:"message"           example:"Unauthorized: Session token missing."`
	Details string `json:"details,omitempty" example:"raw upstream body (development only)"`
}

// LatestInsightResponse is the latest-insight lookup result.
type LatestInsightResponse struct {
	LatestInsightID *string `json:"latestInsightId"`
}

// PageResponse stands in for a guarded page.
type PageResponse struct {
	Page string             `json:"page"`
	User domain.SessionUser `json:"user"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports each dependency.
type HealthChecks struct {
	Signer  string `json:"signer"`
	Backend string `json:"backend"`
}
