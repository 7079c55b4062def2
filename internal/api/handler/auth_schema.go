package handler

import "github.com/99minutos/identity-service/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error          string `json:"error"`
	MissingRoleIDs []int  `json:"missing_role_ids,omitempty"`
}

// --- Request / Response types ---

type credentialsRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	// bcrypt rejects passwords longer than 72 bytes.
	Password string `json:"password" validate:"required,maxbytes=72"`
}

type assignRolesRequest struct {
	RoleIDs []int `json:"role_ids" validate:"required,dive,gt=0"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   string `json:"expires_at"`
}

type principalResponse struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

type userResponse struct {
	ID        string        `json:"id"`
	Username  string        `json:"username"`
	Roles     []domain.Role `json:"roles"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}

type rolesResponse struct {
	Items []domain.Role `json:"items"`
}

const timeLayout = "2006-01-02T15:04:05Z"

func toUserResponse(u *domain.User) userResponse {
	roles := u.Roles
	if roles == nil {
		roles = []domain.Role{}
	}
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Roles:     roles,
		CreatedAt: u.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt: u.UpdatedAt.UTC().Format(timeLayout),
	}
}
