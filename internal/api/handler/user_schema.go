package handler

// --- Request / Response types ---

type roleRequest struct {
	Description string `json:"description" validate:"required,oneof=Admin Manager Employee"`
}

type saveUserRequest struct {
	Username  string      `json:"username" validate:"required,min=2"`
	FirstName string      `json:"first_name" validate:"required"`
	LastName  string      `json:"last_name"`
	Password  string      `json:"password" validate:"required,min=4"`
	Enabled   bool        `json:"enabled"`
	Role      roleRequest `json:"role"`
}

type roleResponse struct {
	Description string `json:"description"`
}

// userResponse is the outbound representation. It never carries the
// credential, hashed or otherwise.
type userResponse struct {
	Username  string       `json:"username"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Enabled   bool         `json:"enabled"`
	Role      roleResponse `json:"role"`
}
