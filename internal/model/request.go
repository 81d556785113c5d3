package model

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// ListQuery is the common filter for the mock API list endpoints.
type ListQuery struct {
	Search string
	Status string
	Page   int
	Limit  int
}
