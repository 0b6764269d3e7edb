package dto

// RegisterUserRequestBody defines a request body for RegisterUser service.
type RegisterUserRequestBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
