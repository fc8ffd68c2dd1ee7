package auth

import "time"

type RegisterCompanyRequest struct {
	CompanyName string `json:"company_name" validate:"required,min=3,max=255"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required,min=10,max=13"`
	Address     string `json:"address" validate:"required,max=500"`
	Password    string `json:"password" validate:"required,min=8,max=32"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,min=6,max=6"`
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken      string  `json:"accessToken"`
	CompanyName      string  `json:"company_name"`
	ExpiresInMinutes float64 `json:"expiresInMinutes"`
}

type ChangePasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=32"`
}

type CompanyResponse struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"company_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	IsVerified  bool      `json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
