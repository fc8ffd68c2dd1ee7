package entity

import "time"

type Company struct {
	ID          string    `db:"id"`
	CompanyName string    `db:"company_name"`
	Email       string    `db:"email"`
	PhoneNumber string    `db:"phone_number"`
	Address     string    `db:"address"`
	Password    string    `db:"password"`
	IsVerified  bool      `db:"is_verified"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type UserLoginData struct {
	ID          string
	Email       string
	CompanyName string
}
