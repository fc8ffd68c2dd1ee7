package authRepository

const (
	queryCreateCompany = `
INSERT INTO Companies (id, company_name, email, phone_number, address, password, is_verified, created_at)
VALUES (:id, :company_name, :email, :phone_number, :address, :password, :is_verified, :created_at)`

	queryGetByID = `
SELECT id, company_name, email, phone_number, address, password, is_verified, created_at, updated_at
FROM Companies
    WHERE id = :id`

	queryGetByEmail = `
SELECT id, company_name, email, phone_number, address, password, is_verified, created_at, updated_at
FROM Companies
    WHERE email = :email`

	queryUpdateVerification = `
UPDATE Companies
SET is_verified = :is_verified, updated_at = :updated_at
WHERE email = :email`

	queryUpdatePassword = `
UPDATE Companies
SET password = :password, updated_at = :updated_at
WHERE email = :email`
)
