package authService

import (
	"MinelawChatbot/internal/entity"
	"crypto/rand"
	"fmt"
	"math/big"
)

func MakeCompanyData(company entity.Company) map[string]interface{} {
	return map[string]interface{}{
		"id":           company.ID,
		"email":        company.Email,
		"company_name": company.CompanyName,
	}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func otpKey(email string) string {
	return "otp:" + email
}
