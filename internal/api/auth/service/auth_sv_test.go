package authService

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"MinelawChatbot/internal/api/auth"
	authRepository "MinelawChatbot/internal/api/auth/repository"
	"MinelawChatbot/internal/entity"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompanies struct {
	company         entity.Company
	updatedPassword string
	updateCalls     int
}

func (f *fakeCompanies) CreateCompany(_ context.Context, _ entity.Company) error { return nil }

func (f *fakeCompanies) GetByID(_ context.Context, id string) (entity.Company, error) {
	if id == f.company.ID {
		return f.company, nil
	}
	return entity.Company{}, auth.ErrUserNotFound
}

func (f *fakeCompanies) GetByEmail(_ context.Context, email string) (entity.Company, error) {
	if email == f.company.Email {
		return f.company, nil
	}
	return entity.Company{}, auth.ErrUserNotFound
}

func (f *fakeCompanies) UpdateVerification(_ context.Context, _ string, _ bool) error { return nil }

func (f *fakeCompanies) UpdatePassword(_ context.Context, _ string, password string) error {
	f.updateCalls++
	f.updatedPassword = password
	return nil
}

type fakeAuthRepo struct{ companies *fakeCompanies }

func (f *fakeAuthRepo) NewClient(_ bool) (authRepository.Client, error) {
	return authRepository.Client{
		Companies: f.companies,
		Commit:    func() error { return nil },
		Rollback:  func() error { return nil },
	}, nil
}

type fakeBcrypt struct{}

func (f *fakeBcrypt) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (f *fakeBcrypt) ComparePassword(hashPassword string, password string) error {
	if hashPassword == "hashed:"+password {
		return nil
	}
	return errors.New("password mismatch")
}

func newAuthTestService(companies *fakeCompanies) AuthService {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(logger, &fakeAuthRepo{companies: companies}, nil, nil, &fakeBcrypt{}, nil)
}

func verifiedCompany() entity.Company {
	return entity.Company{
		ID:          "01TEST",
		CompanyName: "Acme Mining",
		Email:       "acme@example.com",
		Password:    "hashed:s3cret-pass",
		IsVerified:  true,
		CreatedAt:   time.Now(),
	}
}

func TestLoginReturnsCompanyName(t *testing.T) {
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "test-secret")

	svc := newAuthTestService(&fakeCompanies{company: verifiedCompany()})

	res, err := svc.Auth().Login(context.Background(), auth.LoginRequest{
		Email:    "acme@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "Acme Mining", res.CompanyName)
	assert.Greater(t, res.ExpiresInMinutes, float64(0))
}

func TestLoginRejectsUnverifiedCompany(t *testing.T) {
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "test-secret")

	company := verifiedCompany()
	company.IsVerified = false
	svc := newAuthTestService(&fakeCompanies{company: company})

	_, err := svc.Auth().Login(context.Background(), auth.LoginRequest{
		Email:    "acme@example.com",
		Password: "s3cret-pass",
	})
	require.ErrorIs(t, err, auth.ErrUserNotVerified)
}

func TestChangePasswordStoresNewHash(t *testing.T) {
	companies := &fakeCompanies{company: verifiedCompany()}
	svc := newAuthTestService(companies)

	err := svc.Auth().ChangePassword(context.Background(), auth.ChangePasswordRequest{
		Email:       "acme@example.com",
		OldPassword: "s3cret-pass",
		NewPassword: "n3w-secret-pass",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, companies.updateCalls)
	assert.Equal(t, "hashed:n3w-secret-pass", companies.updatedPassword)
}

func TestChangePasswordRejectsWrongOldPassword(t *testing.T) {
	companies := &fakeCompanies{company: verifiedCompany()}
	svc := newAuthTestService(companies)

	err := svc.Auth().ChangePassword(context.Background(), auth.ChangePasswordRequest{
		Email:       "acme@example.com",
		OldPassword: "wrong-pass",
		NewPassword: "n3w-secret-pass",
	})
	require.ErrorIs(t, err, auth.ErrInvalidEmailOrPassword)
	assert.Zero(t, companies.updateCalls)
}

func TestGetByIDResolvesCompany(t *testing.T) {
	svc := newAuthTestService(&fakeCompanies{company: verifiedCompany()})

	company, err := svc.Auth().GetByID(context.Background(), "01TEST")
	require.NoError(t, err)
	assert.Equal(t, "Acme Mining", company.CompanyName)

	_, err = svc.Auth().GetByID(context.Background(), "unknown")
	require.ErrorIs(t, err, auth.ErrUserNotFound)
}
