package authService

import (
	"MinelawChatbot/internal/api/auth"
	"MinelawChatbot/internal/entity"
	contextPkg "MinelawChatbot/pkg/context"
	jwtPkg "MinelawChatbot/pkg/jwt"
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

func (s *authDomainImpl) Login(c context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.LoginResponse{}, err
	}

	company, err := repo.Companies.GetByEmail(c, req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Failed to get company by email")
			return auth.LoginResponse{}, auth.ErrInvalidEmailOrPassword
		}
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to get company by email")
		return auth.LoginResponse{}, err
	}

	if err := s.bcryptUtils.ComparePassword(company.Password, req.Password); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Password comparison failed")
		return auth.LoginResponse{}, auth.ErrInvalidEmailOrPassword
	}

	if !company.IsVerified {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"email":      req.Email,
		}).Warn("Login attempt by unverified company")
		return auth.LoginResponse{}, auth.ErrUserNotVerified
	}

	token, expired, err := jwtPkg.Sign(MakeCompanyData(company), time.Hour*1)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign token")
		return auth.LoginResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
	}).Info("Token created")

	return auth.LoginResponse{
		AccessToken:      token,
		CompanyName:      company.CompanyName,
		ExpiresInMinutes: time.Until(time.Unix(expired, 0)).Minutes(),
	}, nil
}

func (s *authDomainImpl) GetByEmail(c context.Context, email string) (entity.Company, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.Company{}, err
	}

	return repo.Companies.GetByEmail(c, email)
}

func (s *authDomainImpl) GetByID(c context.Context, id string) (entity.Company, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.Company{}, err
	}

	return repo.Companies.GetByID(c, id)
}

func (s *authDomainImpl) ChangePassword(c context.Context, req auth.ChangePasswordRequest) error {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	company, err := repo.Companies.GetByEmail(c, req.Email)
	if err != nil {
		return err
	}

	if err := s.bcryptUtils.ComparePassword(company.Password, req.OldPassword); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"email":      req.Email,
		}).Warn("Old password mismatch on password change")
		return auth.ErrInvalidEmailOrPassword
	}

	hashed, err := s.bcryptUtils.HashPassword(req.NewPassword)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to hash new password")
		return err
	}

	if err := repo.Companies.UpdatePassword(c, req.Email, hashed); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"email":      req.Email,
	}).Info("Password changed")

	return nil
}
