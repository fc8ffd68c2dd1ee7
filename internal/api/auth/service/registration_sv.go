package authService

import (
	"MinelawChatbot/internal/api/auth"
	"MinelawChatbot/internal/entity"
	contextPkg "MinelawChatbot/pkg/context"
	"MinelawChatbot/pkg/redis"
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

const otpTTL = 1 * time.Minute

func (s *registrationDomainImpl) RegisterCompany(c context.Context, req auth.RegisterCompanyRequest) error {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	hashedPassword, err := s.bcryptUtils.HashPassword(req.Password)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to hash password")
		return err
	}

	now := time.Now()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate company ID")
		return err
	}

	company := entity.Company{
		ID:          id,
		CompanyName: req.CompanyName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Password:    hashedPassword,
		IsVerified:  false,
	}

	if err := repo.Companies.CreateCompany(c, company); err != nil {
		return err
	}

	if err := s.sendOTP(c, company.Email, company.CompanyName); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to send verification OTP")
		return auth.ErrFailedToSendEmail
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"email":      company.Email,
	}).Info("Company registered, OTP sent")

	return nil
}

func (s *registrationDomainImpl) VerifyOTP(c context.Context, req auth.VerifyOTPRequest) error {
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

	if company.IsVerified {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"email":      req.Email,
		}).Warn("Company already verified")
		return auth.ErrUserAlreadyVerified
	}

	stored, err := s.redisServer.GetOTP(c, otpKey(req.Email))
	if err != nil {
		if errors.Is(err, redis.ErrKeyNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"email":      req.Email,
			}).Warn("OTP expired or never sent")
			return auth.ErrOTPExpired
		}
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to read OTP")
		return err
	}

	if stored != req.Code {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"email":      req.Email,
		}).Warn("OTP mismatch")
		return auth.ErrInvalidOTP
	}

	if err := repo.Companies.UpdateVerification(c, req.Email, true); err != nil {
		return err
	}

	if err := s.redisServer.DeleteOTP(c, otpKey(req.Email)); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to delete used OTP")
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"email":      req.Email,
	}).Info("Company verified")

	return nil
}

func (s *registrationDomainImpl) ResendOTP(c context.Context, email string) error {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	company, err := repo.Companies.GetByEmail(c, email)
	if err != nil {
		return err
	}

	if company.IsVerified {
		return auth.ErrUserAlreadyVerified
	}

	if err := s.sendOTP(c, company.Email, company.CompanyName); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to resend OTP")
		return auth.ErrFailedToSendEmail
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"email":      email,
	}).Info("OTP resent")

	return nil
}

func (s *registrationDomainImpl) sendOTP(c context.Context, email string, companyName string) error {
	code, err := generateOTP()
	if err != nil {
		return err
	}

	if err := s.redisServer.SetOTP(c, otpKey(email), code, otpTTL); err != nil {
		return err
	}

	return s.smtpMailer.SendOTP(email, companyName, code)
}
