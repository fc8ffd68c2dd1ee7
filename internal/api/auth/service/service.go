package authService

import (
	"MinelawChatbot/internal/api/auth"
	authRepository "MinelawChatbot/internal/api/auth/repository"
	"MinelawChatbot/internal/entity"
	"MinelawChatbot/pkg/bcrypt"
	"MinelawChatbot/pkg/redis"
	"MinelawChatbot/pkg/smtp"
	"MinelawChatbot/pkg/utils"
	"context"

	"github.com/sirupsen/logrus"
)

type AuthService interface {
	Registration() RegistrationDomain
	Auth() AuthDomain
	GetRepository() authRepository.Repository
}

type RegistrationDomain interface {
	RegisterCompany(c context.Context, req auth.RegisterCompanyRequest) error
	VerifyOTP(c context.Context, req auth.VerifyOTPRequest) error
	ResendOTP(c context.Context, email string) error
}

type AuthDomain interface {
	Login(c context.Context, req auth.LoginRequest) (auth.LoginResponse, error)
	GetByEmail(c context.Context, email string) (entity.Company, error)
	GetByID(c context.Context, id string) (entity.Company, error)
	ChangePassword(c context.Context, req auth.ChangePasswordRequest) error
}

type authService struct {
	log            *logrus.Logger
	authRepository authRepository.Repository
	smtpMailer     smtp.ItfSmtp
	redisServer    redis.IRedis
	bcryptUtils    bcrypt.IBcrypt
	utils          utils.IUtils

	registrationDomain RegistrationDomain
	authDomain         AuthDomain
}

func (a *authService) Registration() RegistrationDomain {
	return a.registrationDomain
}

func (a *authService) Auth() AuthDomain {
	return a.authDomain
}

func (a *authService) GetRepository() authRepository.Repository {
	return a.authRepository
}

type registrationDomainImpl struct {
	log         *logrus.Logger
	repo        authRepository.Repository
	smtpMailer  smtp.ItfSmtp
	redisServer redis.IRedis
	bcryptUtils bcrypt.IBcrypt
	utils       utils.IUtils
}

type authDomainImpl struct {
	log         *logrus.Logger
	repo        authRepository.Repository
	bcryptUtils bcrypt.IBcrypt
}

func New(log *logrus.Logger,
	authRepo authRepository.Repository,
	smtpMailer smtp.ItfSmtp,
	redisServer redis.IRedis,
	bcryptUtils bcrypt.IBcrypt,
	utils utils.IUtils,
) AuthService {
	return &authService{
		log:            log,
		authRepository: authRepo,
		smtpMailer:     smtpMailer,
		redisServer:    redisServer,
		bcryptUtils:    bcryptUtils,
		utils:          utils,

		registrationDomain: &registrationDomainImpl{log: log, repo: authRepo, smtpMailer: smtpMailer, redisServer: redisServer, bcryptUtils: bcryptUtils, utils: utils},
		authDomain:         &authDomainImpl{log: log, repo: authRepo, bcryptUtils: bcryptUtils},
	}
}
