package authRepository

import (
	"MinelawChatbot/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var db sqlx.ExtContext
	var commitFunc, rollbackFunc func() error

	db = r.DB

	if tx {
		var err error
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		db = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Companies: &companyRepository{q: db, log: r.log},
		Commit:    commitFunc,
		Rollback:  rollbackFunc,
	}, nil
}

type Client struct {
	Companies interface {
		CreateCompany(ctx context.Context, company entity.Company) error
		GetByID(ctx context.Context, id string) (entity.Company, error)
		GetByEmail(ctx context.Context, email string) (entity.Company, error)
		UpdateVerification(ctx context.Context, email string, verified bool) error
		UpdatePassword(ctx context.Context, email string, password string) error
	}

	Commit   func() error
	Rollback func() error
}

type companyRepository struct {
	q   sqlx.ExtContext
	log *logrus.Logger
}
