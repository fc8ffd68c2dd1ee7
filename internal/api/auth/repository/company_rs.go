package authRepository

import (
	"MinelawChatbot/internal/api/auth"
	"MinelawChatbot/internal/entity"
	contextPkg "MinelawChatbot/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type CompanyDB struct {
	ID          sql.NullString `db:"id"`
	CompanyName sql.NullString `db:"company_name"`
	Email       sql.NullString `db:"email"`
	PhoneNumber sql.NullString `db:"phone_number"`
	Address     sql.NullString `db:"address"`
	Password    sql.NullString `db:"password"`
	IsVerified  bool           `db:"is_verified"`
	CreatedAt   sql.NullTime   `db:"created_at"`
	UpdatedAt   sql.NullTime   `db:"updated_at"`
}

func (r *companyRepository) CreateCompany(c context.Context, company entity.Company) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":           company.ID,
		"company_name": company.CompanyName,
		"email":        company.Email,
		"phone_number": company.PhoneNumber,
		"address":      company.Address,
		"password":     company.Password,
		"is_verified":  company.IsVerified,
		"created_at":   time.Now(),
	}

	query, args, err := sqlx.Named(queryCreateCompany, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateCompany")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(c, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				r.log.WithFields(logrus.Fields{
					"request_id": requestID,
					"error":      err.Error(),
				}).Warn("Email already exists")
				return auth.ErrEmailAlreadyExists
			}
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating company")

		return err
	}

	return nil
}

func (r *companyRepository) GetByID(c context.Context, id string) (entity.Company, error) {
	requestID := contextPkg.GetRequestID(c)
	var company CompanyDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID named query preparation err")
		return entity.Company{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&company); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("GetByID no rows found")
			return entity.Company{}, auth.ErrUserNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID execution err")
		return entity.Company{}, err
	}

	return r.makeCompany(company), nil
}

func (r *companyRepository) GetByEmail(c context.Context, email string) (entity.Company, error) {
	requestID := contextPkg.GetRequestID(c)
	var company CompanyDB

	argsKV := map[string]interface{}{
		"email": email,
	}

	query, args, err := sqlx.Named(queryGetByEmail, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByEmail named query preparation err")
		return entity.Company{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&company); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("GetByEmail no rows found")
			return entity.Company{}, auth.ErrUserNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByEmail execution err")
		return entity.Company{}, err
	}

	return r.makeCompany(company), nil
}

func (r *companyRepository) UpdateVerification(c context.Context, email string, verified bool) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"email":       email,
		"is_verified": verified,
		"updated_at":  time.Now(),
	}

	query, args, err := sqlx.Named(queryUpdateVerification, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateVerification named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateVerification execution err")
		return err
	}

	return nil
}

func (r *companyRepository) UpdatePassword(c context.Context, email string, password string) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"email":      email,
		"password":   password,
		"updated_at": time.Now(),
	}

	query, args, err := sqlx.Named(queryUpdatePassword, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdatePassword named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdatePassword execution err")
		return err
	}

	return nil
}

func (r *companyRepository) makeCompany(row CompanyDB) entity.Company {
	return entity.Company{
		ID:          row.ID.String,
		CompanyName: row.CompanyName.String,
		Email:       row.Email.String,
		PhoneNumber: row.PhoneNumber.String,
		Address:     row.Address.String,
		Password:    row.Password.String,
		IsVerified:  row.IsVerified,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}
