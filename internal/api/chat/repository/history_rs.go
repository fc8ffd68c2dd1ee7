package chatRepository

import (
	"MinelawChatbot/internal/entity"
	contextPkg "MinelawChatbot/pkg/context"
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ChatHistoryDB struct {
	ID        sql.NullString `db:"id"`
	UserEmail sql.NullString `db:"user_email"`
	Query     sql.NullString `db:"query"`
	Response  sql.NullString `db:"response"`
	CreatedAt sql.NullTime   `db:"created_at"`
}

func (r *historyRepository) SaveChat(c context.Context, history entity.ChatHistory) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":         history.ID,
		"user_email": history.UserEmail,
		"query":      history.Query,
		"response":   history.Response,
		"created_at": time.Now(),
	}

	query, args, err := sqlx.Named(querySaveChat, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for SaveChat")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when saving chat")
		return err
	}

	return nil
}

func (r *historyRepository) GetByEmail(c context.Context, email string) ([]entity.ChatHistory, error) {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"user_email": email,
	}

	query, args, err := sqlx.Named(queryGetByEmail, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByEmail named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	rows, err := r.q.QueryxContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByEmail execution err")
		return nil, err
	}
	defer rows.Close()

	var histories []entity.ChatHistory
	for rows.Next() {
		var row ChatHistoryDB
		if err := rows.StructScan(&row); err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("GetByEmail scan err")
			return nil, err
		}
		histories = append(histories, r.makeHistory(row))
	}

	return histories, rows.Err()
}

func (r *historyRepository) makeHistory(row ChatHistoryDB) entity.ChatHistory {
	return entity.ChatHistory{
		ID:        row.ID.String,
		UserEmail: row.UserEmail.String,
		Query:     row.Query.String,
		Response:  row.Response.String,
		CreatedAt: row.CreatedAt.Time,
	}
}
