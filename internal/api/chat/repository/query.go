package chatRepository

const (
	querySaveChat = `
INSERT INTO ChatHistories (id, user_email, query, response, created_at)
VALUES (:id, :user_email, :query, :response, :created_at)`

	queryGetByEmail = `
SELECT id, user_email, query, response, created_at
FROM ChatHistories
    WHERE user_email = :user_email
ORDER BY created_at DESC`
)
