package db

import (
	"context"

	"github.com/shandysiswandi/goblog/internal/identity/entity"
)

const queryGetUserByEmail = `
SELECT id, email, name, password, created_at, updated_at
FROM users
WHERE email = $1`

func (s *DB) GetUserByEmail(ctx context.Context, email string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer s.finish(span, &err)

	var u entity.User
	err = s.conn.QueryRow(ctx, queryGetUserByEmail, email).Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.Password,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &u, nil
}
