package db

import (
	"context"

	"github.com/shandysiswandi/goblog/internal/identity/entity"
)

const queryCreateUser = `
INSERT INTO users (id, email, name, password, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)
RETURNING id, email, name, password, created_at, updated_at`

func (s *DB) CreateUser(ctx context.Context, in entity.NewUser, hash string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer s.finish(span, &err)

	var u entity.User
	err = s.conn.QueryRow(ctx, queryCreateUser, in.ID, in.Email, in.Name, hash, in.CreatedAt).Scan(
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
