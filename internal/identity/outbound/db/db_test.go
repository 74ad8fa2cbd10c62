//go:build integration

package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/goblog/internal/identity/entity"
	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
	"github.com/shandysiswandi/goblog/internal/pkg/instrument"
	"github.com/shandysiswandi/goblog/internal/pkg/pgtest"
	"github.com/shandysiswandi/goblog/internal/pkg/uid"
)

func TestDB_Users(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := NewDB(pgtest.Start(t), instrument.NewNoop())
	now := time.Now().UTC().Truncate(time.Microsecond)
	in := entity.NewUser{ID: uid.NewUUID().Generate(), Email: "jane@example.com", Name: "Jane", CreatedAt: now}

	// Act
	created, err := repo.CreateUser(ctx, in, "hash")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.GetUserByEmail(ctx, "jane@example.com")

	// Assert
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != created.ID || got.Password != "hash" || !got.CreatedAt.Equal(now) || !got.UpdatedAt.Equal(now) {
		t.Fatalf("got = %+v", got)
	}

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		dup := in
		dup.ID = uid.NewUUID().Generate()

		_, err := repo.CreateUser(ctx, dup, "hash")

		if !errors.Is(err, goerror.ErrConflict) {
			t.Fatalf("err = %v, want ErrConflict", err)
		}
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		_, err := repo.GetUserByEmail(ctx, "ghost@example.com")

		if !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})
}
