package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/goblog/internal/pkg/clock"
	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
	"github.com/shandysiswandi/goblog/internal/pkg/instrument"
	"github.com/shandysiswandi/goblog/internal/post/entity"
)

type fakeRepo struct {
	mu      sync.Mutex
	posts   map[string]entity.Post
	filter  entity.PostFilter
	counted string
	err     error
	created []entity.Tag
	patch   *entity.PatchPost
	deleted string

	// updateErr fails UpdatePost only, after the owner check passed.
	updateErr error
}

func newFakeRepo(posts ...entity.Post) *fakeRepo {
	f := &fakeRepo{posts: map[string]entity.Post{}}
	for _, p := range posts {
		f.posts[p.ID] = p
	}
	return f
}

func (f *fakeRepo) GetPostByID(_ context.Context, id string) (*entity.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.posts[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &p, nil
}

func (f *fakeRepo) ListPosts(_ context.Context, filter entity.PostFilter) ([]entity.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter = filter
	if f.err != nil {
		return nil, f.err
	}
	out := make([]entity.Post, 0, len(f.posts))
	for _, p := range f.posts {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeRepo) CountPosts(_ context.Context, authorID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counted = authorID
	return int64(len(f.posts)), nil
}

func (f *fakeRepo) CreatePost(_ context.Context, in entity.NewPost, tags []entity.Tag) (*entity.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = tags
	p := entity.Post{
		ID:        in.ID,
		Title:     in.Title,
		Content:   in.Content,
		Published: in.Published,
		AuthorID:  in.AuthorID,
		Tags:      tags,
		CreatedAt: in.CreatedAt,
		UpdatedAt: in.CreatedAt,
	}
	f.posts[p.ID] = p
	return &p, nil
}

func (f *fakeRepo) UpdatePost(_ context.Context, id string, patch entity.PatchPost) (*entity.Post, error) {
	f.patch = &patch
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	p := f.posts[id]
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	return &p, nil
}

func (f *fakeRepo) DeletePost(_ context.Context, id string) error {
	f.deleted = id
	return nil
}

type seqID struct {
	mu sync.Mutex
	n  int
}

func (s *seqID) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return "id-" + string(rune('0'+s.n))
}

var now = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newUsecase(repo *fakeRepo) *Usecase {
	return New(Dependency{
		RepoDB:     repo,
		UUID:       &seqID{},
		Clock:      clock.Fixed{At: now},
		Instrument: instrument.NewNoop(),
	})
}

func assertBusiness(t *testing.T, err error, status int, msg string) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Kind() != goerror.KindDomain {
		t.Fatalf("expected domain error, got %v", err)
	}
	if gerr.StatusCode() != status || gerr.Msg() != msg {
		t.Fatalf("got %d %q, want %d %q", gerr.StatusCode(), gerr.Msg(), status, msg)
	}
}

func ptr[T any](v T) *T { return &v }

func TestCreate(t *testing.T) {
	// Arrange
	repo := newFakeRepo()
	uc := newUsecase(repo)

	// Act
	post, err := uc.Create(context.Background(), CreateInput{
		AuthorID: "author-1",
		Title:    "Hello",
		Content:  "World",
		Tags:     []string{" go ", "go", "", "news"},
	})

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.AuthorID != "author-1" || !post.CreatedAt.Equal(now) || post.Published {
		t.Fatalf("post = %+v", post)
	}
	names := make([]string, 0, len(repo.created))
	for _, tg := range repo.created {
		names = append(names, tg.Name)
	}
	if len(names) != 2 || names[0] != "go" || names[1] != "news" {
		t.Fatalf("tags = %v, want [go news]", names)
	}
}

func TestCreate_RepositoryFailures(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		status  int
		msg     string
		kind    goerror.Kind
	}{
		{
			name:    "author removed after sign in",
			repoErr: fmt.Errorf("%w: posts_author_id_fkey", goerror.ErrMissingReference),
			status:  http.StatusUnauthorized,
			msg:     "Invalid token",
			kind:    goerror.KindDomain,
		},
		{
			name:    "database down",
			repoErr: errors.New("connection refused"),
			status:  http.StatusInternalServerError,
			msg:     "Internal Server Error",
			kind:    goerror.KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			repo := newFakeRepo()
			repo.err = tt.repoErr
			uc := newUsecase(repo)

			// Act
			_, err := uc.Create(context.Background(), CreateInput{AuthorID: "gone", Title: "Hello", Content: "World"})

			// Assert
			var gerr *goerror.Error
			if !errors.As(err, &gerr) {
				t.Fatalf("err = %v, want *goerror.Error", err)
			}
			if gerr.Kind() != tt.kind || gerr.StatusCode() != tt.status || gerr.Msg() != tt.msg {
				t.Fatalf("got %s %d %q, want %s %d %q", gerr.Kind(), gerr.StatusCode(), gerr.Msg(), tt.kind, tt.status, tt.msg)
			}
			if tt.kind == goerror.KindUnknown && !errors.Is(err, tt.repoErr) {
				t.Fatalf("cause lost: %v", err)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	existing := entity.Post{ID: "p1", AuthorID: "author-1", Title: "Old"}

	t.Run("owner updates", func(t *testing.T) {
		repo := newFakeRepo(existing)
		uc := newUsecase(repo)

		post, err := uc.Update(context.Background(), UpdateInput{ID: "p1", AuthorID: "author-1", Title: ptr("New")})

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if post.Title != "New" {
			t.Fatalf("title = %q", post.Title)
		}
		if repo.patch.SetTags {
			t.Fatal("absent tags must leave the tag set alone")
		}
		if !repo.patch.UpdatedAt.Equal(now) {
			t.Fatalf("updatedAt = %v", repo.patch.UpdatedAt)
		}
	})

	t.Run("empty tags clear the set", func(t *testing.T) {
		repo := newFakeRepo(existing)
		uc := newUsecase(repo)

		_, err := uc.Update(context.Background(), UpdateInput{ID: "p1", AuthorID: "author-1", Tags: []string{}})

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !repo.patch.SetTags || len(repo.patch.Tags) != 0 {
			t.Fatalf("patch = %+v", repo.patch)
		}
	})

	t.Run("other author", func(t *testing.T) {
		repo := newFakeRepo(existing)
		uc := newUsecase(repo)

		_, err := uc.Update(context.Background(), UpdateInput{ID: "p1", AuthorID: "author-2", Title: ptr("New")})

		assertBusiness(t, err, http.StatusNotFound, "Post not found or you do not have permission to update it")
		if repo.patch != nil {
			t.Fatal("update must not reach the repository")
		}
	})

	t.Run("missing post", func(t *testing.T) {
		uc := newUsecase(newFakeRepo())

		_, err := uc.Update(context.Background(), UpdateInput{ID: "p9", AuthorID: "author-1"})

		assertBusiness(t, err, http.StatusNotFound, "Post not found or you do not have permission to update it")
	})

	t.Run("post or author gone mid update", func(t *testing.T) {
		for _, repoErr := range []error{
			goerror.ErrNotFound,
			fmt.Errorf("%w: post_tags_post_id_fkey", goerror.ErrMissingReference),
		} {
			repo := newFakeRepo(existing)
			repo.updateErr = repoErr
			uc := newUsecase(repo)

			_, err := uc.Update(context.Background(), UpdateInput{ID: "p1", AuthorID: "author-1", Tags: []string{"go"}})

			assertBusiness(t, err, http.StatusNotFound, "Post not found or you do not have permission to update it")
		}
	})
}

func TestDelete(t *testing.T) {
	existing := entity.Post{ID: "p1", AuthorID: "author-1"}

	t.Run("owner deletes", func(t *testing.T) {
		repo := newFakeRepo(existing)
		uc := newUsecase(repo)

		if err := uc.Delete(context.Background(), DeleteInput{ID: "p1", AuthorID: "author-1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.deleted != "p1" {
			t.Fatalf("deleted = %q", repo.deleted)
		}
	})

	t.Run("other author", func(t *testing.T) {
		repo := newFakeRepo(existing)
		uc := newUsecase(repo)

		err := uc.Delete(context.Background(), DeleteInput{ID: "p1", AuthorID: "author-2"})

		assertBusiness(t, err, http.StatusNotFound, "Post not found or you do not have permission to delete it")
		if repo.deleted != "" {
			t.Fatal("delete must not reach the repository")
		}
	})
}

func TestDetail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		uc := newUsecase(newFakeRepo(entity.Post{ID: "p1", Title: "Hello"}))

		post, err := uc.Detail(context.Background(), DetailInput{ID: "p1"})

		if err != nil || post.Title != "Hello" {
			t.Fatalf("post = %+v, err = %v", post, err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		uc := newUsecase(newFakeRepo())

		_, err := uc.Detail(context.Background(), DetailInput{ID: "p1"})

		assertBusiness(t, err, http.StatusNotFound, "Post not found")
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := newFakeRepo()
		repo.err = errors.New("connection reset")
		uc := newUsecase(repo)

		_, err := uc.Detail(context.Background(), DetailInput{ID: "p1"})

		if goerror.KindOf(err) != goerror.KindUnknown {
			t.Fatalf("kind = %s", goerror.KindOf(err))
		}
	})
}

func TestList(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		// Arrange
		repo := newFakeRepo(entity.Post{ID: "p1"}, entity.Post{ID: "p2"})
		uc := newUsecase(repo)

		// Act
		out, err := uc.List(context.Background(), ListInput{})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Page != 1 || out.Limit != 10 || out.Total != 2 || len(out.Posts) != 2 {
			t.Fatalf("out = %+v", out)
		}
		if repo.filter.Offset != 0 || repo.filter.Limit != 10 || repo.filter.AuthorID != "" {
			t.Fatalf("filter = %+v", repo.filter)
		}
	})

	t.Run("page and author", func(t *testing.T) {
		repo := newFakeRepo()
		uc := newUsecase(repo)

		out, err := uc.List(context.Background(), ListInput{Page: ptr(3), Limit: ptr(20), AuthorID: ptr("author-1")})

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Page != 3 || out.Limit != 20 {
			t.Fatalf("out = %+v", out)
		}
		if repo.filter.Offset != 40 || repo.filter.AuthorID != "author-1" || repo.counted != "author-1" {
			t.Fatalf("filter = %+v counted = %q", repo.filter, repo.counted)
		}
	})

	t.Run("largest page keeps a valid offset", func(t *testing.T) {
		repo := newFakeRepo()
		uc := newUsecase(repo)

		out, err := uc.List(context.Background(), ListInput{Page: ptr(math.MaxInt), Limit: ptr(100)})

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.filter.Offset < 0 {
			t.Fatalf("offset = %d, must not be negative", repo.filter.Offset)
		}
		if out.Page != MaxPage || repo.filter.Offset != (MaxPage-1)*100 {
			t.Fatalf("page = %d offset = %d", out.Page, repo.filter.Offset)
		}
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := newFakeRepo()
		repo.err = errors.New("timeout")
		uc := newUsecase(repo)

		_, err := uc.List(context.Background(), ListInput{})

		if goerror.KindOf(err) != goerror.KindUnknown {
			t.Fatalf("kind = %s", goerror.KindOf(err))
		}
	})
}

func TestPagination(t *testing.T) {
	tests := []struct {
		name        string
		page, limit *int
		wantP       int
		wantL       int
	}{
		{name: "absent", wantP: 1, wantL: 10},
		{name: "zero falls back", page: ptr(0), limit: ptr(0), wantP: 1, wantL: 10},
		{name: "clamped high", page: ptr(2), limit: ptr(500), wantP: 2, wantL: 100},
		{name: "clamped low", page: ptr(-4), limit: ptr(-1), wantP: 1, wantL: 1},
		{name: "largest page", page: ptr(math.MaxInt), limit: ptr(MaxLimit), wantP: MaxPage, wantL: MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, l := pagination(tt.page, tt.limit)
			if p != tt.wantP || l != tt.wantL {
				t.Fatalf("pagination() = %d, %d, want %d, %d", p, l, tt.wantP, tt.wantL)
			}
		})
	}
}

func TestTags(t *testing.T) {
	uc := newUsecase(newFakeRepo())

	got := uc.tags([]string{"b", " a", "b ", "  "})

	if len(got) != 2 || got[0].Name != "b" || got[1].Name != "a" {
		t.Fatalf("tags = %+v, want [b a] in input order", got)
	}
	if got[0].ID == got[1].ID {
		t.Fatal("every tag needs its own id")
	}
}
