package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookworm-social/bookworm-api/internal/core/domain"
	"github.com/bookworm-social/bookworm-api/internal/core/ports"
)

type stubBookService struct {
	createFn   func(ctx context.Context, in ports.CreateBookInput) (*domain.Book, error)
	listFn     func(ctx context.Context, in ports.ListBooksInput) (*ports.ListBooksResult, error)
	listMineFn func(ctx context.Context, ownerID string) ([]*domain.Book, error)
	deleteFn   func(ctx context.Context, bookID, callerID string) error
}

func (s *stubBookService) Create(ctx context.Context, in ports.CreateBookInput) (*domain.Book, error) {
	return s.createFn(ctx, in)
}

func (s *stubBookService) List(ctx context.Context, in ports.ListBooksInput) (*ports.ListBooksResult, error) {
	return s.listFn(ctx, in)
}

func (s *stubBookService) ListMine(ctx context.Context, ownerID string) ([]*domain.Book, error) {
	return s.listMineFn(ctx, ownerID)
}

func (s *stubBookService) Delete(ctx context.Context, bookID, callerID string) error {
	return s.deleteFn(ctx, bookID, callerID)
}

var testUser = &domain.User{ID: "u1", Username: "alice", ProfileImage: "https://img.test/alice.svg"}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder) echo.Context {
	c := e.NewContext(req, rec)
	SetCurrentUser(c, testUser)
	return c
}

func TestBookHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	stub := &stubBookService{
		createFn: func(ctx context.Context, in ports.CreateBookInput) (*domain.Book, error) {
			if in.OwnerID != "u1" || in.Title != "Dune" || in.IdempotencyKey != "k-1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if string(in.Image) != string(png) {
				t.Fatalf("image not decoded: %v", in.Image)
			}
			if in.Rating == nil || *in.Rating != 4.5 {
				t.Fatalf("unexpected rating: %v", in.Rating)
			}
			return &domain.Book{
				ID: "b1", Title: in.Title, Caption: in.Caption, Image: "https://cdn.test/covers/x",
				Rating: *in.Rating, OwnerID: in.OwnerID, CreatedAt: now, UpdatedAt: now,
			}, nil
		},
	}
	handler := NewBookHandler(stub)

	body := `{"title":"Dune","caption":"Spice","rating":4.5,"image":"data:image/png;base64,` + base64.StdEncoding.EncodeToString(png) + `"}`
	req := jsonRequest(http.MethodPost, "/api/books", body)
	req.Header.Set("Idempotency-Key", "k-1")
	rec := httptest.NewRecorder()

	if err := handler.Create(authedContext(e, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp bookResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "b1" || resp.User.ID != "u1" || resp.User.Username != "alice" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.CreatedAt.Equal(now) {
		t.Fatalf("createdAt = %v, want %v", resp.CreatedAt, now)
	}
}

func TestBookHandler_Create_BadImageEncoding(t *testing.T) {
	e := newTestEcho()
	handler := NewBookHandler(&stubBookService{
		createFn: func(ctx context.Context, in ports.CreateBookInput) (*domain.Book, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	})

	req := jsonRequest(http.MethodPost, "/api/books", `{"title":"t","caption":"c","rating":3,"image":"%%%not-base64"}`)
	if err := handler.Create(authedContext(e, req, httptest.NewRecorder())); !errors.Is(err, domain.ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}
}

func TestBookHandler_Create_MissingImageReachesService(t *testing.T) {
	e := newTestEcho()
	handler := NewBookHandler(&stubBookService{
		createFn: func(ctx context.Context, in ports.CreateBookInput) (*domain.Book, error) {
			if in.Image != nil {
				t.Fatalf("expected nil image, got %v", in.Image)
			}
			return nil, domain.ErrMissingFields
		},
	})

	req := jsonRequest(http.MethodPost, "/api/books", `{"title":"t","caption":"c","rating":3}`)
	if err := handler.Create(authedContext(e, req, httptest.NewRecorder())); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestBookHandler_Create_WithoutUser(t *testing.T) {
	e := newTestEcho()
	handler := NewBookHandler(&stubBookService{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/books", `{}`), httptest.NewRecorder())
	if err := handler.Create(c); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestBookHandler_List_QueryParams(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"absent", "", 0, 0},
		{"numeric", "?page=2&limit=5", 2, 5},
		{"non numeric page keeps limit", "?page=abc&limit=7", 0, 7},
		{"negative passed through", "?page=-1&limit=0", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			handler := NewBookHandler(&stubBookService{
				listFn: func(ctx context.Context, in ports.ListBooksInput) (*ports.ListBooksResult, error) {
					if in.Page != tt.wantPage || in.Limit != tt.wantLimit {
						t.Fatalf("got page=%d limit=%d, want %d/%d", in.Page, in.Limit, tt.wantPage, tt.wantLimit)
					}
					return &ports.ListBooksResult{Books: []*domain.Book{}, CurrentPage: 1}, nil
				},
			})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/books"+tt.query, nil)
			if err := handler.List(authedContext(e, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
		})
	}
}

func TestBookHandler_List_EmptyShape(t *testing.T) {
	e := newTestEcho()
	handler := NewBookHandler(&stubBookService{
		listFn: func(ctx context.Context, in ports.ListBooksInput) (*ports.ListBooksResult, error) {
			return &ports.ListBooksResult{Books: []*domain.Book{}, TotalBooks: 0, CurrentPage: 1, TotalPages: 0}, nil
		},
	})

	rec := httptest.NewRecorder()
	if err := handler.List(authedContext(e, httptest.NewRequest(http.MethodGet, "/api/books", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	want := `{"books":[],"totalBooks":0,"currentPage":1,"totalPages":0}`
	var got, expected any
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	_ = json.Unmarshal([]byte(want), &expected)
	gotJSON, _ := json.Marshal(got)
	wantJSON, _ := json.Marshal(expected)
	if string(gotJSON) != string(wantJSON) {
		t.Fatalf("body = %s, want %s", gotJSON, wantJSON)
	}
}

func TestBookHandler_ListMine(t *testing.T) {
	e := newTestEcho()
	handler := NewBookHandler(&stubBookService{
		listMineFn: func(ctx context.Context, ownerID string) ([]*domain.Book, error) {
			if ownerID != "u1" {
				t.Fatalf("unexpected owner %q", ownerID)
			}
			return []*domain.Book{{ID: "b2", OwnerID: "u1"}, {ID: "b1", OwnerID: "u1"}}, nil
		},
	})

	rec := httptest.NewRecorder()
	if err := handler.ListMine(authedContext(e, httptest.NewRequest(http.MethodGet, "/api/books/user", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []bookResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[0].ID != "b2" || resp[1].User.ID != "u1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestBookHandler_Delete(t *testing.T) {
	e := newTestEcho()
	var gotBook, gotCaller string
	handler := NewBookHandler(&stubBookService{
		deleteFn: func(ctx context.Context, bookID, callerID string) error {
			gotBook, gotCaller = bookID, callerID
			return nil
		},
	})

	rec := httptest.NewRecorder()
	c := authedContext(e, httptest.NewRequest(http.MethodDelete, "/api/books/b1", nil), rec)
	c.SetPath("/api/books/:id")
	c.SetParamNames("id")
	c.SetParamValues("b1")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotBook != "b1" || gotCaller != "u1" {
		t.Fatalf("unexpected args %q %q", gotBook, gotCaller)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestBookHandler_Delete_Forbidden(t *testing.T) {
	e := newTestEcho()
	handler := NewBookHandler(&stubBookService{
		deleteFn: func(ctx context.Context, bookID, callerID string) error {
			return domain.ErrForbidden
		},
	})

	c := authedContext(e, httptest.NewRequest(http.MethodDelete, "/api/books/b1", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("b1")

	if err := handler.Delete(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
