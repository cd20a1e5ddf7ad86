package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookworm-social/bookworm-api/internal/core/domain"
	"github.com/bookworm-social/bookworm-api/internal/core/ports"
	"github.com/bookworm-social/bookworm-api/internal/pkg/metrics"
)

// BookHandler handles HTTP requests for book operations. Every route sits
// behind the Auth middleware.
type BookHandler struct {
	service ports.BookService
}

func NewBookHandler(service ports.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// Create handles POST /api/books.
//
// @Summary      Recommend a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Replays the first book created with this key"
// @Param        body             body      createBookRequest  true   "Book details and base64 cover"
// @Success      201              {object}  bookResponse
// @Failure      400              {object}  errorBody
// @Failure      401              {object}  errorBody
// @Failure      500              {object}  errorBody
// @Router       /api/books [post]
func (h *BookHandler) Create(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	var req createBookRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	image, err := decodeImage(req.Image)
	if err != nil {
		return err
	}

	idempotencyKey := c.Request().Header.Get("Idempotency-Key")
	book, err := h.service.Create(c.Request().Context(), toCreateBookInput(req, image, user.ID, idempotencyKey))
	if err != nil {
		return err
	}
	metrics.BooksCreatedTotal.Inc()

	if book.Owner == nil {
		book.Owner = &domain.UserSummary{ID: user.ID, Username: user.Username, ProfileImage: user.ProfileImage}
	}
	return c.JSON(http.StatusCreated, toBookResponse(book))
}

// List handles GET /api/books.
//
// @Summary      List all books, newest first
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (default 5, max 100)"
// @Success      200    {object}  listBooksResponse
// @Failure      401    {object}  errorBody
// @Failure      500    {object}  errorBody
// @Router       /api/books [get]
func (h *BookHandler) List(c echo.Context) error {
	var page, limit int
	// Unparseable values stay zero and fall back to the defaults.
	_ = echo.QueryParamsBinder(c).
		FailFast(false).
		Int("page", &page).
		Int("limit", &limit).
		BindError()

	result, err := h.service.List(c.Request().Context(), ports.ListBooksInput{Page: page, Limit: limit})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListBooksResponse(result))
}

// ListMine handles GET /api/books/user.
//
// @Summary      List the caller's books
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   bookResponse
// @Failure      401  {object}  errorBody
// @Failure      500  {object}  errorBody
// @Router       /api/books/user [get]
func (h *BookHandler) ListMine(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	books, err := h.service.ListMine(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponses(books))
}

// Delete handles DELETE /api/books/:id.
//
// @Summary      Delete one of the caller's books
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Book id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Failure      500  {object}  errorBody
// @Router       /api/books/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), user.ID); err != nil {
		return err
	}
	metrics.BooksDeletedTotal.Inc()

	return c.JSON(http.StatusOK, messageResponse{Message: "Book deleted successfully"})
}
