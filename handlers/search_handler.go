package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/talesoul/talesoul-api/apperror"
	"github.com/talesoul/talesoul-api/search"
)

const defaultSearchLimit = 20

type SearchHandler struct {
	index search.Index
}

func NewSearchHandler(index search.Index) *SearchHandler {
	return &SearchHandler{index: index}
}

func searchErr(err error) error {
	if errors.Is(err, search.ErrDisabled) {
		return apperror.New(apperror.KindUnavailable, "search is not configured")
	}
	return apperror.Wrap(apperror.KindUnavailable, "search is temporarily unavailable", err)
}

func (h *SearchHandler) Courses(c *fiber.Ctx) error {
	hits, err := h.index.SearchCourses(c.UserContext(), c.Query("q"), c.QueryInt("limit", defaultSearchLimit))
	if err != nil {
		return searchErr(err)
	}
	return c.JSON(fiber.Map{"query": c.Query("q"), "hits": hits})
}

func (h *SearchHandler) Posts(c *fiber.Ctx) error {
	hits, err := h.index.SearchPosts(c.UserContext(), c.Query("q"), optionalID(c, "group_id"), c.QueryInt("limit", defaultSearchLimit))
	if err != nil {
		return searchErr(err)
	}
	return c.JSON(fiber.Map{"query": c.Query("q"), "hits": hits})
}
