package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/healspace/booking/internal/model"
	"github.com/healspace/booking/internal/repository"
)

// CategoryStore and ProgramCatalog are the read surfaces the catalog
// endpoints need; the SQL repositories implement them.
type CategoryStore interface {
	List(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id uint64) (model.Category, error)
}

type ProgramCatalog interface {
	ListActive(ctx context.Context) ([]repository.ProgramWithCategory, error)
	ListActiveByCategory(ctx context.Context, categoryID uint64) ([]repository.ProgramWithCategory, error)
}

// CatalogHandler serves the public category and program listings.
type CatalogHandler struct {
	Categories CategoryStore
	Programs   ProgramCatalog
}

func NewCatalogHandler(categories CategoryStore, programs ProgramCatalog) *CatalogHandler {
	return &CatalogHandler{Categories: categories, Programs: programs}
}

type categoryResp struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type programResp struct {
	ID           uint64 `json:"id"`
	CategoryID   uint64 `json:"category_id"`
	CategoryName string `json:"category_name"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	DurationMins uint32 `json:"duration_mins"`
	Location     string `json:"location"`
	Capacity     uint32 `json:"capacity"`
	ImageURL     string `json:"image_url"`
}

// ListCategories returns every category, alphabetically.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cats, err := h.Categories.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]categoryResp, 0, len(cats))
	for _, cat := range cats {
		out = append(out, categoryResp{
			ID:          cat.ID,
			Name:        cat.Name,
			Description: cat.Description,
			ImageURL:    cat.ImageURL,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": out})
}

// ListPrograms returns every active program with its category name.
func (h *CatalogHandler) ListPrograms(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	progs, err := h.Programs.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"programs": toProgramResps(progs)})
}

// ListProgramsByCategory returns the active programs in one category.
// Unknown categories get 404 rather than an empty list.
func (h *CatalogHandler) ListProgramsByCategory(c echo.Context) error {
	catID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Categories.GetByID(ctx, catID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	progs, err := h.Programs.ListActiveByCategory(ctx, catID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"programs": toProgramResps(progs)})
}

func toProgramResps(progs []repository.ProgramWithCategory) []programResp {
	out := make([]programResp, 0, len(progs))
	for _, p := range progs {
		out = append(out, programResp{
			ID:           p.ID,
			CategoryID:   p.CategoryID,
			CategoryName: p.CategoryName,
			Title:        p.Title,
			Description:  p.Description,
			DurationMins: p.DurationMins,
			Location:     p.Location,
			Capacity:     p.Capacity,
			ImageURL:     p.ImageURL,
		})
	}
	return out
}
