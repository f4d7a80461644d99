package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healspace/booking/internal/model"
	"github.com/healspace/booking/internal/repository"
)

type stubCategories struct {
	list []model.Category
}

func (s *stubCategories) List(_ context.Context) ([]model.Category, error) {
	return s.list, nil
}

func (s *stubCategories) GetByID(_ context.Context, id uint64) (model.Category, error) {
	for _, c := range s.list {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Category{}, repository.ErrCategoryNotFound
}

type stubProgramCatalog struct {
	programs []repository.ProgramWithCategory
}

func (s *stubProgramCatalog) ListActive(_ context.Context) ([]repository.ProgramWithCategory, error) {
	return s.programs, nil
}

func (s *stubProgramCatalog) ListActiveByCategory(_ context.Context, categoryID uint64) ([]repository.ProgramWithCategory, error) {
	var out []repository.ProgramWithCategory
	for _, p := range s.programs {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestListProgramsByCategoryUnknown(t *testing.T) {
	h := NewCatalogHandler(&stubCategories{}, &stubProgramCatalog{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/categories/99/programs", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")

	require.NoError(t, h.ListProgramsByCategory(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCategories(t *testing.T) {
	h := NewCatalogHandler(&stubCategories{list: []model.Category{
		{ID: 1, Name: "Art Therapy"},
		{ID: 2, Name: "Mindfulness"},
	}}, &stubProgramCatalog{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/categories", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, h.ListCategories(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Categories []categoryResp `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Categories, 2)
	assert.Equal(t, "Art Therapy", body.Categories[0].Name)
}

func TestListProgramsIncludesCategoryName(t *testing.T) {
	prog := repository.ProgramWithCategory{CategoryName: "Art Therapy"}
	prog.ID = 5
	prog.CategoryID = 1
	prog.Title = "Watercolor Basics"
	prog.Capacity = 10

	h := NewCatalogHandler(&stubCategories{}, &stubProgramCatalog{programs: []repository.ProgramWithCategory{prog}})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/programs", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, h.ListPrograms(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"category_name":"Art Therapy"`)
	assert.Contains(t, rec.Body.String(), `"Watercolor Basics"`)
}
