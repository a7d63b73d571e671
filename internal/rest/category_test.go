package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LuigyJJ/invfarm2/domain"
	jsonres "github.com/LuigyJJ/invfarm2/pkg/response"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock Service ---

type MockCategoryService struct {
	Categories []domain.Category
	Err        error

	LastID    uint64
	LastInput *domain.CategoryInput
}

func (m *MockCategoryService) GetAllCategories(ctx context.Context) ([]domain.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Categories, nil
}

func (m *MockCategoryService) GetCategoryByID(ctx context.Context, id uint64) (domain.Category, error) {
	m.LastID = id
	if m.Err != nil {
		return domain.Category{}, m.Err
	}
	for _, c := range m.Categories {
		if c.CategoriaID == id {
			return c, nil
		}
	}
	return domain.Category{}, domain.ErrCategoryNotFound
}

func (m *MockCategoryService) CreateCategory(ctx context.Context, input domain.CategoryInput) (*domain.Category, error) {
	m.LastInput = &input
	if m.Err != nil {
		return nil, m.Err
	}
	return &domain.Category{CategoriaID: 10, CategoriaNombre: input.CategoriaNombre, Descripcion: input.Descripcion}, nil
}

func (m *MockCategoryService) UpdateCategory(ctx context.Context, id uint64, input domain.CategoryInput) (*domain.Category, error) {
	m.LastID = id
	m.LastInput = &input
	if m.Err != nil {
		return nil, m.Err
	}
	return &domain.Category{CategoriaID: id, CategoriaNombre: input.CategoriaNombre, Descripcion: input.Descripcion}, nil
}

func (m *MockCategoryService) DeleteCategory(ctx context.Context, id uint64) error {
	m.LastID = id
	return m.Err
}

// --- Helpers ---

type formFile struct {
	name    string
	content []byte
}

func multipartBody(t *testing.T, fields map[string]string, file *formFile) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		part, err := w.CreateFormFile("Imagen", file.name)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return body, w.FormDataContentType()
}

func newContext(method, target string, body *bytes.Buffer, contentType string, id string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}

	return c, rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) jsonres.ErrorBody {
	t.Helper()

	var body jsonres.ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

// --- Tests: GET /api/categorias ---

func TestGetAllCategories(t *testing.T) {
	testCases := []struct {
		name               string
		mock               *MockCategoryService
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "Success with categories",
			mock: &MockCategoryService{Categories: []domain.Category{
				{CategoriaID: 1, CategoriaNombre: "Beverages", Descripcion: "Drinks"},
				{CategoriaID: 2, CategoriaNombre: "Condiments", Imagen: "http://img/2.png"},
			}},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp []map[string]any
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				require.Len(t, resp, 2)
				assert.Equal(t, float64(1), resp[0]["CategoriaID"])
				assert.Equal(t, "Beverages", resp[0]["CategoriaNombre"])
				assert.Equal(t, "Drinks", resp[0]["Descripcion"])
				assert.Equal(t, "", resp[0]["Imagen"])
				assert.Equal(t, "http://img/2.png", resp[1]["Imagen"])
			},
		},
		{
			name:               "Success with empty list",
			mock:               &MockCategoryService{Categories: []domain.Category{}},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.JSONEq(t, "[]", rec.Body.String())
			},
		},
		{
			name:               "Store error",
			mock:               &MockCategoryService{Err: fmt.Errorf("db down: %w", domain.ErrStore)},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				body := decodeError(t, rec)
				assert.Equal(t, jsonres.KindStore, body.Kind)
				assert.NotContains(t, body.Message, "db down")
			},
		},
		{
			name:               "Timeout",
			mock:               &MockCategoryService{Err: context.DeadlineExceeded},
			expectedStatusCode: http.StatusGatewayTimeout,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewCategoryHandler(tc.mock, 0, 1024)
			c, rec := newContext(http.MethodGet, "/api/categorias", nil, "", "")

			require.NoError(t, handler.GetAllCategories(c))

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
		})
	}
}

// --- Tests: GET /api/categorias/:id ---

func TestGetCategoryByID(t *testing.T) {
	mock := &MockCategoryService{Categories: []domain.Category{{CategoriaID: 1, CategoriaNombre: "Beverages"}}}

	testCases := []struct {
		name               string
		id                 string
		expectedStatusCode int
		expectedKind       string
	}{
		{name: "Found", id: "1", expectedStatusCode: http.StatusOK},
		{name: "Not found", id: "99999", expectedStatusCode: http.StatusNotFound, expectedKind: jsonres.KindNotFound},
		{name: "Malformed id", id: "abc", expectedStatusCode: http.StatusBadRequest, expectedKind: jsonres.KindBadRequest},
		{name: "Zero id", id: "0", expectedStatusCode: http.StatusBadRequest, expectedKind: jsonres.KindBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewCategoryHandler(mock, 0, 1024)
			c, rec := newContext(http.MethodGet, "/api/categorias/"+tc.id, nil, "", tc.id)

			require.NoError(t, handler.GetCategoryByID(c))

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.expectedKind != "" {
				assert.Equal(t, tc.expectedKind, decodeError(t, rec).Kind)
				return
			}

			var got domain.Category
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, "Beverages", got.CategoriaNombre)
		})
	}
}

// --- Tests: POST /api/categorias ---

func TestCreateCategory(t *testing.T) {
	testCases := []struct {
		name               string
		body               func(t *testing.T) (*bytes.Buffer, string)
		mock               *MockCategoryService
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder, mock *MockCategoryService)
	}{
		{
			name: "Multipart without image",
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return multipartBody(t, map[string]string{"CategoriaNombre": "Beverages", "Descripcion": "Drinks"}, nil)
			},
			mock:               &MockCategoryService{},
			expectedStatusCode: http.StatusCreated,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, mock *MockCategoryService) {
				var got domain.Category
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, uint64(10), got.CategoriaID)
				assert.Equal(t, "Beverages", got.CategoriaNombre)
				require.NotNil(t, mock.LastInput)
				assert.Nil(t, mock.LastInput.Image)
				assert.Equal(t, "Drinks", mock.LastInput.Descripcion)
			},
		},
		{
			name: "Multipart with image",
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return multipartBody(t, map[string]string{"CategoriaNombre": "Beverages"}, &formFile{name: "drinks.png", content: []byte("png")})
			},
			mock:               &MockCategoryService{},
			expectedStatusCode: http.StatusCreated,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, mock *MockCategoryService) {
				require.NotNil(t, mock.LastInput.Image)
				assert.Equal(t, "drinks.png", mock.LastInput.Image.FileName)
				assert.Equal(t, []byte("png"), mock.LastInput.Image.Content)
			},
		},
		{
			name: "JSON body",
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return bytes.NewBufferString(`{"CategoriaNombre":"Beverages","Descripcion":"Drinks"}`), echo.MIMEApplicationJSON
			},
			mock:               &MockCategoryService{},
			expectedStatusCode: http.StatusCreated,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, mock *MockCategoryService) {
				assert.Equal(t, "Beverages", mock.LastInput.CategoriaNombre)
				assert.Nil(t, mock.LastInput.Image)
			},
		},
		{
			name: "Invalid JSON body",
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return bytes.NewBufferString(`{invalid json`), echo.MIMEApplicationJSON
			},
			mock:               &MockCategoryService{},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, mock *MockCategoryService) {
				assert.Equal(t, jsonres.KindBadRequest, decodeError(t, rec).Kind)
				assert.Nil(t, mock.LastInput, "CreateCategory should not be called with invalid JSON")
			},
		},
		{
			name: "Missing name",
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return multipartBody(t, map[string]string{"Descripcion": "Drinks"}, nil)
			},
			mock:               &MockCategoryService{},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, mock *MockCategoryService) {
				body := decodeError(t, rec)
				assert.Equal(t, jsonres.KindValidation, body.Kind)
				assert.Equal(t, "is required", body.Fields["CategoriaNombre"])
				assert.Nil(t, mock.LastInput)
			},
		},
		{
			name: "Padded name within limit",
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return multipartBody(t, map[string]string{"CategoriaNombre": " " + strings.Repeat("a", 100) + " "}, nil)
			},
			mock:               &MockCategoryService{},
			expectedStatusCode: http.StatusCreated,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, mock *MockCategoryService) {
				require.NotNil(t, mock.LastInput)
				assert.Equal(t, strings.Repeat("a", 100), mock.LastInput.CategoriaNombre)
			},
		},
		{
			name: "Whitespace only name",
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return multipartBody(t, map[string]string{"CategoriaNombre": "   "}, nil)
			},
			mock:               &MockCategoryService{},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, mock *MockCategoryService) {
				assert.Equal(t, "is required", decodeError(t, rec).Fields["CategoriaNombre"])
				assert.Nil(t, mock.LastInput)
			},
		},
		{
			name: "Image over limit",
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return multipartBody(t, map[string]string{"CategoriaNombre": "Beverages"}, &formFile{name: "big.png", content: make([]byte, 2048)})
			},
			mock:               &MockCategoryService{},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, mock *MockCategoryService) {
				body := decodeError(t, rec)
				assert.Contains(t, body.Fields, "Imagen")
				assert.Nil(t, mock.LastInput)
			},
		},
		{
			name: "Service validation error",
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return multipartBody(t, map[string]string{"CategoriaNombre": "Beverages"}, &formFile{name: "a.txt", content: []byte("text")})
			},
			mock:               &MockCategoryService{Err: domain.NewValidationError("Imagen", "unsupported image type text/plain")},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, mock *MockCategoryService) {
				body := decodeError(t, rec)
				assert.Equal(t, jsonres.KindValidation, body.Kind)
				assert.Equal(t, "unsupported image type text/plain", body.Fields["Imagen"])
			},
		},
		{
			name: "Store error on create",
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return multipartBody(t, map[string]string{"CategoriaNombre": "Beverages"}, nil)
			},
			mock:               &MockCategoryService{Err: errors.New("insert failed")},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, mock *MockCategoryService) {
				assert.Equal(t, jsonres.KindStore, decodeError(t, rec).Kind)
				assert.NotNil(t, mock.LastInput, "CreateCategory should have been called")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body, contentType := tc.body(t)
			handler := NewCategoryHandler(tc.mock, 0, 1024)
			c, rec := newContext(http.MethodPost, "/api/categorias", body, contentType, "")

			require.NoError(t, handler.CreateCategory(c))

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec, tc.mock)
			}
		})
	}
}

// --- Tests: PUT /api/categorias/:id ---

func TestUpdateCategory(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mock := &MockCategoryService{}
		body, ct := multipartBody(t, map[string]string{"CategoriaNombre": "Snacks", "Descripcion": "Chips"}, nil)
		c, rec := newContext(http.MethodPut, "/api/categorias/1", body, ct, "1")

		require.NoError(t, NewCategoryHandler(mock, 0, 1024).UpdateCategory(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, uint64(1), mock.LastID)
		var got domain.Category
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, uint64(1), got.CategoriaID)
		assert.Equal(t, "Snacks", got.CategoriaNombre)
	})

	t.Run("Urlencoded form", func(t *testing.T) {
		mock := &MockCategoryService{}
		body := bytes.NewBufferString("CategoriaNombre=Snacks&Descripcion=Chips")
		c, rec := newContext(http.MethodPut, "/api/categorias/3", body, echo.MIMEApplicationForm, "3")

		require.NoError(t, NewCategoryHandler(mock, 0, 1024).UpdateCategory(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Chips", mock.LastInput.Descripcion)
	})

	t.Run("Not found", func(t *testing.T) {
		mock := &MockCategoryService{Err: domain.ErrCategoryNotFound}
		body, ct := multipartBody(t, map[string]string{"CategoriaNombre": "Snacks"}, nil)
		c, rec := newContext(http.MethodPut, "/api/categorias/99999", body, ct, "99999")

		require.NoError(t, NewCategoryHandler(mock, 0, 1024).UpdateCategory(c))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, jsonres.KindNotFound, decodeError(t, rec).Kind)
	})

	t.Run("Malformed id", func(t *testing.T) {
		mock := &MockCategoryService{}
		body, ct := multipartBody(t, map[string]string{"CategoriaNombre": "Snacks"}, nil)
		c, rec := newContext(http.MethodPut, "/api/categorias/x", body, ct, "x")

		require.NoError(t, NewCategoryHandler(mock, 0, 1024).UpdateCategory(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, mock.LastInput)
	})

	t.Run("Name too long", func(t *testing.T) {
		mock := &MockCategoryService{}
		body, ct := multipartBody(t, map[string]string{"CategoriaNombre": strings.Repeat("a", 101)}, nil)
		c, rec := newContext(http.MethodPut, "/api/categorias/1", body, ct, "1")

		require.NoError(t, NewCategoryHandler(mock, 0, 1024).UpdateCategory(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "must be at most 100 characters", decodeError(t, rec).Fields["CategoriaNombre"])
	})
}

// --- Tests: DELETE /api/categorias/:id ---

func TestDeleteCategory(t *testing.T) {
	testCases := []struct {
		name               string
		id                 string
		err                error
		expectedStatusCode int
	}{
		{name: "Success", id: "1", expectedStatusCode: http.StatusNoContent},
		{name: "Not found", id: "1", err: domain.ErrCategoryNotFound, expectedStatusCode: http.StatusNotFound},
		{name: "Malformed id", id: "-1", expectedStatusCode: http.StatusBadRequest},
		{name: "Store error", id: "1", err: fmt.Errorf("x: %w", domain.ErrStore), expectedStatusCode: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &MockCategoryService{Err: tc.err}
			c, rec := newContext(http.MethodDelete, "/api/categorias/"+tc.id, nil, "", tc.id)

			require.NoError(t, NewCategoryHandler(mock, 0, 1024).DeleteCategory(c))

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.expectedStatusCode == http.StatusNoContent {
				assert.Empty(t, rec.Body.String())
			}
		})
	}
}
