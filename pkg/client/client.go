// Package client is a small typed client for the categorias HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LuigyJJ/invfarm2/domain"
	jsonres "github.com/LuigyJJ/invfarm2/pkg/response"
)

const categoriesPath = "/api/categorias"

// APIError is a non-2xx response decoded from the shared error body.
type APIError struct {
	Status  int
	Kind    string
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("categorias api: %d %s: %s", e.Status, e.Kind, e.Message)
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == jsonres.KindNotFound
}

func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == jsonres.KindValidation
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the server at baseURL. A nil httpClient gets a
// default one with a 15 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) List(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.do(ctx, http.MethodGet, categoriesPath, nil, "", &categories); err != nil {
		return nil, err
	}

	return categories, nil
}

func (c *Client) Get(ctx context.Context, id uint64) (*domain.Category, error) {
	var category domain.Category
	if err := c.do(ctx, http.MethodGet, categoryPath(id), nil, "", &category); err != nil {
		return nil, err
	}

	return &category, nil
}

func (c *Client) Create(ctx context.Context, input domain.CategoryInput) (*domain.Category, error) {
	body, contentType, err := encodeInput(input)
	if err != nil {
		return nil, err
	}

	var category domain.Category
	if err := c.do(ctx, http.MethodPost, categoriesPath, body, contentType, &category); err != nil {
		return nil, err
	}

	return &category, nil
}

func (c *Client) Update(ctx context.Context, id uint64, input domain.CategoryInput) (*domain.Category, error) {
	body, contentType, err := encodeInput(input)
	if err != nil {
		return nil, err
	}

	var category domain.Category
	if err := c.do(ctx, http.MethodPut, categoryPath(id), body, contentType, &category); err != nil {
		return nil, err
	}

	return &category, nil
}

func (c *Client) Delete(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, categoryPath(id), nil, "", nil)
}

func categoryPath(id uint64) string {
	return categoriesPath + "/" + strconv.FormatUint(id, 10)
}

// encodeInput writes input as multipart/form-data, the same shape the web
// page submits.
func encodeInput(input domain.CategoryInput) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	if err := w.WriteField("CategoriaNombre", input.CategoriaNombre); err != nil {
		return nil, "", fmt.Errorf("failed to encode form: %w", err)
	}
	if err := w.WriteField("Descripcion", input.Descripcion); err != nil {
		return nil, "", fmt.Errorf("failed to encode form: %w", err)
	}

	if img := input.Image; img != nil {
		part, err := w.CreateFormFile("Imagen", img.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode image: %w", err)
		}
		if _, err := part.Write(img.Content); err != nil {
			return nil, "", fmt.Errorf("failed to encode image: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to encode form: %w", err)
	}

	return buf, w.FormDataContentType(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return decodeError(res)
	}

	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func decodeError(res *http.Response) error {
	apiErr := &APIError{Status: res.StatusCode}

	var body jsonres.ErrorBody
	raw, _ := io.ReadAll(res.Body)
	if err := json.Unmarshal(raw, &body); err == nil && body.Kind != "" {
		apiErr.Kind = body.Kind
		apiErr.Message = body.Message
		apiErr.Fields = body.Fields
		return apiErr
	}

	apiErr.Kind = jsonres.KindForStatus(res.StatusCode)
	apiErr.Message = strings.TrimSpace(string(raw))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(res.StatusCode)
	}

	return apiErr
}
