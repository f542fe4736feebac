package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"mistrytech/orders-service/internal/app/orders/entity"
)

// ErrCatalogNotFound возвращается когда каталог не знает товар или вариант
var ErrCatalogNotFound = errors.New("not found in catalog")

// CatalogClient - HTTP клиент Catalog Service.
// Используется для снапшота действующей цены при создании заказа
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetProduct получает товар каталога с рассчитанной discounted_price
func (c *CatalogClient) GetProduct(ctx context.Context, productID int64) (*entity.CatalogProduct, error) {
	var product entity.CatalogProduct
	if err := c.getJSON(ctx, "/products/"+strconv.FormatInt(productID, 10), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetVariant получает вариант товара с рассчитанной discounted_price
func (c *CatalogClient) GetVariant(ctx context.Context, variantID int64) (*entity.CatalogVariant, error) {
	var variant entity.CatalogVariant
	if err := c.getJSON(ctx, "/variants/"+strconv.FormatInt(variantID, 10), &variant); err != nil {
		return nil, err
	}
	return &variant, nil
}

func (c *CatalogClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrCatalogNotFound
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
