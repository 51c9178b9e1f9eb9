package api

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strconv"

	"github.com/mpetrov/go_storefront/domain"
)

// productResponse tolerates both naming schemes the backend uses: the
// catalog endpoints answer with "title"/"byteImg", the cart endpoints with
// "productName"/"returnedImg".
type productResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	ByteImg     string  `json:"byteImg"`
	ReturnedImg string  `json:"returnedImg"`
}

func (p productResponse) toProduct() domain.Product {
	title := p.Title
	if title == "" {
		title = p.ProductName
	}

	encoded := p.ReturnedImg
	if encoded == "" {
		encoded = p.ByteImg
	}
	var image []byte
	if encoded != "" {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			log.Printf("product %d image decode error: %v", p.ID, err)
		} else {
			image = decoded
		}
	}

	return domain.Product{
		ID:    p.ID,
		Title: title,
		Price: p.Price,
		Image: image,
	}
}

// Lookup fetches one product's details. Concurrent lookups for the same
// product collapse into a single request, and the circuit breaker fails fast
// while the catalog is down.
func (c *Client) Lookup(ctx context.Context, productID int64) (domain.Product, error) {
	v, err, _ := c.sf.Do(strconv.FormatInt(productID, 10), func() (interface{}, error) {
		return c.breaker.Execute(func() (domain.Product, error) {
			return c.fetchProduct(ctx, productID)
		})
	})
	if err != nil {
		return domain.Product{}, err
	}
	return v.(domain.Product), nil
}

func (c *Client) fetchProduct(ctx context.Context, productID int64) (domain.Product, error) {
	var resp productResponse
	if err := c.get(ctx, fmt.Sprintf("api/guest/product/%d", productID), &resp); err != nil {
		return domain.Product{}, fmt.Errorf("product lookup failed: %w", err)
	}
	return resp.toProduct(), nil
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var resp []productResponse
	if err := c.get(ctx, "api/guest/products", &resp); err != nil {
		return nil, err
	}
	products := make([]domain.Product, len(resp))
	for i, p := range resp {
		products[i] = p.toProduct()
	}
	return products, nil
}

func (c *Client) SearchProducts(ctx context.Context, name string) ([]domain.Product, error) {
	var resp []productResponse
	if err := c.get(ctx, fmt.Sprintf("api/guest/search/%s", name), &resp); err != nil {
		return nil, err
	}
	products := make([]domain.Product, len(resp))
	for i, p := range resp {
		products[i] = p.toProduct()
	}
	return products, nil
}
