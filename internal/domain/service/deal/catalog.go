package deal

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"

	"kiosk_commerce/internal/domain"
	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/domain/value"
	"kiosk_commerce/pkg/errcodes"
)

const catalogKey = "products"

type productLister interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
}

// Catalog serves the product list, cached for a short while so that every
// kiosk screen does not hit the backend.
type Catalog struct {
	lister productLister
	cache  *cache.Cache
	ttl    time.Duration
}

func NewCatalog(lister productLister, ttl time.Duration) *Catalog {
	return &Catalog{
		lister: lister,
		cache:  cache.New(ttl, 2*ttl),
		ttl:    ttl,
	}
}

// List returns the active products.
func (c *Catalog) List(ctx context.Context) ([]entity.Product, error) {
	products, err := c.all(ctx)
	if err != nil {
		return nil, err
	}

	return lo.Filter(products, func(p entity.Product, _ int) bool {
		return p.Active
	}), nil
}

func (c *Catalog) all(ctx context.Context) ([]entity.Product, error) {
	if c.ttl > 0 {
		if cached, ok := c.cache.Get(catalogKey); ok {
			products, _ := cached.([]entity.Product)
			return products, nil
		}
	}

	products, err := c.lister.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("lister.ListProducts: %w", err)
	}

	if c.ttl > 0 {
		c.cache.SetDefault(catalogKey, products)
	}

	return products, nil
}

// Get refuses unknown and inactive products.
func (c *Catalog) Get(ctx context.Context, id value.ProductID) (entity.Product, error) {
	products, err := c.all(ctx)
	if err != nil {
		return entity.Product{}, err
	}

	product, ok := lo.Find(products, func(p entity.Product) bool {
		return p.ID == id
	})
	if ok && product.Active {
		return product, nil
	}

	return entity.Product{}, domain.NewError(errcodes.ProductUnavailable, "Product not found or inactive")
}

// Invalidate drops the cached list.
func (c *Catalog) Invalidate() {
	c.cache.Delete(catalogKey)
}
