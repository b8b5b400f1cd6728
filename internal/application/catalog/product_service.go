package catalog

import (
	"context"
	"net/url"

	"github.com/facturaec/dashboard/internal/domain/catalog"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/domain/sri"
)

const productosPath = "/productos"

// ProductService handles the product pages
type ProductService struct {
	gateway  shared.Gateway
	ivaCodes []string
}

// NewProductService creates a new ProductService. ivaCodes restricts the VAT
// codes offered and accepted in the product form.
func NewProductService(gateway shared.Gateway, ivaCodes []string) *ProductService {
	return &ProductService{gateway: gateway, ivaCodes: ivaCodes}
}

// IVATarifas returns the VAT rates offered in the product form
func (s *ProductService) IVATarifas() []sri.IVATarifa {
	return sri.IVATarifasFor(s.ivaCodes)
}

// List returns one page of products matching the search term
func (s *ProductService) List(ctx context.Context, q shared.ListQuery) (shared.ListResult[catalog.Producto], error) {
	var productos []catalog.Producto
	if _, err := s.gateway.Get(ctx, productosPath, nil, &productos); err != nil {
		return shared.ListResult[catalog.Producto]{}, err
	}
	return shared.List(productos, q, catalog.Producto.SearchFields), nil
}

// Get returns a product by ID
func (s *ProductService) Get(ctx context.Context, id shared.ID) (*catalog.Producto, error) {
	var p catalog.Producto
	if _, err := s.gateway.Get(ctx, productoPath(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create creates a product
func (s *ProductService) Create(ctx context.Context, in catalog.ProductoInput) (*catalog.Producto, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	var p catalog.Producto
	if err := s.gateway.Post(ctx, productosPath, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update replaces a product's editable fields
func (s *ProductService) Update(ctx context.Context, id shared.ID, in catalog.ProductoInput) (*catalog.Producto, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	var p catalog.Producto
	if err := s.gateway.Put(ctx, productoPath(id), in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete deletes a product
func (s *ProductService) Delete(ctx context.Context, id shared.ID) error {
	return s.gateway.Delete(ctx, productoPath(id))
}

// validate checks the rules the form can't express in tags: the VAT code
// must be one of the configured ones.
func (s *ProductService) validate(in catalog.ProductoInput) error {
	fields := shared.FieldErrors{}
	fields.Check(s.acceptsIVA(in.IVACodigo), "iva_codigo", "Tarifa de IVA no válida")
	fields.Check(!in.Precio.IsNegative(), "precio", "Debe ser mayor o igual a 0")
	fields.Check(!in.StockMinimo.IsNegative(), "stock_minimo", "Debe ser mayor o igual a 0")
	return fields.Err("Revise los datos del producto")
}

func (s *ProductService) acceptsIVA(code string) bool {
	for _, t := range s.IVATarifas() {
		if t.Codigo == code {
			return true
		}
	}
	return false
}

func productoPath(id shared.ID) string {
	return productosPath + "/" + url.PathEscape(id.String())
}
