package handler

import (
	"context"

	catalogapp "github.com/facturaec/dashboard/internal/application/catalog"
	orgapp "github.com/facturaec/dashboard/internal/application/organization"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/interfaces/http/view"
)

// productOptions lists active products for line and movement selects.
// A backend failure leaves the select empty; the form still posts.
func productOptions(ctx context.Context, products *catalogapp.ProductService) []view.Option {
	result, err := products.List(ctx, shared.ListQuery{PageSize: shared.MaxPageSize})
	if err != nil {
		return nil
	}
	options := make([]view.Option, 0, len(result.Items))
	for _, p := range result.Items {
		if !p.Activo {
			continue
		}
		options = append(options, view.Option{Value: p.ID.String(), Label: p.Codigo + " · " + p.Nombre})
	}
	return options
}

func sucursalOptions(ctx context.Context, sucursales *orgapp.SucursalService) []view.Option {
	all, err := sucursales.All(ctx)
	if err != nil {
		return nil
	}
	options := make([]view.Option, 0, len(all))
	for _, s := range all {
		if !s.Activa {
			continue
		}
		options = append(options, view.Option{Value: s.ID.String(), Label: s.Serie() + " · " + s.Nombre})
	}
	return options
}

// sucursalNames maps branch IDs to names for list columns
func sucursalNames(ctx context.Context, sucursales *orgapp.SucursalService) map[shared.ID]string {
	names := map[shared.ID]string{}
	all, err := sucursales.All(ctx)
	if err != nil {
		return names
	}
	for _, s := range all {
		names[s.ID] = s.Nombre
	}
	return names
}

func nameOr(names map[shared.ID]string, id shared.ID) string {
	if n, ok := names[id]; ok {
		return n
	}
	return id.String()
}
