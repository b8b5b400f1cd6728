package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProductoBajoStock(t *testing.T) {
	tests := []struct {
		name   string
		stock  string
		minimo string
		want   bool
	}{
		{"above minimum", "10", "5", false},
		{"at minimum", "5", "5", true},
		{"below minimum", "2", "5", true},
		{"no minimum configured", "0", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Producto{
				Stock:       decimal.RequireFromString(tt.stock),
				StockMinimo: decimal.RequireFromString(tt.minimo),
			}
			assert.Equal(t, tt.want, p.BajoStock())
		})
	}
}

func TestProductoPrecioConIVA(t *testing.T) {
	p := Producto{Precio: decimal.RequireFromString("10.00"), IVACodigo: "4"}
	assert.Equal(t, "11.50", p.PrecioConIVA().StringFixed(2))

	p.IVACodigo = "0"
	assert.Equal(t, "10.00", p.PrecioConIVA().StringFixed(2))

	p.IVACodigo = "99"
	assert.Equal(t, "10.00", p.PrecioConIVA().StringFixed(2))
}
