package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewRango(t *testing.T) {
	tests := []struct {
		name    string
		desde   time.Time
		hasta   time.Time
		wantErr error
		dias    int
	}{
		{"same day", day(2024, 5, 1), day(2024, 5, 1), nil, 1},
		{"one month", day(2024, 5, 1), day(2024, 5, 31), nil, 31},
		{"full leap year", day(2024, 1, 1), day(2024, 12, 31), nil, 366},
		{"366 days across years", day(2025, 1, 1), day(2026, 1, 1), nil, 366},
		{"time of day is ignored", day(2025, 3, 1).Add(23 * time.Hour), day(2025, 3, 2), nil, 2},
		{"inverted", day(2024, 5, 2), day(2024, 5, 1), ErrRangoInvertido, 0},
		{"367 days", day(2025, 1, 1), day(2026, 1, 2), ErrRangoExcedido, 0},
		{"leap year plus a day", day(2024, 1, 1), day(2025, 1, 1), ErrRangoExcedido, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRango(tt.desde, tt.hasta)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.dias, r.Dias())
		})
	}
}

func TestMesActual(t *testing.T) {
	r := MesActual(time.Date(2024, 2, 17, 15, 4, 5, 0, time.UTC))
	assert.Equal(t, day(2024, 2, 1), r.Desde)
	assert.Equal(t, day(2024, 2, 17), r.Hasta)
}

func TestBarras(t *testing.T) {
	barras := Barras([]VentaDiaria{
		{Total: decimal.NewFromInt(50)},
		{Total: decimal.NewFromInt(200)},
		{Total: decimal.Zero},
		{Total: decimal.NewFromInt(33)},
	})

	require.Len(t, barras, 4)
	assert.Equal(t, 25, barras[0].Porcentaje)
	assert.Equal(t, 100, barras[1].Porcentaje)
	assert.Equal(t, 0, barras[2].Porcentaje)
	assert.Equal(t, 17, barras[3].Porcentaje)

	assert.Empty(t, Barras(nil))
}
