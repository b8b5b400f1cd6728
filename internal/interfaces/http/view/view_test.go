package view

import (
	"errors"
	"testing"

	"github.com/facturaec/dashboard/internal/domain/identity"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/infrastructure/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNav(t *testing.T) {
	t.Run("cashier does not see admin entries", func(t *testing.T) {
		nav := BuildNav("/productos/3/editar", identity.User{Rol: identity.RolCajero})
		labels := make([]string, 0, len(nav))
		for _, item := range nav {
			labels = append(labels, item.Label)
		}
		assert.NotContains(t, labels, "Configuración")
		assert.NotContains(t, labels, "Sucursales")
		assert.Contains(t, labels, "Productos")

		for _, item := range nav {
			assert.Equal(t, item.Label == "Productos", item.Active, item.Label)
		}
	})

	t.Run("group is active when a child matches", func(t *testing.T) {
		nav := BuildNav("/notas-credito/nueva", identity.User{Rol: identity.RolAdmin})
		var group *NavItem
		for i := range nav {
			if nav[i].Label == "Comprobantes" {
				group = &nav[i]
			}
		}
		require.NotNil(t, group)
		assert.True(t, group.Active)
		assert.False(t, group.Children[0].Active)
		assert.True(t, group.Children[1].Active)
	})

	t.Run("home only matches the root", func(t *testing.T) {
		nav := BuildNav("/", identity.User{})
		assert.True(t, nav[0].Active)
		nav = BuildNav("/ventas", identity.User{})
		assert.False(t, nav[0].Active)
	})
}

func TestPageHref(t *testing.T) {
	tests := []struct {
		name  string
		query map[string]string
		page  int
		want  string
	}{
		{"first page is implicit", nil, 1, "/facturas"},
		{"page number", nil, 3, "/facturas?page=3"},
		{"keeps filters", map[string]string{"q": "ñandú", "estado": "AUTORIZADO"}, 2, "/facturas?estado=AUTORIZADO&page=2&q=%C3%B1and%C3%BA"},
		{"drops empty values", map[string]string{"q": "", "estado": ""}, 1, "/facturas"},
		{"replaces page", map[string]string{"page": "9"}, 2, "/facturas?page=2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageHref("/facturas", tt.query, tt.page))
		})
	}
}

func TestNewPager(t *testing.T) {
	p := NewPager(shared.Paginate(45, 3, 10), "/productos", map[string]string{"q": "cafe"})

	assert.Equal(t, 21, p.From)
	assert.Equal(t, 30, p.To)
	assert.Equal(t, "/productos?page=2&q=cafe", p.PrevHref)
	assert.Equal(t, "/productos?page=4&q=cafe", p.NextHref)
	require.Len(t, p.Links, 5)
	assert.True(t, p.Links[2].Current)
	assert.Equal(t, 3, p.Links[2].Number)

	empty := NewPager(shared.Paginate(0, 1, 10), "/productos", nil)
	assert.Equal(t, 0, empty.From)
	assert.Empty(t, empty.PrevHref)
	assert.Empty(t, empty.NextHref)
	assert.Len(t, empty.Links, 1)
}

func TestNewTable(t *testing.T) {
	type item struct{ name string }
	result := shared.List([]item{{"a"}, {"b"}, {"c"}}, shared.ListQuery{PageSize: 2}, func(i item) []string { return []string{i.name} })

	table := NewTable("Items", "/items", nil, result, []Column{{Label: "Nombre"}}, func(i item) Row {
		return Row{Cells: []Cell{Text(i.name)}}
	})

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "a", table.Rows[0].Cells[0].Text)
	assert.Equal(t, "/items?page=2", table.Pager.NextHref)
}

func TestFormApplyError(t *testing.T) {
	t.Run("field messages land on inputs", func(t *testing.T) {
		form := &Form{
			Fields: []Field{{Name: "codigo"}, {Name: "nombre"}},
			Lines: &Lines{Rows: [][]Field{
				{{Name: "detalles.0.cantidad"}},
				{{Name: "detalles.1.cantidad"}},
			}},
		}
		errs := shared.FieldErrors{}
		errs.Add("codigo", "El código es obligatorio")
		errs.Add("detalles.1.cantidad", "Debe ser mayor a 0")
		form.ApplyError(errs.Err("Revise los datos del formulario"))

		assert.Equal(t, "Revise los datos del formulario", form.Error)
		assert.Equal(t, "El código es obligatorio", form.Field("codigo").Error)
		assert.Empty(t, form.Field("nombre").Error)
		assert.Empty(t, form.Lines.Rows[0][0].Error)
		assert.Equal(t, "Debe ser mayor a 0", form.Lines.Rows[1][0].Error)
		assert.True(t, form.HasErrors())
	})

	t.Run("plain errors become a generic message", func(t *testing.T) {
		form := &Form{}
		form.ApplyError(errors.New("boom"))
		assert.Equal(t, "No se pudo guardar, intente nuevamente", form.Error)
	})

	t.Run("domain errors keep their message", func(t *testing.T) {
		form := &Form{}
		form.ApplyError(shared.ErrUpstreamUnavailable)
		assert.Equal(t, shared.ErrUpstreamUnavailable.Message, form.Error)
	})
}

func TestOptions(t *testing.T) {
	opts := Options("2", "1", "Pruebas", "2", "Producción")
	require.Len(t, opts, 2)
	assert.False(t, opts[0].Selected)
	assert.True(t, opts[1].Selected)

	reselected := Select(opts, "1")
	assert.True(t, reselected[0].Selected)
	assert.True(t, opts[1].Selected, "Select must not modify its input")
}

func TestFlashes(t *testing.T) {
	flashes := Flashes([]session.Flash{
		{Kind: session.FlashSuccess, Message: "Guardado"},
		{Kind: session.FlashError, Message: "Falló"},
		{Kind: session.FlashInfo, Message: "Nota"},
	})
	require.Len(t, flashes, 3)
	assert.Equal(t, "success", flashes[0].Tone())
	assert.Equal(t, "danger", flashes[1].Tone())
	assert.Equal(t, "info", flashes[2].Tone())
}
