package view

import (
	"strings"

	"github.com/facturaec/dashboard/internal/domain/identity"
)

// NavItem is one sidebar entry. Items with children render as a group.
type NavItem struct {
	Label    string
	Href     string
	Icon     string
	Active   bool
	Children []NavItem
}

type navEntry struct {
	label     string
	href      string
	icon      string
	adminOnly bool
	children  []navEntry
}

var menu = []navEntry{
	{label: "Inicio", href: "/", icon: "home"},
	{label: "Productos", href: "/productos", icon: "box"},
	{label: "Ventas", href: "/ventas", icon: "cart"},
	{label: "Compras", href: "/compras", icon: "truck"},
	{label: "Comprobantes", icon: "file", children: []navEntry{
		{label: "Facturas", href: "/facturas"},
		{label: "Notas de crédito", href: "/notas-credito"},
		{label: "Retenciones", href: "/retenciones"},
	}},
	{label: "Inventario", icon: "layers", children: []navEntry{
		{label: "Ajustes", href: "/inventario/ajustes"},
		{label: "Transferencias", href: "/inventario/transferencias"},
		{label: "Auditorías", href: "/inventario/auditorias"},
	}},
	{label: "Turnos", href: "/turnos", icon: "clock"},
	{label: "Reportes", href: "/reportes", icon: "chart"},
	{label: "Impuestos", href: "/impuestos", icon: "percent", adminOnly: true},
	{label: "Sucursales", href: "/sucursales", icon: "store", adminOnly: true},
	{label: "Configuración", href: "/configuracion", icon: "settings", adminOnly: true},
}

// BuildNav returns the sidebar for user with the entry matching path marked active
func BuildNav(path string, user identity.User) []NavItem {
	return buildNav(menu, path, user.IsAdmin())
}

func buildNav(entries []navEntry, path string, admin bool) []NavItem {
	out := make([]NavItem, 0, len(entries))
	for _, e := range entries {
		if e.adminOnly && !admin {
			continue
		}
		item := NavItem{Label: e.label, Href: e.href, Icon: e.icon}
		if len(e.children) > 0 {
			item.Children = buildNav(e.children, path, admin)
			for _, child := range item.Children {
				item.Active = item.Active || child.Active
			}
		} else {
			item.Active = isActive(e.href, path)
		}
		out = append(out, item)
	}
	return out
}

func isActive(href, path string) bool {
	if href == "/" {
		return path == "/"
	}
	return path == href || strings.HasPrefix(path, href+"/")
}
