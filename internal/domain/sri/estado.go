package sri

// Estado is the SRI processing state of an electronic document
type Estado string

const (
	EstadoPendiente    Estado = "PENDIENTE"
	EstadoEnviado      Estado = "ENVIADO"
	EstadoEnProceso    Estado = "EN_PROCESO"
	EstadoAutorizado   Estado = "AUTORIZADO"
	EstadoNoAutorizado Estado = "NO_AUTORIZADO"
	EstadoDevuelto     Estado = "DEVUELTO"
	EstadoAnulado      Estado = "ANULADO"
)

// Estados lists every state in display order
var Estados = []Estado{
	EstadoPendiente,
	EstadoEnviado,
	EstadoEnProceso,
	EstadoAutorizado,
	EstadoNoAutorizado,
	EstadoDevuelto,
	EstadoAnulado,
}

var estadoLabels = map[Estado]string{
	EstadoPendiente:    "Pendiente",
	EstadoEnviado:      "Enviado",
	EstadoEnProceso:    "En proceso",
	EstadoAutorizado:   "Autorizado",
	EstadoNoAutorizado: "No autorizado",
	EstadoDevuelto:     "Devuelto",
	EstadoAnulado:      "Anulado",
}

// IsValid reports whether e is a known state
func (e Estado) IsValid() bool {
	_, ok := estadoLabels[e]
	return ok
}

// IsFinal reports whether the SRI has finished processing the document.
// Non-final documents are polled for status changes.
func (e Estado) IsFinal() bool {
	switch e {
	case EstadoPendiente, EstadoEnviado, EstadoEnProceso:
		return false
	default:
		return true
	}
}

// IsAuthorized reports whether the document was authorized
func (e Estado) IsAuthorized() bool {
	return e == EstadoAutorizado
}

// CanResubmit reports whether the document may be sent to the SRI again
func (e Estado) CanResubmit() bool {
	switch e {
	case EstadoPendiente, EstadoNoAutorizado, EstadoDevuelto:
		return true
	default:
		return false
	}
}

// Label returns the display label
func (e Estado) Label() string {
	if l, ok := estadoLabels[e]; ok {
		return l
	}
	return string(e)
}

// Tone groups states for badge styling: success, danger, warning or muted
func (e Estado) Tone() string {
	switch e {
	case EstadoAutorizado:
		return "success"
	case EstadoNoAutorizado, EstadoDevuelto:
		return "danger"
	case EstadoAnulado:
		return "muted"
	default:
		return "warning"
	}
}
