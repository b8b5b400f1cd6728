package dto

// Response is the JSON envelope used by the status polling endpoints
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response, normalizing domain codes
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    NormalizeErrorCode(code),
			Message: message,
		},
	}
}

// NewErrorResponseFrom creates an error response from any error
func NewErrorResponseFrom(err error) (int, Response) {
	status, info := ErrorFrom(err)
	return status, Response{Success: false, Error: &info}
}

// EstadoResponse is the payload of a status poll
type EstadoResponse struct {
	ID       string   `json:"id"`
	Estado   string   `json:"estado"`
	Etiqueta string   `json:"etiqueta"`
	Final    bool     `json:"final"`
	Mensajes []string `json:"mensajes,omitempty"`
}
