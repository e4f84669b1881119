package httputil

import (
	"encoding/json"
	"net/http"
)

// SuccessResponse is the standard success envelope: {message, data}.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the standard error envelope: {message, error?, errCode?}.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	ErrCode string `json:"errCode,omitempty"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers already sent; nothing left to do
			return
		}
	}
}

// WriteData writes a success envelope with a message and payload.
func WriteData(w http.ResponseWriter, status int, message string, data interface{}) {
	WriteJSON(w, status, SuccessResponse{Message: message, Data: data})
}

// WriteMessage writes a success envelope with no payload.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"message": message})
}

// WriteError writes an error envelope with a message only.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Message: message})
}

// WriteErrorCode writes an error envelope carrying a handler error code and
// the underlying error text.
func WriteErrorCode(w http.ResponseWriter, status int, message, errCode string, err error) {
	resp := ErrorResponse{Message: message, ErrCode: errCode}
	if err != nil {
		resp.Error = err.Error()
	}
	WriteJSON(w, status, resp)
}

// WriteFieldErrors writes the validation envelope {errors: {field: message}}.
func WriteFieldErrors(w http.ResponseWriter, status int, errs interface{}) {
	WriteJSON(w, status, map[string]interface{}{"errors": errs})
}
