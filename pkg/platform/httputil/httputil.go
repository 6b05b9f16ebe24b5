// Package httputil centralizes JSON response writing so every handler and
// middleware emits the same envelope.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "walletgate/pkg/domain-errors"
)

// ErrorResponse is the wire shape for every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// WriteJSON writes v with the given status. Encoding failures are swallowed;
// by that point the status line is already on the wire.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope. Internal
// errors hide their detail from clients; everything else surfaces its message.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := ""

	var gw dErrors.GatewayError
	if errors.As(err, &gw) {
		status = dErrors.ToHTTPStatus(gw.Code)
		if gw.Code != dErrors.CodeInternal {
			detail = gw.Message
		}
	}

	WriteJSON(w, status, ErrorResponse{
		Message: http.StatusText(status),
		Error:   detail,
	})
}

// WriteReason writes a rejection with an explicit status and stable reason
// code, bypassing domain-error translation. The gateway uses this for its
// decision table where reason codes are part of the contract.
func WriteReason(w http.ResponseWriter, status int, reason string) {
	WriteJSON(w, status, ErrorResponse{
		Message: http.StatusText(status),
		Error:   reason,
	})
}
