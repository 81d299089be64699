package middleware

import (
	"encoding/json"
	"net/http"
)

// jsonEncode writes value as the response body. Middleware responses (rate
// limit, recovery) use it directly instead of the handler package's helpers.
func jsonEncode(w http.ResponseWriter, value any) error {
	return json.NewEncoder(w).Encode(value)
}
