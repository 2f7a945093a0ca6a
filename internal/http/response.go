package http

import (
	"net/http"

	"community-sport/backend/internal/httpjson"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	httpjson.Write(w, status, v)
}

// Fail writes err using its apperr kind for the status code.
func Fail(w http.ResponseWriter, err error) {
	httpjson.Error(w, err)
}
