package http

import (
	"net/http"

	"community-sport/backend/internal/domain/role"
	"community-sport/backend/internal/httpjson"
	"community-sport/backend/internal/middleware"
)

func setRole(s RoleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in role.SetRoleInput
		if err := httpjson.Read(w, r, &in); err != nil {
			Fail(w, err)
			return
		}
		caller := middleware.Caller(r.Context())
		if in.UID == "" {
			in.UID = caller.UID
		}

		out, err := s.SetRole(r.Context(), caller, in)
		if err != nil {
			Fail(w, err)
			return
		}
		WriteJSON(w, 200, out)
	}
}

func myRole(s RoleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := s.Me(r.Context(), middleware.Caller(r.Context()))
		if err != nil {
			Fail(w, err)
			return
		}
		WriteJSON(w, 200, out)
	}
}
