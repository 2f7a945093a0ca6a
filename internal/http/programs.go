package http

import (
	"net/http"
	"strconv"
	"strings"

	"community-sport/backend/internal/domain/program"
	"community-sport/backend/internal/httpjson"
	"community-sport/backend/internal/middleware"
	"community-sport/backend/internal/search"

	"github.com/go-chi/chi/v5"
)

// filtersFromQuery reads ?q=&sport=&ageGroup=&maxCost=&accessibility=a,b.
// accessibility may also be repeated.
func filtersFromQuery(r *http.Request) search.Filters {
	q := r.URL.Query()
	f := search.Filters{
		Query:    q.Get("q"),
		Sport:    strings.TrimSpace(q.Get("sport")),
		AgeGroup: strings.TrimSpace(q.Get("ageGroup")),
		MaxCost:  q.Get("maxCost"),
	}
	for _, v := range q["accessibility"] {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				f.Accessibility = append(f.Accessibility, tag)
			}
		}
	}
	return f
}

func searchPrograms(c CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := c.Search(r.Context(), filtersFromQuery(r))
		if err != nil {
			Fail(w, err)
			return
		}
		WriteJSON(w, 200, map[string]any{"success": true, "programs": out, "count": len(out)})
	}
}

func featuredPrograms(c CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		if err != nil || limit <= 0 {
			limit = search.DefaultFeaturedLimit
		}
		out := c.Featured(r.Context(), limit)
		WriteJSON(w, 200, map[string]any{"success": true, "programs": out, "count": len(out)})
	}
}

func programOptions(c CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		WriteJSON(w, 200, map[string]any{
			"sports":        c.SportOptions(ctx),
			"ageGroups":     c.AgeGroupOptions(ctx),
			"accessibility": c.AccessibilityOptions(ctx),
		})
	}
}

func getProgram(c CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := c.Program(r.Context(), chi.URLParam(r, "programId"))
		if err != nil {
			Fail(w, err)
			return
		}
		WriteJSON(w, 200, map[string]any{"success": true, "program": p})
	}
}

func listFaqs(c CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := c.Faqs(r.Context())
		if err != nil {
			Fail(w, err)
			return
		}
		WriteJSON(w, 200, map[string]any{"success": true, "faqs": out, "count": len(out)})
	}
}

func createProgram(s ProgramService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in program.CreateProgramInput
		if err := httpjson.Read(w, r, &in); err != nil {
			Fail(w, err)
			return
		}

		out, err := s.Create(r.Context(), middleware.Caller(r.Context()), in)
		if err != nil {
			Fail(w, err)
			return
		}
		WriteJSON(w, 201, out)
	}
}

func imageUploadURL(s ImageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in program.ImageUploadInput
		if err := httpjson.Read(w, r, &in); err != nil {
			Fail(w, err)
			return
		}

		out, err := s.UploadURL(r.Context(), middleware.Caller(r.Context()), in)
		if err != nil {
			Fail(w, err)
			return
		}
		WriteJSON(w, 200, out)
	}
}
