package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	dErrors "coursegate/pkg/domain-errors"
	"coursegate/pkg/platform/httputil"
)

// Handler serves the normalized catalog to the front-end.
type Handler struct {
	catalog *Catalog
}

// NewHandler creates the catalog Handler.
func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// Register registers the catalog routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/courses", h.handleListCourses)
	r.Get("/courses/{id}", h.handleGetCourse)
}

func (h *Handler) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses := h.catalog.Courses()
	if courses == nil {
		courses = []Course{}
	}
	httputil.WriteJSON(w, http.StatusOK, courses)
}

func (h *Handler) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	course, ok := h.catalog.Course(chi.URLParam(r, "id"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown course"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, course)
}
