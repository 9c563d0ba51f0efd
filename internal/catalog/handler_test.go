package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogRouter(c *Catalog) chi.Router {
	r := chi.NewRouter()
	NewHandler(c).Register(r)
	return r
}

func TestHandleListCourses(t *testing.T) {
	t.Run("returns the normalized catalog", func(t *testing.T) {
		router := newCatalogRouter(New([]Course{
			{ID: "course-1", Title: "Intro", Lessons: []Lesson{{ID: "l1", Title: "One", URL: "https://u"}}},
		}))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var courses []Course
		require.NoError(t, json.NewDecoder(w.Body).Decode(&courses))
		require.Len(t, courses, 1)
		assert.Equal(t, "course-1", courses[0].ID)
	})

	t.Run("empty catalog serves an empty array, not null", func(t *testing.T) {
		router := newCatalogRouter(New(nil))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})
}

func TestHandleGetCourse(t *testing.T) {
	router := newCatalogRouter(New([]Course{{ID: "course-1", Title: "Intro"}}))

	t.Run("known course", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses/course-1", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var course Course
		require.NoError(t, json.NewDecoder(w.Body).Decode(&course))
		assert.Equal(t, "Intro", course.Title)
	})

	t.Run("unknown course is a 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses/course-404", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
