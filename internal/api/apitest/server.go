// Package apitest provides an in-memory recipes collection served over
// httptest, for exercising the client and the views against real HTTP.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/Makepad-fr/recipes/internal/model"
)

// Request records one call received by the server.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   model.Recipe
}

// Server is a fake collection endpoint at URL.
type Server struct {
	URL string

	srv *httptest.Server

	mu       sync.Mutex
	recipes  []model.Recipe
	nextID   int
	fail     map[string]int
	requests []Request
}

// NewServer starts a server seeded with recipes. Close it when done.
func NewServer(seed ...model.Recipe) *Server {
	s := &Server{
		recipes: append([]model.Recipe{}, seed...),
		nextID:  1,
		fail:    map[string]int{},
	}
	for _, r := range seed {
		if r.ID >= s.nextID {
			s.nextID = r.ID + 1
		}
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	s.URL = s.srv.URL + "/api/recipes"
	return s
}

// Close shuts the server down.
func (s *Server) Close() { s.srv.Close() }

// FailMethod makes every following request with method answer status.
// A zero status clears the failure.
func (s *Server) FailMethod(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.fail, method)
		return
	}
	s.fail[method] = status
}

// Recipes returns a copy of the server-side collection.
func (s *Server) Recipes() []model.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Recipe{}, s.recipes...)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request{}, s.requests...)
}

// CountMethod returns how many requests used method.
func (s *Server) CountMethod(method string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method {
			n++
		}
	}
	return n
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Request{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone()}
	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut) {
		_ = json.NewDecoder(r.Body).Decode(&rec.Body)
	}
	s.requests = append(s.requests, rec)

	if status, ok := s.fail[r.Method]; ok {
		http.Error(w, "injected failure", status)
		return
	}

	idPart := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/api/recipes"), "/")

	switch {
	case r.Method == http.MethodGet && idPart == "":
		writeJSON(w, http.StatusOK, s.recipes)

	case r.Method == http.MethodPost && idPart == "":
		created := rec.Body
		created.ID = s.nextID
		s.nextID++
		s.recipes = append(s.recipes, created)
		writeJSON(w, http.StatusCreated, created)

	case r.Method == http.MethodPut && idPart != "":
		id, err := strconv.Atoi(idPart)
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		for i := range s.recipes {
			if s.recipes[i].ID == id {
				s.recipes[i].Title = rec.Body.Title
				s.recipes[i].Body = rec.Body.Body
				writeJSON(w, http.StatusOK, s.recipes[i])
				return
			}
		}
		http.NotFound(w, r)

	case r.Method == http.MethodDelete && idPart != "":
		id, err := strconv.Atoi(idPart)
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		for i := range s.recipes {
			if s.recipes[i].ID == id {
				s.recipes = append(s.recipes[:i], s.recipes[i+1:]...)
				w.WriteHeader(http.StatusOK)
				return
			}
		}
		http.NotFound(w, r)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
