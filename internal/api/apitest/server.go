// Package apitest runs an in-memory NotesHive service for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Token is the bearer token the fake service issues and accepts.
const Token = "test-token"

// OTP is the one-time code the fake service expects.
const OTP = "123456"

// Note is a stored note in wire form.
type Note struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// User is a registered account.
type User struct {
	ID             string `json:"_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	DOB            string `json:"dob,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

type failure struct {
	status  int
	message string
}

// Server is a fake notes service backed by memory.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	notes    []Note
	users    map[string]*User
	nextID   int
	failures map[string][]failure
	calls    map[string]int
	// directLogin makes /auth/login return a token without an OTP step.
	directLogin bool
	requestIDs  []string
	generated   string
	uploaded    []byte
}

// NewServer starts a fake service. Close it when done.
func NewServer() *Server {
	s := &Server{
		users:    map[string]*User{},
		nextID:   1,
		failures: map[string][]failure{},
		calls:    map[string]int{},
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

// BaseURL is the API root, suitable for api.NewClient.
func (s *Server) BaseURL() string { return s.Server.URL + "/api" }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.login)
		r.Post("/auth/verify-otp", s.verifyOTP)
		r.Post("/auth/resend-otp", s.resendOTP)
		r.Post("/auth/signup", s.signup)
		r.Post("/auth/google", s.google)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/notes", s.listNotes)
			r.Post("/notes", s.createNote)
			r.Post("/notes/generate", s.generate)
			r.Put("/notes/{id}", s.updateNote)
			r.Delete("/notes/{id}", s.deleteNote)
			r.Post("/users/profile-picture", s.uploadPicture)
		})
	})
	return r
}

func callKey(method, path string) string { return method + " " + path }

// record counts calls and applies injected failures.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api")
		key := callKey(r.Method, routeOf(path))

		s.mu.Lock()
		s.calls[key]++
		s.requestIDs = append(s.requestIDs, r.Header.Get("X-Request-ID"))
		var fail *failure
		if queue := s.failures[key]; len(queue) > 0 {
			fail = &queue[0]
			s.failures[key] = queue[1:]
		}
		s.mu.Unlock()

		if fail != nil {
			if fail.message != "" {
				writeJSON(w, fail.status, map[string]string{"error": fail.message})
			} else {
				w.WriteHeader(fail.status)
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}

// routeOf maps /notes/abc to /notes/{id} so counts group by route.
func routeOf(path string) string {
	if strings.HasPrefix(path, "/notes/") && path != "/notes/generate" {
		return "/notes/{id}"
	}
	return path
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Fail makes the next call to method+route respond with status. An empty message sends
// no body. route uses {id} for note ids, e.g. "/notes/{id}".
func (s *Server) Fail(method, route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := callKey(method, route)
	s.failures[key] = append(s.failures[key], failure{status: status, message: message})
}

// Calls returns how many times method+route was requested.
func (s *Server) Calls(method, route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[callKey(method, route)]
}

// RequestIDs returns the X-Request-ID header of every request so far.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

// SetDirectLogin controls whether /auth/login signs in without an OTP.
func (s *Server) SetDirectLogin(on bool) {
	s.mu.Lock()
	s.directLogin = on
	s.mu.Unlock()
}

// SetGenerated fixes the text /notes/generate returns.
func (s *Server) SetGenerated(text string) {
	s.mu.Lock()
	s.generated = text
	s.mu.Unlock()
}

// AddUser registers an account.
func (s *Server) AddUser(name, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = &User{ID: s.newID("u"), Name: name, Email: email}
}

// Seed stores notes directly and returns them with ids assigned.
func (s *Server) Seed(notes ...Note) []Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range notes {
		if notes[i].ID == "" {
			notes[i].ID = s.newID("n")
		}
		if notes[i].CreatedAt.IsZero() {
			notes[i].CreatedAt = time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
		}
		s.notes = append(s.notes, notes[i])
	}
	return notes
}

// Notes returns the stored notes in order.
func (s *Server) Notes() []Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Note(nil), s.notes...)
}

// Uploaded returns the last uploaded profile picture bytes.
func (s *Server) Uploaded() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploaded
}

func (s *Server) newID(prefix string) string {
	id := fmt.Sprintf("%s%d", prefix, s.nextID)
	s.nextID++
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return false
	}
	return true
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	notes := append([]Note{}, s.notes...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": notes})
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	n := Note{ID: s.newID("n"), Title: req.Title, Content: req.Content, CreatedAt: time.Now().UTC().Truncate(time.Second)}
	s.notes = append(s.notes, n)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]any{"data": n})
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes[i].Title = req.Title
			s.notes[i].Content = req.Content
			writeJSON(w, http.StatusOK, s.notes[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Note not found"})
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Note deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Note not found"})
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	text := s.generated
	s.mu.Unlock()
	if text == "" {
		text = req.Content + "\n\nExpanded by the assistant."
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": text})
}

func (s *Server) uploadPicture(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No image uploaded"})
		return
	}
	defer file.Close()
	data, _ := io.ReadAll(file)

	s.mu.Lock()
	s.uploaded = data
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"profilePicture": "https://cdn.example/" + header.Filename})
}

func (s *Server) session(u *User) map[string]any {
	return map[string]any{"token": Token, "user": u, "message": "Signed in"}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	u, ok := s.users[req.Email]
	direct := s.directLogin
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found. Please sign up."})
		return
	}
	if direct {
		writeJSON(w, http.StatusOK, s.session(u))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent to your email"})
}

func (s *Server) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	u, ok := s.users[req.Email]
	s.mu.Unlock()
	if !ok || req.OTP != OTP {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid OTP"})
		return
	}
	writeJSON(w, http.StatusOK, s.session(u))
}

func (s *Server) resendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP resent"})
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		DOB   string `json:"dob"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Email]; exists {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "User already exists"})
		return
	}
	s.users[req.Email] = &User{ID: s.newID("u"), Name: req.Name, Email: req.Email, DOB: req.DOB}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "OTP sent to your email"})
}

func (s *Server) google(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDToken  string `json:"idToken"`
		UserData struct {
			Email   string `json:"email"`
			Name    string `json:"name"`
			Picture string `json:"picture"`
		} `json:"userData"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.IDToken == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing ID token"})
		return
	}
	s.mu.Lock()
	u, ok := s.users[req.UserData.Email]
	if !ok {
		u = &User{ID: s.newID("u"), Name: req.UserData.Name, Email: req.UserData.Email, ProfilePicture: req.UserData.Picture}
		s.users[u.Email] = u
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.session(u))
}
