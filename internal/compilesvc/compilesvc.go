// Package compilesvc exposes internal/compiler over HTTP: submit a module
// for compilation, poll its status and diagnostics, and list recent builds,
// backed by internal/buildstore for history and a bearer-token scheme for
// auth. The emitted IR is not returned.
package compilesvc

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/piilip/neon/internal/buildstore"
	"github.com/piilip/neon/internal/compiler"
	"github.com/piilip/neon/internal/diag"
)

// User is one registered API caller. Password holds a bcrypt hash, never the
// plaintext; LastLogout folds into the JWT signing key so logout (or a
// password change) invalidates every token issued before it.
type User struct {
	ID         uuid.UUID
	Name       string
	Password   string
	LastLogout time.Time
}

// UserStore looks users up by name (for login) or ID (for token validation).
// A single in-memory map satisfies every caller of this package today; it's
// an interface so a persistent store can stand in without touching the
// handlers.
type UserStore interface {
	GetByName(name string) (User, bool)
	GetByID(id uuid.UUID) (User, bool)
}

// MemoryUsers is a UserStore backed by a plain map, suitable for a single
// admin account or small fixed operator list.
type MemoryUsers struct {
	byName map[string]User
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{byName: map[string]User{}}
}

// Add hashes password and registers name, replacing any existing user of the
// same name. It panics if bcrypt rejects the password (only happens for
// inputs longer than 72 bytes).
func (m *MemoryUsers) Add(name, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		panic(err.Error())
	}
	id, err := uuid.NewRandom()
	if err != nil {
		panic(err.Error())
	}
	m.byName[name] = User{ID: id, Name: name, Password: string(hash)}
}

func (m *MemoryUsers) GetByName(name string) (User, bool) {
	u, ok := m.byName[name]
	return u, ok
}

func (m *MemoryUsers) GetByID(id uuid.UUID) (User, bool) {
	for _, u := range m.byName {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// ctxKey avoids collisions with context keys other packages might set on a
// request context shared across middleware.
type ctxKey int

const ctxUser ctxKey = iota

// Service wires a compiler, a build store, a user directory, and a JWT
// signing secret into a chi router.
type Service struct {
	users  UserStore
	builds *buildstore.Store
	secret []byte

	router chi.Router
}

// New builds a Service and its route table. secret is the base JWT signing
// secret; it's combined with a user's password hash and logout time per
// token, the same derivation used in generateToken/validateToken below, so
// that it alone is never enough to forge a token for an existing user.
func New(users UserStore, builds *buildstore.Store, secret []byte) *Service {
	s := &Service{users: users, builds: builds, secret: secret}

	r := chi.NewRouter()
	r.Post("/login", s.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/builds", s.handleSubmit)
		r.Get("/builds/{id}", s.handleGet)
		r.Get("/builds", s.handleList)
	})
	s.router = r
	return s
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// signingKey derives the per-user HMAC key: the service's base secret
// combined with the user's current password hash and last-logout time, so
// that changing either invalidates every token issued before the change.
func signingKey(secret []byte, u User) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d", secret, u.Password, u.LastLogout.Unix()))
}

func generateToken(secret []byte, u User) (string, error) {
	claims := jwt.MapClaims{
		"iss": "neon-compilesvc",
		"sub": u.ID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(signingKey(secret, u))
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// requireAuth rejects any request lacking a valid bearer token, sleeping
// briefly before responding so a timing side channel doesn't cheaply
// distinguish "bad token" from "no such user".
func (s *Service) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerToken(r)
		if tok == "" {
			time.Sleep(250 * time.Millisecond)
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		user, err := s.validateToken(tok)
		if err != nil {
			time.Sleep(250 * time.Millisecond)
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ctxUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) validateToken(tokStr string) (User, error) {
	var claimedSub string
	// jwt.Parse needs the signing key before it knows which user the token
	// claims, so it's parsed once unverified to pull the subject, then
	// re-parsed with that user's derived key to actually verify it.
	_, _, err := jwt.NewParser().ParseUnverified(tokStr, jwt.MapClaims{})
	if err != nil {
		return User{}, err
	}
	parsed, err := jwt.Parse(tokStr, func(t *jwt.Token) (interface{}, error) {
		claims, ok := t.Claims.(jwt.MapClaims)
		if !ok {
			return nil, fmt.Errorf("malformed claims")
		}
		sub, _ := claims["sub"].(string)
		claimedSub = sub
		u, ok := s.lookupByID(sub)
		if !ok {
			return nil, fmt.Errorf("no such user")
		}
		return signingKey(s.secret, u), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer("neon-compilesvc"), jwt.WithLeeway(time.Minute))
	if err != nil {
		return User{}, err
	}
	if !parsed.Valid {
		return User{}, fmt.Errorf("invalid token")
	}
	u, ok := s.lookupByID(claimedSub)
	if !ok {
		return User{}, fmt.Errorf("no such user")
	}
	return u, nil
}

func (s *Service) lookupByID(idStr string) (User, bool) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return User{}, false
	}
	return s.users.GetByID(id)
}

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	u, ok := s.users.GetByName(req.Name)
	if !ok {
		time.Sleep(250 * time.Millisecond)
		writeError(w, http.StatusUnauthorized, "bad credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		time.Sleep(250 * time.Millisecond)
		writeError(w, http.StatusUnauthorized, "bad credentials")
		return
	}

	tok, err := generateToken(s.secret, u)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: tok})
}

type submitRequest struct {
	EntryPath string `json:"entry_path"`
}

type buildResponse struct {
	ID         string `json:"id"`
	EntryPath  string `json:"entry_path"`
	Status     string `json:"status"`
	Diagnostic string `json:"diagnostic,omitempty"`
	Created    string `json:"created"`
	Updated    string `json:"updated"`
}

func toResponse(b buildstore.Build) buildResponse {
	return buildResponse{
		ID:         b.ID.String(),
		EntryPath:  b.EntryPath,
		Status:     string(b.Status),
		Diagnostic: b.Diagnostic,
		Created:    b.Created.Format(time.RFC3339),
		Updated:    b.Updated.Format(time.RFC3339),
	}
}

// handleSubmit records a new build and runs it synchronously. A real
// deployment would hand the entry path to a worker pool instead; this
// service is small enough that the HTTP handler is the worker.
func (s *Service) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EntryPath == "" {
		writeError(w, http.StatusBadRequest, "entry_path is required")
		return
	}

	ctx := r.Context()
	build, err := s.builds.Create(ctx, req.EntryPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not record build")
		return
	}

	if err := s.builds.UpdateStatus(ctx, build.ID, buildstore.StatusCompiling, ""); err != nil {
		log.Printf("compilesvc: updating build %s to compiling: %s", build.ID, err)
	}

	prog := compiler.Compile(req.EntryPath)
	if prog.Bag.Fatal() {
		diagText := joinDiagnostics(prog.Bag.Errors())
		if err := s.builds.UpdateStatus(ctx, build.ID, buildstore.StatusFailed, diagText); err != nil {
			log.Printf("compilesvc: updating build %s to failed: %s", build.ID, err)
		}
		build, _ = s.builds.GetByID(ctx, build.ID)
		writeJSON(w, http.StatusUnprocessableEntity, toResponse(build))
		return
	}

	if err := s.builds.UpdateStatus(ctx, build.ID, buildstore.StatusSucceeded, ""); err != nil {
		log.Printf("compilesvc: updating build %s to succeeded: %s", build.ID, err)
	}
	build, _ = s.builds.GetByID(ctx, build.ID)
	writeJSON(w, http.StatusCreated, toResponse(build))
}

func (s *Service) handleGet(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed build id")
		return
	}

	build, err := s.builds.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "no such build")
		return
	}
	writeJSON(w, http.StatusOK, toResponse(build))
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	builds, err := s.builds.ListRecent(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list builds")
		return
	}
	resp := make([]buildResponse, len(builds))
	for i, b := range builds {
		resp[i] = toResponse(b)
	}
	writeJSON(w, http.StatusOK, resp)
}

type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Status: status})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("compilesvc: writing response: %s", err)
	}
}

func joinDiagnostics(diags []*diag.Diagnostic) string {
	var sb strings.Builder
	for i, d := range diags {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(d.Error())
	}
	return sb.String()
}
