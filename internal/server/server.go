// Package server is a reference implementation of the taskwiz REST API,
// backed by SQLite. It serves the same routes the client consumes.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"taskwiz/internal/errors"
	"taskwiz/internal/logging"
	"taskwiz/internal/service"
	"taskwiz/internal/validate"
)

// AuthPrefixes are the auth route prefixes served.
var AuthPrefixes = []string{"/auth", "/user/auth"}

// Server handles HTTP requests for the REST API.
type Server struct {
	db     *DB
	tokens *Tokens
	log    *slog.Logger
}

// New creates a Server.
func New(db *DB, tokens *Tokens, log *slog.Logger) *Server {
	return &Server{
		db:     db,
		tokens: tokens,
		log:    logging.OrDiscard(log).With("component", "server"),
	}
}

// Router returns the HTTP handler for every route.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	for _, prefix := range AuthPrefixes {
		auth := r.PathPrefix(prefix).Subrouter()
		auth.HandleFunc("/signup", s.handleSignUp).Methods(http.MethodPost)
		auth.HandleFunc("/signin", s.handleSignIn).Methods(http.MethodPost)
	}

	tasks := r.PathPrefix("/task").Subrouter()
	tasks.Use(s.requireUser)
	tasks.HandleFunc("", s.handleListTasks).Methods(http.MethodGet)
	tasks.HandleFunc("", s.handleCreateTask).Methods(http.MethodPost)
	tasks.HandleFunc("/{id}", s.handleGetTask).Methods(http.MethodGet)
	tasks.HandleFunc("/{id}", s.handleUpdateTask).Methods(http.MethodPatch)
	tasks.HandleFunc("/{id}", s.handleDeleteTask).Methods(http.MethodDelete)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Cannot "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Cannot "+r.Method+" "+r.URL.Path)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type ctxKey struct{}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// requireUser rejects requests without a valid bearer token.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		claims, err := s.tokens.Verify(token)
		if err != nil {
			s.log.Debug("rejected token", "error", err)
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if !decode(w, r, &creds) {
		return
	}
	creds, err := validate.SignUp(creds)
	if err != nil {
		writeValidation(w, err)
		return
	}

	hash, err := hashPassword(creds.Password)
	if err != nil {
		s.internalError(w, err)
		return
	}
	u, err := s.db.CreateUser(r.Context(), creds.Username, hash)
	if errors.Is(err, ErrUserExists) {
		writeError(w, http.StatusConflict, "Username already exists")
		return
	}
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, service.User{ID: u.ID, Username: u.Username})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if !decode(w, r, &creds) {
		return
	}
	creds, err := validate.SignIn(creds)
	if err != nil {
		writeValidation(w, err)
		return
	}

	u, ok, err := s.db.UserByName(r.Context(), creds.Username)
	if err != nil {
		s.internalError(w, err)
		return
	}
	if !ok || !checkPassword(u.PasswordHash, creds.Password) {
		writeError(w, http.StatusUnauthorized, "Please check your login credentials")
		return
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, service.SignInResult{AccessToken: token})
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := service.Filter{Search: q.Get("search")}
	if raw := q.Get("status"); raw != "" {
		f.Status = service.Status(raw)
		if err := validate.Status(f.Status); err != nil {
			writeValidation(w, err)
			return
		}
	}

	tasks, err := s.db.ListTasks(r.Context(), userIDFrom(r.Context()), f)
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	task, err := s.db.GetTask(r.Context(), userIDFrom(r.Context()), id)
	if err != nil {
		s.taskError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in service.NewTask
	if !decode(w, r, &in) {
		return
	}
	in, err := validate.NewTask(in)
	if err != nil {
		writeValidation(w, err)
		return
	}

	task, err := s.db.CreateTask(r.Context(), userIDFrom(r.Context()), in)
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var body struct {
		Status service.Status `json:"status"`
	}
	if !decode(w, r, &body) {
		return
	}
	if err := validate.Status(body.Status); err != nil {
		writeValidation(w, err)
		return
	}

	task, err := s.db.UpdateTaskStatus(r.Context(), userIDFrom(r.Context()), id, body.Status)
	if err != nil {
		s.taskError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.db.DeleteTask(r.Context(), userIDFrom(r.Context()), id); err != nil {
		s.taskError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}

func (s *Server) taskError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, ErrTaskNotFound) {
		writeError(w, http.StatusNotFound, `Task with ID "`+id+`" not found`)
		return
	}
	s.internalError(w, err)
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.log.Error("internal error", "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// errorBody is the JSON error payload. Message is a string, or a list of
// strings for validation failures.
type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    any    `json:"message"`
	Error      string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{
		StatusCode: status,
		Message:    message,
		Error:      http.StatusText(status),
	})
}

func writeValidation(w http.ResponseWriter, err error) {
	var e *errors.Error
	if !errors.As(err, &e) || len(e.Fields) == 0 {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	writeJSON(w, http.StatusBadRequest, errorBody{
		StatusCode: http.StatusBadRequest,
		Message:    msgs,
		Error:      http.StatusText(http.StatusBadRequest),
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}
