package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/TemirB/patterns/internal/domain"
	"github.com/TemirB/patterns/internal/observability"
)

//go:generate mockgen -source internal/httpapi/httpapi.go -destination=internal/httpapi/httpapi_mock_test.go -package=httpapi

// UserStore backs the stub user service.
type UserStore interface {
	Fetch(ctx context.Context, id int64) (domain.User, bool, error)
	Store(ctx context.Context, user domain.User) error
}

// Server is the remote user service the api step of the lookup chain talks
// to.
type Server struct {
	store   UserStore
	router  chi.Router
	logger  *zap.Logger
	metrics observability.Metrics
}

func New(store UserStore, logger *zap.Logger, metrics observability.Metrics) *Server {
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	s := &Server{
		store:   store,
		logger:  logger,
		router:  chi.NewRouter(),
		metrics: metrics,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(ObserveRequests(s.metrics))
	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.router.Get("/users/{id}", s.getUser)
	s.router.Put("/users/{id}", s.putUser)
}

var errBadID = errors.New("user id must be a positive integer")

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, errBadID
	}
	return id, nil
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// no user is ever stored under a non-positive id
	if id <= 0 {
		http.Error(w, "no user with this id", http.StatusNotFound)
		return
	}

	t0 := time.Now()
	user, ok, err := s.store.Fetch(r.Context(), id)
	storeMs := float64(time.Since(t0).Microseconds()) / 1000.0
	if err != nil {
		s.logger.Error("Store read failed", zap.Int64("user_id", id), zap.Error(err))
		http.Error(w, "store error", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "no user with this id", http.StatusNotFound)
		return
	}

	observability.AppendServerTiming(w, "store", storeMs, "")
	observability.SetIfPos(w, "X-Store-Time", storeMs)
	writeJSON(w, user)
}

type putUserRequest struct {
	Name string `json:"name"`
}

func (s *Server) putUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err == nil && id <= 0 {
		err = errBadID
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var body putUserRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		s.logger.Error("Error while decoding JSON", zap.Error(err))
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	user := domain.NewUser(id, body.Name)
	if err := s.store.Store(r.Context(), user); err != nil {
		s.logger.Error("Store write failed", zap.Int64("user_id", id), zap.Error(err))
		http.Error(w, "Service error", http.StatusInternalServerError)
		return
	}
	s.logger.Info("User stored", zap.Int64("user_id", id))
	writeJSON(w, user)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// ListenAndServe serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return srv.ListenAndServe()
}

func (s *Server) Handler() http.Handler { return s.router }
