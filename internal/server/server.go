package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ButyrinIA/publy/internal/auth"
	"github.com/ButyrinIA/publy/internal/config"
	"github.com/ButyrinIA/publy/internal/events"
	"github.com/ButyrinIA/publy/internal/graphql"
	"github.com/ButyrinIA/publy/internal/markdown"
	"github.com/ButyrinIA/publy/internal/metrics"
	"github.com/ButyrinIA/publy/internal/service"
	"github.com/ButyrinIA/publy/internal/storage"
	"github.com/ButyrinIA/publy/internal/userservice"
	graphqlgo "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	cfg     *config.Config
	storage storage.Storage
	schema  *graphqlgo.Schema
	users   *userservice.Client
	handler http.Handler
}

func New(cfg *config.Config, store storage.Storage) (*Server, error) {
	hub := events.NewHub()
	users := userservice.New(cfg.UserService.URL, cfg.UserServiceTimeout())
	comments := service.NewCommentService(store, hub)
	resolver := graphql.NewResolver(store, comments, hub, markdown.New(), cfg.ProfileImageBaseURL)

	schema, err := graphql.ParseSchema(resolver)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		storage: store,
		schema:  schema,
		users:   users,
	}

	mux := http.NewServeMux()
	mux.Handle("/query", s.withMetrics("query",
		s.withAuth(s.withUserLoader(&relay.Handler{Schema: schema}))))
	mux.Handle("/subscriptions", s.withAuth(http.HandlerFunc(s.serveWS)))
	mux.Handle("/token", s.withMetrics("token", http.HandlerFunc(s.tokenHandler)))
	mux.Handle("/metrics", promhttp.Handler())
	s.handler = mux

	return s, nil
}

func (s *Server) Run() error {
	log.Println("Сервер слушает порт " + s.cfg.Server.Port)
	return http.ListenAndServe(":"+s.cfg.Server.Port, s.handler)
}

// withUserLoader создает пакетный загрузчик авторов на каждый запрос
func (s *Server) withUserLoader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := graphql.WithUserLoader(r.Context(), graphql.NewUserLoader(s.users))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withAuth разбирает bearer-токен; запросы без токена остаются анонимными,
// роль проверяет резолвер мутации
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			if identity, err := auth.Verify(s.cfg.Auth.Secret, token); err == nil {
				ctx := context.WithValue(r.Context(), "identity", identity)
				ctx = context.WithValue(ctx, "userID", identity.UserID)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) withMetrics(name string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		metrics.RequestsTotal.WithLabelValues(name, strconv.Itoa(rec.status)).Inc()
		metrics.RequestDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	})
}

// tokenHandler выдает демонстрационный токен с ролью user
func (s *Server) tokenHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		userID = "user1"
	}

	token, err := auth.GenerateToken(s.cfg.Auth.Secret, userID, []string{auth.RoleUser}, s.cfg.TokenTTL())
	if err != nil {
		http.Error(w, "Ошибка генерации токена", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}
