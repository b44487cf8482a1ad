package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/nhle/quicktasks/internal/model"
	"github.com/nhle/quicktasks/internal/task"
)

// TaskService is what the router needs from the task layer.
type TaskService interface {
	List(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, req task.CreateTaskRequest) (model.Task, error)
	Toggle(ctx context.Context, id string) (model.Task, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures a Server. The zero value is usable.
type Options struct {
	Logger         *slog.Logger
	Pinger         Pinger
	RequestTimeout time.Duration
}

// Server routes the REST API, health probes and the web page.
type Server struct {
	service TaskService
	pinger  Pinger
	logger  *slog.Logger
	handler http.Handler
}

// NewServer wires the routes and middleware around service.
func NewServer(service TaskService, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		service: service,
		pinger:  opts.Pinger,
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("PATCH /api/tasks/{id}/toggle", s.handleToggleTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)

	s.handler = withRequestID(
		withLogging(logger)(
			withRecover(logger)(
				withTimeout(opts.RequestTimeout)(mux),
			),
		),
	)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
