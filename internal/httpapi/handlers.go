package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/nhle/quicktasks/internal/task"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.pinger == nil {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Second)
	defer cancel()

	if err := s.pinger.Ping(ctx); err != nil {
		s.logger.WarnContext(ctx, "readiness check failed",
			"rid", RequestIDFromContext(ctx), "err", err)
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.service.List(r.Context())
	if err != nil {
		s.logError(r, "list tasks failed", err)
		writeMessage(w, http.StatusInternalServerError, msgListFailed)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req task.CreateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidTask)
		return
	}

	created, err := s.service.Create(r.Context(), req)
	if err != nil {
		var verr *task.ValidationError
		if errors.As(err, &verr) {
			if verr.Reason == task.ReasonEmpty {
				writeMessage(w, http.StatusBadRequest, msgEmptyText)
			} else {
				writeMessage(w, http.StatusBadRequest, msgInvalidTask)
			}
			return
		}
		s.logError(r, "create task failed", err)
		writeMessage(w, http.StatusInternalServerError, msgCreateFailed)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	updated, found, err := s.service.Toggle(r.Context(), id)
	if err != nil {
		s.logError(r, "toggle task failed", err, "id", id)
		writeMessage(w, http.StatusInternalServerError, msgToggleFailed)
		return
	}
	if !found {
		writeMessage(w, http.StatusNotFound, msgTaskNotFound)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	removed, err := s.service.Delete(r.Context(), id)
	if err != nil {
		s.logError(r, "delete task failed", err, "id", id)
		writeMessage(w, http.StatusInternalServerError, msgDeleteFailed)
		return
	}
	if !removed {
		writeMessage(w, http.StatusNotFound, msgTaskNotFound)
		return
	}

	writeMessage(w, http.StatusOK, msgDeleted)
}

func (s *Server) logError(r *http.Request, msg string, err error, attrs ...any) {
	args := append([]any{"rid", RequestIDFromContext(r.Context()), "err", err}, attrs...)
	s.logger.ErrorContext(r.Context(), msg, args...)
}
