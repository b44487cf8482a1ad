package task

import (
	"context"

	"github.com/nhle/quicktasks/internal/model"
)

// Repository is the subset of the store the service needs.
type Repository interface {
	List(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, text string) (model.Task, error)
	Toggle(ctx context.Context, id string) (model.Task, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Service implements the task list operations on top of a Repository.
type Service struct {
	repo Repository
}

// NewService returns a Service backed by repo.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]model.Task, error) {
	return s.repo.List(ctx)
}

// Create validates req and persists the task. An invalid request returns a
// *ValidationError and leaves the repository untouched.
func (s *Service) Create(ctx context.Context, req CreateTaskRequest) (model.Task, error) {
	res := ValidateCreate(req)
	if !res.Valid() {
		return model.Task{}, res.Err
	}
	return s.repo.Create(ctx, res.Text)
}

func (s *Service) Toggle(ctx context.Context, id string) (model.Task, bool, error) {
	return s.repo.Toggle(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}
