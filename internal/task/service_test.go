package task_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/quicktasks/internal/model"
	"github.com/nhle/quicktasks/internal/task"
	"github.com/nhle/quicktasks/tests/testutil"
)

func ptr(s string) *string { return &s }

func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name   string
		req    task.CreateTaskRequest
		text   string
		reason task.Reason
	}{
		{"missing", task.CreateTaskRequest{}, "", task.ReasonMissing},
		{"empty", task.CreateTaskRequest{Text: ptr("")}, "", task.ReasonEmpty},
		{"whitespace", task.CreateTaskRequest{Text: ptr(" \t\n ")}, "", task.ReasonEmpty},
		{"trimmed", task.CreateTaskRequest{Text: ptr("  buy milk ")}, "buy milk", ""},
		{"arabic", task.CreateTaskRequest{Text: ptr("شراء الحليب")}, "شراء الحليب", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := task.ValidateCreate(tt.req)
			if tt.reason == "" {
				require.True(t, res.Valid())
				assert.Equal(t, tt.text, res.Text)
				return
			}
			require.False(t, res.Valid())
			assert.Equal(t, "text", res.Err.Field)
			assert.Equal(t, tt.reason, res.Err.Reason)
		})
	}
}

type countingRepo struct {
	task.Repository
	creates int
}

func (r *countingRepo) Create(ctx context.Context, text string) (model.Task, error) {
	r.creates++
	return r.Repository.Create(ctx, text)
}

func TestServiceCreateInvalidSkipsRepository(t *testing.T) {
	repo := &countingRepo{Repository: testutil.NewTestStore(t)}
	svc := task.NewService(repo)

	_, err := svc.Create(context.Background(), task.CreateTaskRequest{Text: ptr("   ")})

	var verr *task.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, task.ReasonEmpty, verr.Reason)
	assert.Equal(t, 0, repo.creates)
}

func TestServiceLifecycle(t *testing.T) {
	svc := task.NewService(testutil.NewTestStore(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, task.CreateTaskRequest{Text: ptr("buy milk")})
	require.NoError(t, err)
	assert.False(t, created.Completed)

	toggled, found, err := svc.Toggle(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, toggled.Completed)

	removed, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	tasks, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
