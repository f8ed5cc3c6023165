package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/previewer-dev/previewer/shared/domain"
	internal_errors "github.com/previewer-dev/previewer/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResultsService struct {
	MockListRunAttachments func(project string, runID int64) (domain.Attachments, error)
	MockGetResultDetail    func(project string, runID, resultID int64, includeSubResults bool) (*domain.ResultDetail, error)

	runCalls    int
	detailCalls int
}

func (m *MockResultsService) ListRunAttachments(ctx context.Context, project string, runID int64) (domain.Attachments, error) {
	m.runCalls++
	if m.MockListRunAttachments != nil {
		return m.MockListRunAttachments(project, runID)
	}
	return nil, nil
}

func (m *MockResultsService) GetResultDetail(ctx context.Context, project string, runID, resultID int64, includeSubResults bool) (*domain.ResultDetail, error) {
	m.detailCalls++
	if m.MockGetResultDetail != nil {
		return m.MockGetResultDetail(project, runID, resultID, includeSubResults)
	}
	return &domain.ResultDetail{ID: resultID}, nil
}

func ptr(v int64) *int64 { return &v }

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("bare run with attachments", func(t *testing.T) {
		svc := &MockResultsService{
			MockListRunAttachments: func(project string, runID int64) (domain.Attachments, error) {
				assert.Equal(t, "project", project)
				assert.Equal(t, int64(10), runID)
				return domain.Attachments{{ID: "1", FileName: "a.txt"}}, nil
			},
		}
		scope, err := New(svc).Resolve(ctx, "project", domain.RunIdentity{RunID: 10})
		require.NoError(t, err)
		assert.Equal(t, domain.NewRunScope(10), scope)
		assert.Equal(t, 0, svc.detailCalls)
	})

	t.Run("bare run without attachments", func(t *testing.T) {
		svc := &MockResultsService{}
		_, err := New(svc).Resolve(ctx, "project", domain.RunIdentity{RunID: 10})
		assert.ErrorIs(t, err, internal_errors.ErrNoAttachments)
	})

	t.Run("zero result id counts as a bare run", func(t *testing.T) {
		svc := &MockResultsService{
			MockListRunAttachments: func(string, int64) (domain.Attachments, error) {
				return domain.Attachments{{ID: "1"}}, nil
			},
		}
		scope, err := New(svc).Resolve(ctx, "project", domain.RunIdentity{RunID: 10, ResultID: ptr(0)})
		require.NoError(t, err)
		assert.Equal(t, domain.RunScope, scope.Kind)
		assert.Equal(t, 1, svc.runCalls)
	})

	t.Run("pinned sub-result needs no lookup", func(t *testing.T) {
		svc := &MockResultsService{}
		identity := domain.RunIdentity{RunID: 10, ResultID: ptr(20), SubResult: domain.SpecificSubResult(1001)}
		scope, err := New(svc).Resolve(ctx, "project", identity)
		require.NoError(t, err)
		assert.Equal(t, domain.NewSubResultScope(10, 20, 1001), scope)
		assert.Equal(t, 0, svc.runCalls)
		assert.Equal(t, 0, svc.detailCalls)
	})

	t.Run("latest attempt is the last sub-result", func(t *testing.T) {
		svc := &MockResultsService{
			MockGetResultDetail: func(project string, runID, resultID int64, includeSubResults bool) (*domain.ResultDetail, error) {
				assert.True(t, includeSubResults)
				return &domain.ResultDetail{ID: resultID, SubResults: []domain.SubResult{{ID: 1001}, {ID: 1002}}}, nil
			},
		}
		scope, err := New(svc).Resolve(ctx, "project", domain.RunIdentity{RunID: 10, ResultID: ptr(20)})
		require.NoError(t, err)
		assert.Equal(t, domain.NewSubResultScope(10, 20, 1002), scope)
	})

	t.Run("no attempts falls back to result scope", func(t *testing.T) {
		svc := &MockResultsService{}
		scope, err := New(svc).Resolve(ctx, "project", domain.RunIdentity{RunID: 10, ResultID: ptr(20)})
		require.NoError(t, err)
		assert.Equal(t, domain.NewResultScope(10, 20), scope)
	})

	t.Run("service errors propagate", func(t *testing.T) {
		boom := errors.New("boom")
		svc := &MockResultsService{
			MockGetResultDetail: func(string, int64, int64, bool) (*domain.ResultDetail, error) { return nil, boom },
			MockListRunAttachments: func(string, int64) (domain.Attachments, error) {
				return nil, boom
			},
		}
		_, err := New(svc).Resolve(ctx, "project", domain.RunIdentity{RunID: 10, ResultID: ptr(20)})
		assert.ErrorIs(t, err, boom)
		_, err = New(svc).Resolve(ctx, "project", domain.RunIdentity{RunID: 10})
		assert.ErrorIs(t, err, boom)
	})
}

func TestResolveForContent(t *testing.T) {
	ctx := context.Background()

	t.Run("skips the run probe", func(t *testing.T) {
		svc := &MockResultsService{}
		scope, err := New(svc).ResolveForContent(ctx, "project", domain.RunIdentity{RunID: 10})
		require.NoError(t, err)
		assert.Equal(t, domain.NewRunScope(10), scope)
		assert.Equal(t, 0, svc.runCalls)
	})

	t.Run("sees attempts added after listing", func(t *testing.T) {
		attempts := []domain.SubResult{{ID: 1001}}
		svc := &MockResultsService{
			MockGetResultDetail: func(string, int64, int64, bool) (*domain.ResultDetail, error) {
				return &domain.ResultDetail{SubResults: attempts}, nil
			},
		}
		r := New(svc)
		identity := domain.RunIdentity{RunID: 10, ResultID: ptr(20)}

		first, err := r.Resolve(ctx, "project", identity)
		require.NoError(t, err)
		assert.Equal(t, int64(1001), first.SubResultID)

		attempts = append(attempts, domain.SubResult{ID: 1002})
		second, err := r.ResolveForContent(ctx, "project", identity)
		require.NoError(t, err)
		assert.Equal(t, int64(1002), second.SubResultID)
		assert.Equal(t, 2, svc.detailCalls)
	})
}
