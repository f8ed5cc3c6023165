// Package resolver decides which attachment collection a host identity refers to.
package resolver

import (
	"context"
	"fmt"

	"github.com/previewer-dev/previewer/shared/domain"
	internal_errors "github.com/previewer-dev/previewer/shared/errors"
	"github.com/previewer-dev/previewer/shared/logger"
)

// ResultsService is the part of the results client the resolver needs.
type ResultsService interface {
	ListRunAttachments(ctx context.Context, project string, runID int64) (domain.Attachments, error)
	GetResultDetail(ctx context.Context, project string, runID, resultID int64, includeSubResults bool) (*domain.ResultDetail, error)
}

type Resolver struct {
	service ResultsService
}

func New(service ResultsService) *Resolver {
	return &Resolver{service: service}
}

// Resolve maps an identity to a scope. A bare run is probed for attachments and yields
// errors.ErrNoAttachments when it has none.
func (r *Resolver) Resolve(ctx context.Context, project string, identity domain.RunIdentity) (domain.Scope, error) {
	return r.resolve(ctx, project, identity, true)
}

// ResolveForContent is Resolve without the run-level probe; it is used once an attachment
// was already picked from a listing. It must be called for every content fetch because a
// result can gain attempts after the listing was loaded.
func (r *Resolver) ResolveForContent(ctx context.Context, project string, identity domain.RunIdentity) (domain.Scope, error) {
	return r.resolve(ctx, project, identity, false)
}

func (r *Resolver) resolve(ctx context.Context, project string, identity domain.RunIdentity, probeRun bool) (domain.Scope, error) {
	log := logger.Component("resolver")

	if !identity.HasResult() {
		if probeRun {
			attachments, err := r.service.ListRunAttachments(ctx, project, identity.RunID)
			if err != nil {
				return domain.Scope{}, fmt.Errorf("probe run %d: %w", identity.RunID, err)
			}
			if len(attachments) == 0 {
				return domain.Scope{}, internal_errors.ErrNoAttachments
			}
		}
		return domain.NewRunScope(identity.RunID), nil
	}

	resultID := identity.Result()
	if subResultID, pinned := identity.SubResult.ID(); pinned {
		return domain.NewSubResultScope(identity.RunID, resultID, subResultID), nil
	}

	detail, err := r.service.GetResultDetail(ctx, project, identity.RunID, resultID, true)
	if err != nil {
		return domain.Scope{}, fmt.Errorf("load result %d of run %d: %w", resultID, identity.RunID, err)
	}
	if detail == nil || len(detail.SubResults) == 0 {
		return domain.NewResultScope(identity.RunID, resultID), nil
	}

	// attempts are appended in order, the last one is the most recent
	latest := detail.SubResults[len(detail.SubResults)-1].ID
	log.Debug("resolved latest attempt", "run_id", identity.RunID, "result_id", resultID, "sub_result_id", latest, "attempts", len(detail.SubResults))
	return domain.NewSubResultScope(identity.RunID, resultID, latest), nil
}
