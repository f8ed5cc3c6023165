// Package loader fetches attachment listings and content for a resolved scope.
package loader

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/previewer-dev/previewer/shared/domain"
)

// ResultsService is the part of the results client the loader routes to.
type ResultsService interface {
	ListRunAttachments(ctx context.Context, project string, runID int64) (domain.Attachments, error)
	ListResultAttachments(ctx context.Context, project string, runID, resultID int64) (domain.Attachments, error)
	ListSubResultAttachments(ctx context.Context, project string, runID, resultID, subResultID int64) (domain.Attachments, error)

	FetchRunAttachmentContent(ctx context.Context, project string, runID int64, attachmentID string) ([]byte, error)
	FetchResultAttachmentContent(ctx context.Context, project string, runID, resultID int64, attachmentID string) ([]byte, error)
	FetchSubResultAttachmentContent(ctx context.Context, project string, runID, resultID int64, attachmentID string, subResultID int64) ([]byte, error)
}

type Loader struct {
	service ResultsService
	locale  language.Tag
}

// New creates a loader that orders listings with the collation rules of locale.
// An unparsable locale falls back to the root collation.
func New(service ResultsService, locale string) *Loader {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return &Loader{service: service, locale: tag}
}

// List returns the attachments of scope sorted by file name.
func (l *Loader) List(ctx context.Context, project string, scope domain.Scope) (domain.Attachments, error) {
	var (
		list domain.Attachments
		err  error
	)
	switch scope.Kind {
	case domain.RunScope:
		list, err = l.service.ListRunAttachments(ctx, project, scope.RunID)
	case domain.ResultScope:
		list, err = l.service.ListResultAttachments(ctx, project, scope.RunID, scope.ResultID)
	case domain.SubResultScope:
		list, err = l.service.ListSubResultAttachments(ctx, project, scope.RunID, scope.ResultID, scope.SubResultID)
	default:
		return nil, fmt.Errorf("unknown scope kind %d", scope.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("list attachments of %s: %w", scope, err)
	}

	l.sortByFileName(list)
	return list, nil
}

// FetchContent returns the raw bytes of one attachment.
func (l *Loader) FetchContent(ctx context.Context, project string, scope domain.Scope, attachmentID string) ([]byte, error) {
	var (
		content []byte
		err     error
	)
	switch scope.Kind {
	case domain.RunScope:
		content, err = l.service.FetchRunAttachmentContent(ctx, project, scope.RunID, attachmentID)
	case domain.ResultScope:
		content, err = l.service.FetchResultAttachmentContent(ctx, project, scope.RunID, scope.ResultID, attachmentID)
	case domain.SubResultScope:
		content, err = l.service.FetchSubResultAttachmentContent(ctx, project, scope.RunID, scope.ResultID, attachmentID, scope.SubResultID)
	default:
		return nil, fmt.Errorf("unknown scope kind %d", scope.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch attachment %s of %s: %w", attachmentID, scope, err)
	}
	return content, nil
}

// sortByFileName sorts in place; equal names keep their service order.
func (l *Loader) sortByFileName(list domain.Attachments) {
	// a Collator keeps scratch buffers and is not safe for concurrent use
	c := collate.New(l.locale)
	sort.SliceStable(list, func(i, j int) bool {
		return c.CompareString(list[i].FileName, list[j].FileName) < 0
	})
}
