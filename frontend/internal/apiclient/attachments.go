package apiclient

import (
	"context"
	"net/url"
	"strconv"

	"github.com/previewer-dev/previewer/shared/api"
	"github.com/previewer-dev/previewer/shared/domain"
)

func toSummaries(list api.ListResponse[api.TestAttachment]) domain.Attachments {
	out := make(domain.Attachments, len(list.Value))
	for i, a := range list.Value {
		out[i] = a.ToDomain()
	}
	return out
}

func subResultQuery(subResultID int64) url.Values {
	return url.Values{"testSubResultId": []string{strconv.FormatInt(subResultID, 10)}}
}

func (c *APIClient) ListRunAttachments(ctx context.Context, project string, runID int64) (domain.Attachments, error) {
	var list api.ListResponse[api.TestAttachment]
	if err := c.getJSON(ctx, "list run attachments", runPath(project, runID)+"/attachments", nil, &list); err != nil {
		return nil, err
	}
	return toSummaries(list), nil
}

func (c *APIClient) ListResultAttachments(ctx context.Context, project string, runID, resultID int64) (domain.Attachments, error) {
	var list api.ListResponse[api.TestAttachment]
	if err := c.getJSON(ctx, "list result attachments", resultPath(project, runID, resultID)+"/attachments", nil, &list); err != nil {
		return nil, err
	}
	return toSummaries(list), nil
}

func (c *APIClient) ListSubResultAttachments(ctx context.Context, project string, runID, resultID, subResultID int64) (domain.Attachments, error) {
	var list api.ListResponse[api.TestAttachment]
	path := resultPath(project, runID, resultID) + "/attachments"
	if err := c.getJSON(ctx, "list sub-result attachments", path, subResultQuery(subResultID), &list); err != nil {
		return nil, err
	}
	return toSummaries(list), nil
}

func (c *APIClient) GetResultDetail(ctx context.Context, project string, runID, resultID int64, includeSubResults bool) (*domain.ResultDetail, error) {
	query := url.Values{}
	if includeSubResults {
		query.Set("detailsToInclude", "SubResults")
	}
	var result api.TestCaseResult
	if err := c.getJSON(ctx, "get result", resultPath(project, runID, resultID), query, &result); err != nil {
		return nil, err
	}
	detail := result.ToDomain()
	return &detail, nil
}

func (c *APIClient) FetchRunAttachmentContent(ctx context.Context, project string, runID int64, attachmentID string) ([]byte, error) {
	path := runPath(project, runID) + "/attachments/" + url.PathEscape(attachmentID)
	return c.getBytes(ctx, "fetch run attachment", path, nil)
}

func (c *APIClient) FetchResultAttachmentContent(ctx context.Context, project string, runID, resultID int64, attachmentID string) ([]byte, error) {
	path := resultPath(project, runID, resultID) + "/attachments/" + url.PathEscape(attachmentID)
	return c.getBytes(ctx, "fetch result attachment", path, nil)
}

func (c *APIClient) FetchSubResultAttachmentContent(ctx context.Context, project string, runID, resultID int64, attachmentID string, subResultID int64) ([]byte, error) {
	path := resultPath(project, runID, resultID) + "/attachments/" + url.PathEscape(attachmentID)
	return c.getBytes(ctx, "fetch sub-result attachment", path, subResultQuery(subResultID))
}
