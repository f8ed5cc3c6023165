package api

import (
	"strconv"
	"time"

	"github.com/previewer-dev/previewer/shared/domain"
)

// Wire DTOs of the test results REST service.

// ListResponse is the service's collection envelope.
type ListResponse[T any] struct {
	Count int `json:"count"`
	Value []T `json:"value"`
}

type TestAttachment struct {
	ID             int64     `json:"id"`
	FileName       string    `json:"fileName"`
	Comment        string    `json:"comment,omitempty"`
	URL            string    `json:"url,omitempty"`
	AttachmentType string    `json:"attachmentType,omitempty"`
	Size           int64     `json:"size,omitempty"`
	CreatedDate    time.Time `json:"createdDate,omitempty"`
}

func (a TestAttachment) ToDomain() domain.AttachmentSummary {
	return domain.AttachmentSummary{
		ID:             strconv.FormatInt(a.ID, 10),
		FileName:       a.FileName,
		Comment:        a.Comment,
		DownloadURL:    a.URL,
		AttachmentType: a.AttachmentType,
		Size:           a.Size,
		CreatedDate:    a.CreatedDate,
	}
}

type TestSubResult struct {
	ID int64 `json:"id"`
}

type TestCaseResult struct {
	ID         int64           `json:"id"`
	SubResults []TestSubResult `json:"subResults,omitempty"`
}

func (r TestCaseResult) ToDomain() domain.ResultDetail {
	detail := domain.ResultDetail{ID: r.ID, SubResults: make([]domain.SubResult, len(r.SubResults))}
	for i, s := range r.SubResults {
		detail.SubResults[i] = domain.SubResult{ID: s.ID}
	}
	return detail
}

// StateResponse is the previewer's own JSON snapshot of a session.
type StateResponse struct {
	Status         string               `json:"status"`
	Busy           bool                 `json:"busy"`
	Failure        string               `json:"failure,omitempty"`
	SelectionError string               `json:"selection_error,omitempty"`
	Attachments    []AttachmentResponse `json:"attachments"`
	Selected       *PreviewResponse     `json:"selected,omitempty"`
}

type AttachmentResponse struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
	Comment  string `json:"comment,omitempty"`
}

type PreviewResponse struct {
	Title       string  `json:"title"`
	MimeType    string  `json:"mime_type"`
	Text        *string `json:"text,omitempty"`
	URL         string  `json:"url,omitempty"`
	DownloadURL string  `json:"download_url,omitempty"`
	Sandbox     *string `json:"sandbox"`
}
