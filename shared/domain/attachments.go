package domain

import "time"

// AttachmentSummary is one listed attachment of a run, result or sub-result.
type AttachmentSummary struct {
	ID             string
	FileName       string
	Comment        string
	DownloadURL    string
	AttachmentType string
	Size           int64
	CreatedDate    time.Time
}

// Attachments is an attachment listing. A new listing replaces the previous one.
type Attachments = []AttachmentSummary

// FindAttachment returns the attachment with the given id.
func FindAttachment(list Attachments, id string) (AttachmentSummary, bool) {
	for _, a := range list {
		if a.ID == id {
			return a, true
		}
	}
	return AttachmentSummary{}, false
}

// SubResult is an attempt nested under a result.
type SubResult struct {
	ID int64
}

// ResultDetail is the part of a test result the previewer cares about.
// SubResults are in service order, the most recent attempt last.
type ResultDetail struct {
	ID         int64
	SubResults []SubResult
}
