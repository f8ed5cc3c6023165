package preview

import (
	"net/http"

	internal_errors "github.com/previewer-dev/previewer/shared/errors"
)

var (
	ErrBusy              = &internal_errors.ErrorWithStatusCode{Message: "another attachment is still loading", StatusCode: http.StatusConflict}
	ErrNotListing        = &internal_errors.ErrorWithStatusCode{Message: "no attachment listing loaded", StatusCode: http.StatusConflict}
	ErrUnknownAttachment = &internal_errors.ErrorWithStatusCode{Message: "attachment not found", StatusCode: http.StatusNotFound}
	ErrNothingSelected   = &internal_errors.ErrorWithStatusCode{Message: "no attachment selected", StatusCode: http.StatusConflict}
	ErrNoDownload        = &internal_errors.ErrorWithStatusCode{Message: "attachment has no download url", StatusCode: http.StatusNotFound}
)
