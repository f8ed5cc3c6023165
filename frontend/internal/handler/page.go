package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/previewer-dev/previewer/frontend/internal/preview"
	"github.com/previewer-dev/previewer/frontend/internal/session"
	"github.com/previewer-dev/previewer/shared/logger"
)

const previewTemplate = "preview.html"

// CommonTemplateData is shared by every page.
type CommonTemplateData struct {
	// Refresh reloads the page while something is loading.
	Refresh bool
}

// TemplateData wraps page-specific data with common template data.
// Templates access page data via .Data and common data via .Common.
type TemplateData struct {
	Data   any
	Common CommonTemplateData
}

type attachmentView struct {
	FileName  string
	Comment   template.HTML
	Size      int64
	SelectURL string
	Selected  bool
}

type previewView struct {
	Title            string
	MimeType         string
	IsText           bool
	Text             string
	URL              string
	DownloadURL      string
	HasSandbox       bool
	SandboxAttribute string
	Width            int
	Height           int
}

type pageData struct {
	Status         string
	Failure        string
	SelectionError string
	Busy           bool
	Attachments    []attachmentView
	Selected       *previewView
	DownloadURL    string
}

// Page renders the session's current state.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	s, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	state := s.Machine.State()
	refresh := state.Status == preview.StatusInitializing || state.Busy
	h.renderTemplate(w, previewTemplate, h.pageData(s.ID, state), CommonTemplateData{Refresh: refresh})
}

func (h *Handler) pageData(sessionID string, state preview.State) pageData {
	data := pageData{
		Status:         state.Status.String(),
		Failure:        state.Failure,
		SelectionError: state.SelectionError,
		Busy:           state.Busy,
		Attachments:    make([]attachmentView, len(state.Attachments)),
		DownloadURL:    session.Path(sessionID) + "download",
	}
	for i, a := range state.Attachments {
		data.Attachments[i] = attachmentView{
			FileName:  a.FileName,
			Comment:   h.TextProcessor.RenderComment(a.Comment),
			Size:      a.Size,
			SelectURL: session.Path(sessionID) + "select/" + a.ID,
			Selected:  state.Selected != nil && state.Selected.AttachmentID == a.ID,
		}
	}
	if p := state.Selected; p != nil {
		view := &previewView{
			Title:       p.Title,
			MimeType:    p.MimeType,
			IsText:      p.IsText(),
			URL:         p.URL,
			DownloadURL: p.DownloadURL,
			Width:       p.Width,
			Height:      p.Height,
		}
		if p.IsText() {
			view.Text = *p.Text
		}
		view.SandboxAttribute, view.HasSandbox = p.Sandbox.Attribute()
		data.Selected = view
	}
	return data
}

func (h *Handler) renderTemplate(w http.ResponseWriter, name string, data any, common CommonTemplateData) {
	tmpl, ok := h.Templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("Template %s not found", name), http.StatusInternalServerError)
		return
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, TemplateData{Data: data, Common: common}); err != nil {
		logger.Log.Error("error executing template", "template", name, "error", err)
		http.Error(w, "Internal Server Error rendering template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}
