package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/iksnae/jonsai/internal"
	"github.com/iksnae/jonsai/internal/export"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// maxRequestBytes bounds JSON request bodies
const maxRequestBytes = 1 << 20

var (
	markdown  = goldmark.New()
	sanitizer = bluemonday.UGCPolicy()
)

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is returned by POST /api/chat
type ChatResponse struct {
	Kind      string           `json:"kind"`
	Reply     internal.Message `json:"reply"`
	ErrorKind string           `json:"error_kind,omitempty"`
}

// ImageRequest is the body of POST /api/image
type ImageRequest struct {
	Prompt string `json:"prompt"`
}

// ImageResponse is returned by POST /api/image
type ImageResponse struct {
	*internal.ImageResult
	ErrorKind string `json:"error_kind,omitempty"`
}

type chatLine struct {
	Role internal.Role
	Body template.HTML
}

type chatPage struct {
	Messages []chatLine
}

type imagePage struct {
	Prompt string
	Result *internal.ImageResult
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, "home.html", nil)
}

func (s *Server) handleChatPage(w http.ResponseWriter, r *http.Request) {
	set := s.screens(w, r)

	messages := set.Chat.Messages()
	page := chatPage{Messages: make([]chatLine, 0, len(messages))}
	for _, msg := range messages {
		page.Messages = append(page.Messages, chatLine{Role: msg.Role, Body: renderMessage(msg)})
	}
	s.render(w, "chat.html", page)
}

func (s *Server) handleChatForm(w http.ResponseWriter, r *http.Request) {
	set := s.screens(w, r)

	if _, err := set.Chat.Submit(r.Context(), r.FormValue("message")); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	http.Redirect(w, r, "/chat", http.StatusSeeOther)
}

func (s *Server) handleImagePage(w http.ResponseWriter, r *http.Request) {
	set := s.screens(w, r)

	page := imagePage{Result: set.Images.Last()}
	if page.Result != nil {
		page.Prompt = page.Result.Prompt
	}
	s.render(w, "image.html", page)
}

func (s *Server) handleImageForm(w http.ResponseWriter, r *http.Request) {
	set := s.screens(w, r)

	prompt := r.FormValue("prompt")
	page := imagePage{Prompt: prompt, Result: set.Images.Generate(r.Context(), prompt)}
	s.render(w, "image.html", page)
}

func (s *Server) handleChatSubmit(w http.ResponseWriter, r *http.Request) {
	set := s.screens(w, r)

	var req ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := set.Chat.Submit(r.Context(), req.Message)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if result == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Kind:      result.Kind.String(),
		Reply:     result.Reply,
		ErrorKind: internal.ErrorKind(result.Err),
	})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	set := s.screens(w, r)

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	exporter, err := export.NewExporter(format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := exporter.Export(set.Chat.Session(), &buf); err != nil {
		internal.LogError("Failed to export history: %v", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", exporter.ContentType())
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleChatReset(w http.ResponseWriter, r *http.Request) {
	set := s.screens(w, r)

	if err := set.Chat.Reset(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleImageGenerate(w http.ResponseWriter, r *http.Request) {
	set := s.screens(w, r)

	var req ImageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result := set.Images.Generate(r.Context(), req.Prompt)
	if result == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, ImageResponse{ImageResult: result, ErrorKind: internal.ErrorKind(result.Err)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "healthy",
		"sessions": s.registry.Len(),
	})
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		internal.LogError("Failed to render %s: %v", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// renderMessage turns assistant Markdown into sanitized HTML. User input is escaped.
func renderMessage(msg internal.Message) template.HTML {
	if msg.IsUser() {
		return template.HTML(template.HTMLEscapeString(msg.Content))
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(msg.Content), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(msg.Content))
	}
	return template.HTML(strings.TrimSpace(sanitizer.Sanitize(buf.String())))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		internal.LogDebug("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
