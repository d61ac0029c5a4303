package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/ZacxDev/layout-composer/internal/config"
	"github.com/ZacxDev/layout-composer/internal/editor"
	"github.com/ZacxDev/layout-composer/internal/export"
	"github.com/ZacxDev/layout-composer/internal/ffmpeg"
	"github.com/ZacxDev/layout-composer/internal/geometry"
	"github.com/ZacxDev/layout-composer/internal/layout"
	"github.com/ZacxDev/layout-composer/internal/platform"
	"github.com/ZacxDev/layout-composer/internal/preview"
	"github.com/ZacxDev/layout-composer/internal/template"
)

const maxBodySize = 1 << 20

type createRequest struct {
	Layout   *layout.Document `json:"layout"`
	Platform string           `json:"platform"`
}

type platformInfo struct {
	Name        string  `json:"name"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	MaxDuration int     `json:"maxDuration"`
	Codec       string  `json:"codec"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrSessionClosed) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	s.logger.Warn("session request failed", "error", err)
	writeError(w, http.StatusServiceUnavailable, "session unavailable")
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sess, ok := s.sessions.Get(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
	}
	return sess, ok
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	names := platform.GetSupportedPlatforms()
	out := make([]platformInfo, 0, len(names))
	for _, name := range names {
		p, err := platform.Get(name)
		if err != nil {
			continue
		}
		c := p.GetCanvas()
		out = append(out, platformInfo{
			Name:        name,
			Width:       c.Width,
			Height:      c.Height,
			MaxDuration: p.GetMaxDuration(),
			Codec:       p.GetCodecPreset(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state := s.editor.Initial()
	if req.Layout != nil {
		st, err := req.Layout.State()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		state = s.editor.Normalize(st)
	}
	if req.Platform != "" {
		p, err := platform.Get(req.Platform)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		state = s.editor.ApplyPlatform(state, p)
	}

	clip := export.NewClipboard(s.cfg.CopiedReset, s.clipboardOpts...)
	sess := newSession(s.editor, clip, state, s.logger)
	s.sessions.Add(sess)
	s.logger.Info("session created", "session", sess.ID, "layers", len(state.Layers))

	snap, err := sess.Snapshot(r.Context())
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	snap, err := sess.Snapshot(r.Context())
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.sessions.Delete(id) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	s.logger.Info("session deleted", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

// decodeActions accepts a single action, a list of actions, or an
// {"actions": [...]} object.
func decodeActions(data []byte) ([]editor.Action, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty body")
	}
	if data[0] == '[' {
		var list []editor.Action
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, errors.Wrap(err, "invalid action list")
		}
		return list, nil
	}

	var a editor.Action
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, errors.Wrap(err, "invalid action")
	}
	if a.Type != "" {
		return []editor.Action{a}, nil
	}
	return layout.UnmarshalScript(data, layout.FormatJSON)
}

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	actions, err := decodeActions(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := sess.Apply(r.Context(), actions)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	cmd, err := sess.Command(r.Context())
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, cmd)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	cmd, err := sess.Command(r.Context())
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	if cmd == ffmpeg.NoLayersMessage {
		writeError(w, http.StatusConflict, "no visible layers to export")
		return
	}

	name := export.ScriptName(r.URL.Query().Get("name"))
	w.Header().Set("Content-Type", "text/x-shellscript")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	io.WriteString(w, cmd)
}

func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	snap, err := sess.Copy(r.Context())
	if err != nil {
		if errors.Is(err, ErrSessionClosed) || errors.Is(err, context.Canceled) {
			s.writeSessionError(w, err)
			return
		}
		s.logger.Error("copy failed", "session", sess.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to copy command")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleUploadTemplate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large (max 10MB)")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	img, meta, err := template.DecodeImage(file, filepath.Base(header.Filename))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := sess.SetTemplate(r.Context(), img, meta)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.logger.Info("template loaded", "session", sess.ID, "name", meta.Name, "size", meta.Size)
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleClearTemplate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	snap, err := sess.ClearTemplate(r.Context())
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	scale := config.DefaultPreviewScale
	if raw := r.URL.Query().Get("scale"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 || v > 4 {
			writeError(w, http.StatusBadRequest, "scale must be in (0, 4]")
			return
		}
		scale = v
	}

	st, tmpl, err := sess.View(r.Context())
	if err != nil {
		s.writeSessionError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := preview.New(s.editor.Measurer(), scale).WritePNG(&buf, st, tmpl); err != nil {
		s.logger.Error("preview failed", "session", sess.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render preview")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

func (s *Server) handleCursor(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		writeError(w, http.StatusBadRequest, "x and y must be numbers")
		return
	}

	cursor, err := sess.Cursor(r.Context(), geometry.Point{X: x, Y: y})
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"cursor": cursor})
}
