package server

import (
	"errors"
	"fmt"
	"net/http"

	"turtle/export"
	"turtle/history"
	"turtle/script"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var (
	errBadRequest    = errors.New("invalid request body")
	errUnknownFormat = errors.New("unknown export format")
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// SessionResponse describes a session and its current canvas.
type SessionResponse struct {
	ID          string          `json:"id"`
	Step        int             `json:"step"`
	Total       int             `json:"total"`
	HasPrevious bool            `json:"has_previous"`
	HasNext     bool            `json:"has_next"`
	Program     []string        `json:"program"`
	Applied     []string        `json:"applied"`
	Canvas      export.Document `json:"canvas"`
}

// InstructionRequest is the body of POST /sessions/:id/instructions.
type InstructionRequest struct {
	Instruction string `json:"instruction" binding:"required"`
}

// ProgramRequest is the body of POST /sessions and /sessions/:id/program.
type ProgramRequest struct {
	Program string `json:"program"`
}

func describe(e *entry) SessionResponse {
	step, total := e.session.Stats()
	program := e.session.Instructions()
	applied := e.session.Applied()
	if program == nil {
		program = []string{}
	}
	if applied == nil {
		applied = []string{}
	}
	return SessionResponse{
		ID:          e.id,
		Step:        step,
		Total:       total,
		HasPrevious: e.session.HasPrevious(),
		HasNext:     e.session.HasNext(),
		Program:     program,
		Applied:     applied,
		Canvas:      export.NewDocument(e.session.Current()),
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.registry.len()})
}

func (s *Server) handleCreate(c *gin.Context) {
	var req ProgramRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
	}
	program, err := script.Split(req.Program)
	if err != nil {
		s.fail(c, err)
		return
	}
	start, err := s.newCanvas()
	if err != nil {
		s.fail(c, err)
		return
	}

	e, err := s.registry.add(func(h *hub) *history.Session { return s.newSession(h, start) })
	if err != nil {
		s.fail(c, err)
		return
	}
	e.session.Load(program)
	s.metrics.sessionsActive.Inc()
	s.logger.Info("session created", "session", e.id, "instructions", len(program))
	c.JSON(http.StatusCreated, describe(e))
}

func (s *Server) handleGet(c *gin.Context) {
	e, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, describe(e))
}

func (s *Server) handleDelete(c *gin.Context) {
	if err := s.registry.remove(c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	s.metrics.sessionsActive.Dec()
	s.logger.Info("session deleted", "session", c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleExecute(c *gin.Context) {
	e, ok := s.lookup(c)
	if !ok {
		return
	}
	var req InstructionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	_, err := e.session.Execute(req.Instruction)
	s.metrics.observe(req.Instruction, err)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, describe(e))
}

func (s *Server) handleProgram(c *gin.Context) {
	e, ok := s.lookup(c)
	if !ok {
		return
	}
	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	program, err := script.Split(req.Program)
	if err != nil {
		s.fail(c, err)
		return
	}
	e.session.Load(program)
	c.JSON(http.StatusOK, describe(e))
}

// handleStep executes or redoes the next program instruction. A rejected
// instruction still consumes its step.
func (s *Server) handleStep(c *gin.Context) {
	e, ok := s.lookup(c)
	if !ok {
		return
	}
	redo := e.session.HasNext()
	_, err := e.session.Step()
	if !redo && !errors.Is(err, history.ErrProgramEnd) {
		if applied := e.session.Applied(); len(applied) > 0 {
			s.metrics.observe(applied[len(applied)-1], err)
		}
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, describe(e))
}

func (s *Server) handlePrevious(c *gin.Context) {
	e, ok := s.lookup(c)
	if !ok {
		return
	}
	if _, err := e.session.Previous(); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, describe(e))
}

func (s *Server) handleNext(c *gin.Context) {
	e, ok := s.lookup(c)
	if !ok {
		return
	}
	if _, err := e.session.Next(); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, describe(e))
}

func (s *Server) handleClear(c *gin.Context) {
	e, ok := s.lookup(c)
	if !ok {
		return
	}
	e.session.Clear()
	c.JSON(http.StatusOK, describe(e))
}

func (s *Server) handleExport(c *gin.Context) {
	e, ok := s.lookup(c)
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		s.fail(c, fmt.Errorf("%w: %v", errUnknownFormat, err))
		return
	}
	exp, err := export.NewExporter(format)
	if err != nil {
		s.fail(c, fmt.Errorf("%w: %v", errUnknownFormat, err))
		return
	}
	snapshot := e.session.Current()
	c.Header("Content-Type", export.ContentType(format))
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", e.id+exp.GetFileExtension()))
	c.Status(http.StatusOK)
	if err := exp.Export(c.Writer, snapshot); err != nil {
		s.logger.Error("export failed", "session", e.id, "format", format, "error", err)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleEvents streams the session's events as JSON messages until the
// client disconnects or the session is deleted.
func (s *Server) handleEvents(c *gin.Context) {
	e, ok := s.lookup(c)
	if !ok {
		return
	}
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("failed to upgrade the websocket", "error", err)
		return
	}
	defer ws.Close()

	ch, release := e.hub.subscribe(64)
	defer release()
	s.logger.Info("event stream opened", "session", e.id)

	// Reads only detect the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				_ = ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session deleted"))
				return
			}
			if err := ws.WriteJSON(ev); err != nil {
				s.logger.Warn("failed to write websocket event", "error", err)
				return
			}
		case <-gone:
			s.logger.Info("event stream closed", "session", e.id)
			return
		}
	}
}
