package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/muurk/coachsite/internal/booking"
	"github.com/muurk/coachsite/internal/lifecycle"
	"github.com/muurk/coachsite/internal/logging"
	"github.com/muurk/coachsite/internal/urls"
)

// formView is the booking form as rendered by book.html.
type formView struct {
	SessionID  string
	DialogMode bool
	Fields     []fieldView
	State      lifecycle.State
	Overlay    bool
	// Remaining is how long the overlay stays up, for clients without scripts.
	Remaining    time.Duration
	SubmitDelay  time.Duration
	SuccessDelay time.Duration
}

type fieldView struct {
	Name         string
	Label        string
	Value        string
	Error        string
	AutoComplete string
	Required     bool
	Select       bool
	Disabled     bool
	Rows         int
	Choices      []string
}

type fieldChange struct {
	Field string `form:"field" json:"field" binding:"required"`
	Value string `form:"value" json:"value"`
}

type fieldResult struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

type stateResult struct {
	Session string          `json:"session"`
	State   lifecycle.State `json:"state"`
	Overlay bool            `json:"overlay"`
}

type submitResult struct {
	Session string                   `json:"session"`
	State   lifecycle.State          `json:"state"`
	Inquiry string                   `json:"inquiry,omitempty"`
	Errors  booking.ValidationErrors `json:"errors,omitempty"`
}

func (s *Server) newFormView(sess *booking.Session, dialog bool) formView {
	state := sess.State()
	submit, success := sess.Lifecycle.Delays()
	view := formView{
		SessionID:    sess.ID,
		DialogMode:   dialog,
		State:        state,
		Overlay:      state.Overlay(),
		SubmitDelay:  submit,
		SuccessDelay: success,
	}

	switch state {
	case lifecycle.Submitting:
		view.Remaining = submit + success - sess.Lifecycle.Since()
	case lifecycle.Succeeded:
		view.Remaining = success - sess.Lifecycle.Since()
	}

	for _, b := range sess.Form.Bindings() {
		spec := b.Spec()
		view.Fields = append(view.Fields, fieldView{
			Name:         string(spec.Field),
			Label:        spec.Label,
			Value:        b.Value(),
			Error:        b.Error(),
			AutoComplete: spec.AutoComplete,
			Required:     spec.Required,
			Select:       spec.Select,
			Disabled:     b.Disabled(),
			Rows:         spec.Rows,
			Choices:      b.Choices(),
		})
	}
	return view
}

func (s *Server) renderForm(c *gin.Context, status int, sess *booking.Session, dialog bool) {
	path := urls.Book
	if dialog {
		path = urls.Inquiry
	}
	s.render(c, status, path, gin.H{"Form": s.newFormView(sess, dialog)})
}

// session looks up the :id session, writing 404 when it is gone.
func (s *Server) session(c *gin.Context) (*booking.Session, bool) {
	sess, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		s.sessionGone(c)
		return nil, false
	}
	return sess, true
}

func (s *Server) sessionGone(c *gin.Context) {
	if wantsJSON(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": booking.ErrSessionNotFound.Error()})
		return
	}
	s.render(c, http.StatusNotFound, c.Request.URL.Path, nil)
}

func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

// handleBookOpen mounts a new booking form. ?service= preselects and locks
// the service chooser.
func (s *Server) handleBookOpen(c *gin.Context) {
	sess := s.sessions.Open(c.Query(urls.ServiceParam))
	s.renderForm(c, http.StatusOK, sess, false)
}

func (s *Server) handleInquiry(c *gin.Context) {
	sess := s.sessions.Open(c.Query(urls.ServiceParam))
	s.renderForm(c, http.StatusOK, sess, true)
}

func (s *Server) handleBookView(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	s.renderForm(c, http.StatusOK, sess, c.Query("dialog") == "1")
}

// handleBookField is the change handler of one bound input. The value is
// stored whatever it is; the response carries the validity flag. Changes are
// refused while the overlay is up.
func (s *Server) handleBookField(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	var change fieldChange
	if err := c.ShouldBind(&change); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := sess.Change(booking.Field(change.Field), change.Value)
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, lifecycle.ErrBusy):
			status = http.StatusConflict
		case errors.Is(err, lifecycle.ErrClosed):
			status = http.StatusGone
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	logging.Debug("Booking field changed",
		zap.String("session", sess.ID),
		zap.String("field", change.Field),
	)

	c.JSON(http.StatusOK, fieldResult{
		Field: change.Field,
		Value: b.Value(),
		Valid: b.Valid(),
		Error: b.Error(),
	})
}

// handleBookSubmit fills the form from the post and submits it.
func (s *Server) handleBookSubmit(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	dialog := c.PostForm("dialog") == "1"

	var values booking.Values
	if err := c.ShouldBind(&values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	inq, err := sess.SubmitValues(c.Request.Context(), values)

	var verrs booking.ValidationErrors
	status := http.StatusOK
	switch {
	case err == nil:
	case errors.As(err, &verrs):
	case errors.Is(err, lifecycle.ErrBusy):
		status = http.StatusConflict
	case errors.Is(err, lifecycle.ErrClosed):
		status = http.StatusGone
	default:
		logging.Error("Booking submit failed", zap.String("session", sess.ID), zap.Error(err))
		status = http.StatusInternalServerError
	}

	if wantsJSON(c) {
		res := submitResult{Session: sess.ID, State: sess.State(), Errors: verrs}
		if err == nil {
			res.Inquiry = inq.ID.String()
		}
		c.JSON(status, res)
		return
	}
	s.renderForm(c, status, sess, dialog)
}

func (s *Server) handleBookState(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	state := sess.State()
	c.JSON(http.StatusOK, stateResult{Session: sess.ID, State: state, Overlay: state.Overlay()})
}

// handleBookClose tears the form down, cancelling pending lifecycle timers.
func (s *Server) handleBookClose(c *gin.Context) {
	if err := s.sessions.Close(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
