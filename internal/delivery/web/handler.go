package web

import (
	"embed"
	"fmt"
	"html"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"thinqor-ats/internal/console"
	"thinqor-ats/internal/delivery/http/middleware"
	"thinqor-ats/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	SessionCookieName = "ats_console"
	maxResumeBytes    = 5 << 20
	sessionMaxAge     = 12 * time.Hour
)

type Options struct {
	// TrustReferrer lets ?recruiterId= override the signed-in user as created_by.
	TrustReferrer bool
	// SecureCookies marks session cookies Secure.
	SecureCookies bool
}

type Handler struct {
	workspaces *WorkspaceStore
	opts       Options
}

// Templates parses the embedded console pages.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))
}

// NewHandler registers the console pages on r. r must already run OptionalAuth and CSRFMiddleware.
func NewHandler(r *gin.Engine, workspaces *WorkspaceStore, opts Options) {
	h := &Handler{workspaces: workspaces, opts: opts}

	r.SetHTMLTemplate(Templates())

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/candidates") })
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/settings", h.Settings)
	r.GET("/recruiter-dashboard", h.RecruiterDashboard)

	candidates := r.Group("/candidates")
	{
		candidates.GET("", h.ShowCandidates)
		candidates.POST("", h.SubmitCandidate)
		candidates.POST("/clear", h.ClearForm)
		candidates.POST("/:id/edit", h.EditCandidate)
		candidates.GET("/:id/delete", h.ConfirmDelete)
		candidates.POST("/:id/delete", h.DeleteCandidate)
	}
}

type pageData struct {
	Title       string
	CSRFToken   string
	Actor       *console.Actor
	Status      *console.Status
	Redirect    template.HTMLAttr
	From        string
	RecruiterID string
	// QuerySuffix carries from and recruiterId into links, "" or "?...".
	QuerySuffix string
}

type candidatesPage struct {
	pageData
	Editing   bool
	EditingID int64
	Fields    console.Fields
	Rows      []console.Row
	EmptyText string
}

type confirmPage struct {
	pageData
	ID     int64
	Name   string
	Prompt string
}

// ShowCandidates renders the status line, the form and the directory.
func (h *Handler) ShowCandidates(c *gin.Context) {
	ws := h.workspace(c)
	sess := h.session(c)

	if ws.NeedsRefresh(sess.Actor) {
		if err := ws.Directory.Refresh(c.Request.Context(), sess.Actor); err != nil {
			logger.Log.Warn("Candidate list unavailable", "request_id", c.GetString("RequestID"), "error", err)
		}
	}

	page := candidatesPage{
		pageData:  h.page(c, ws, sess, "Candidates"),
		Fields:    ws.Form.Fields(),
		Rows:      ws.Directory.Rows(),
		EmptyText: console.MsgNoCandidates,
	}
	page.EditingID, page.Editing = ws.Form.Mode().Editing()

	c.HTML(http.StatusOK, "candidates.html", page)
}

// SubmitCandidate copies the posted form into the workspace and submits it.
func (h *Handler) SubmitCandidate(c *gin.Context) {
	ws := h.workspace(c)
	sess := h.session(c)

	for _, name := range console.FieldNames {
		if err := ws.Form.UpdateField(name, c.PostForm(name)); err != nil {
			logger.Log.Error("Form field rejected", "field", name, "error", err)
		}
	}

	attachment, problem := readAttachment(c)
	if problem != "" {
		ws.Status.SetStatus(console.Failure(problem))
		h.redirectBack(c, sess)
		return
	}
	ws.Form.SetAttachment(attachment)

	if err := ws.Form.Submit(c.Request.Context(), sess); err != nil {
		logger.Log.Info("Candidate submit did not succeed", "request_id", c.GetString("RequestID"), "error", err)
	}
	h.redirectBack(c, sess)
}

func (h *Handler) ClearForm(c *gin.Context) {
	h.workspace(c).Form.Clear()
	h.redirectBack(c, h.session(c))
}

func (h *Handler) EditCandidate(c *gin.Context) {
	ws := h.workspace(c)
	if id, ok := pathID(c); ok {
		if candidate, found := ws.Directory.Find(id); found {
			ws.Directory.RequestEdit(candidate)
		} else {
			ws.Status.SetStatus(console.Failure("Candidate not found"))
		}
	}
	h.redirectBack(c, h.session(c))
}

// ConfirmDelete is the confirmation step in front of a delete.
func (h *Handler) ConfirmDelete(c *gin.Context) {
	ws := h.workspace(c)
	sess := h.session(c)

	id, ok := pathID(c)
	if !ok {
		h.redirectBack(c, sess)
		return
	}
	candidate, _ := ws.Directory.Find(id)

	c.HTML(http.StatusOK, "confirm_delete.html", confirmPage{
		pageData: h.page(c, ws, sess, "Delete candidate"),
		ID:       id,
		Name:     candidate.Name,
		Prompt:   console.MsgDeletePrompt,
	})
}

func (h *Handler) DeleteCandidate(c *gin.Context) {
	ws := h.workspace(c)
	sess := h.session(c)

	if id, ok := pathID(c); ok {
		confirmed := c.PostForm("confirm") == "yes"
		confirm := console.ConfirmFunc(func(string) bool { return confirmed })
		if err := ws.Directory.RequestDelete(c.Request.Context(), id, confirm, sess.Actor); err != nil {
			logger.Log.Info("Candidate delete did not succeed", "id", id, "error", err)
		}
	}
	h.redirectBack(c, sess)
}

func (h *Handler) RecruiterDashboard(c *gin.Context) {
	ws := h.workspace(c)
	sess := h.session(c)

	page := h.page(c, ws, sess, "Recruiter dashboard")
	q := url.Values{"from": {console.RecruiterDashboardPath}}
	if sess.Actor != nil {
		q.Set("recruiterId", strconv.FormatInt(sess.Actor.ID, 10))
	}
	page.QuerySuffix = "?" + q.Encode()

	c.HTML(http.StatusOK, "dashboard.html", page)
}

func (h *Handler) Settings(c *gin.Context) {
	ws := h.workspace(c)
	page := h.page(c, ws, h.session(c), "Settings")
	page.Status = &console.Status{Kind: console.StatusInfo, Text: console.MsgSettingsPending}
	c.HTML(http.StatusOK, "settings.html", page)
}

func (h *Handler) page(c *gin.Context, ws *console.Workspace, sess console.Session, title string) pageData {
	p := pageData{
		Title:     title,
		CSRFToken: middleware.CSRFToken(c),
		Actor:     sess.Actor,
		From:      sess.From,
	}
	if sess.ReferrerID != nil {
		p.RecruiterID = strconv.FormatInt(*sess.ReferrerID, 10)
	}
	p.QuerySuffix = contextQuery(sess)
	if status, ok := ws.Status.Current(); ok {
		p.Status = &status
	}
	if nav, ok := ws.Nav.Take(); ok {
		p.Redirect = refreshAttr(nav)
	}
	return p
}

// workspace returns the workspace bound to the session cookie, issuing a cookie on first visit.
func (h *Handler) workspace(c *gin.Context) *console.Workspace {
	id, err := c.Cookie(SessionCookieName)
	if err != nil || uuid.Validate(id) != nil {
		id = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookieName, id, int(sessionMaxAge.Seconds()), "/", "", h.opts.SecureCookies, true)
	}
	return h.workspaces.Get(id)
}

func (h *Handler) session(c *gin.Context) console.Session {
	sess := console.Session{
		From:          param(c, "from"),
		TrustReferrer: h.opts.TrustReferrer,
	}
	if id, role, ok := middleware.CurrentUser(c); ok {
		sess.Actor = &console.Actor{ID: id, Role: role}
	}
	if raw := param(c, "recruiterId"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			sess.ReferrerID = &id
		}
	}
	return sess
}

// redirectBack returns to the candidates page keeping the navigation context.
func (h *Handler) redirectBack(c *gin.Context, sess console.Session) {
	c.Redirect(http.StatusSeeOther, "/candidates"+contextQuery(sess))
}

func contextQuery(sess console.Session) string {
	q := url.Values{}
	if sess.From != "" {
		q.Set("from", sess.From)
	}
	if sess.ReferrerID != nil {
		q.Set("recruiterId", strconv.FormatInt(*sess.ReferrerID, 10))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// readAttachment returns the uploaded resume, or a message for the status line when it cannot
// be used. No file means no attachment change.
func readAttachment(c *gin.Context) (*console.Attachment, string) {
	header, err := c.FormFile("resume")
	if err != nil {
		return nil, ""
	}
	if header.Size > maxResumeBytes {
		return nil, fmt.Sprintf("Resume must be at most %d MB", maxResumeBytes>>20)
	}
	f, err := header.Open()
	if err != nil {
		return nil, "Could not read resume"
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxResumeBytes+1))
	if err != nil || len(data) > maxResumeBytes {
		return nil, "Could not read resume"
	}
	if len(data) == 0 {
		return nil, ""
	}
	return &console.Attachment{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, ""
}

// refreshAttr renders a scheduled navigation as a meta refresh content attribute.
func refreshAttr(nav console.Navigation) template.HTMLAttr {
	seconds := strconv.FormatFloat(nav.Delay.Seconds(), 'f', -1, 64)
	return template.HTMLAttr(fmt.Sprintf(`content="%s;url=%s"`, seconds, html.EscapeString(nav.To)))
}

func param(c *gin.Context, name string) string {
	if v := strings.TrimSpace(c.PostForm(name)); v != "" {
		return v
	}
	return strings.TrimSpace(c.Query(name))
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}
