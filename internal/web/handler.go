// Package web serves the interactive page: upload a transaction table, tune
// the thresholds and look at the mined rules. The uploaded dataset is bound
// to the browser session; rules are recomputed on every submit.
package web

import (
	"context"
	"embed"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"

	"github.com/wichananm65/assoc-rules/internal/dataset"
	"github.com/wichananm65/assoc-rules/internal/presenter"
	"github.com/wichananm65/assoc-rules/internal/rule"
)

const (
	Title       = "Bookstore Association Rules"
	MessageInfo = "Please upload a CSV file to proceed."
	CookieName  = "arules_session"

	sessionKey = "dataset_id"
)

//go:embed views
var views embed.FS

// NewViews returns the template engine for the embedded page templates.
func NewViews() *html.Engine {
	sub, err := fs.Sub(views, "views")
	if err != nil {
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}

// NewSessionStore keeps the dataset binding for ttl in a cookie named
// CookieName.
func NewSessionStore(ttl time.Duration) *session.Store {
	return session.New(session.Config{
		Expiration:     ttl,
		KeyLookup:      "cookie:" + CookieName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
}

// Datasets is the part of the dataset service the page needs.
type Datasets interface {
	Upload(ctx context.Context, name string, r io.Reader) (*dataset.Dataset, dataset.Validation, error)
	GetByID(ctx context.Context, id string) (*dataset.Dataset, error)
	Delete(ctx context.Context, id string) error
}

// Rules generates rules for a loaded dataset.
type Rules interface {
	GenerateFor(ctx context.Context, d *dataset.Dataset, p rule.Params) (rule.Result, error)
}

type Handler struct {
	datasets Datasets
	rules    Rules
	sessions *session.Store
}

func NewHandler(datasets Datasets, rules Rules, sessions *session.Store) *Handler {
	return &Handler{datasets: datasets, rules: rules, sessions: sessions}
}

func (h *Handler) RegisterRoutes(r fiber.Router) {
	r.Get("/", h.index)
	r.Post("/upload", h.upload)
	r.Post("/generate", h.generate)
	r.Post("/reset", h.reset)
}

type slider struct {
	Name  string
	Label string
	Min   float64
	Max   float64
	Step  float64
	Value float64
}

type resultView struct {
	Empty   bool
	Message string
	Table   *presenter.TableData
	Charts  presenter.Charts
}

type page struct {
	Title       string
	Info        string
	Error       string
	FieldErrors map[string]string
	Dataset     *dataset.Dataset
	Validation  *dataset.Validation
	Preview     *presenter.TableData
	Sliders     []slider
	Result      *resultView
}

func sliders(p rule.Params) []slider {
	s := func(name string, r rule.Range, v float64) slider {
		return slider{Name: name, Label: r.Label, Min: r.Min, Max: r.Max, Step: r.Step, Value: v}
	}
	return []slider{
		s("min_support", rule.SupportRange, p.MinSupport),
		s("min_confidence", rule.ConfidenceRange, p.MinConfidence),
		s("min_lift", rule.LiftRange, p.MinLift),
	}
}

func newPage(d *dataset.Dataset, p rule.Params) *page {
	pg := &page{Title: Title, Info: MessageInfo}
	if d == nil {
		return pg
	}
	v := dataset.Validate(d)
	pg.Dataset = d
	pg.Validation = &v
	pg.Preview = presenter.PreviewTable(d.Items, d.Head(dataset.PreviewRows))
	pg.Sliders = sliders(p)
	return pg
}

// current loads the dataset bound to the session, or nil when there is none.
// A binding to a dataset that no longer exists is dropped.
func (h *Handler) current(c *fiber.Ctx) (*dataset.Dataset, error) {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return nil, err
	}
	id, _ := sess.Get(sessionKey).(string)
	if id == "" {
		return nil, nil
	}
	d, err := h.datasets.GetByID(c.UserContext(), id)
	if errors.Is(err, dataset.ErrNotFound) {
		sess.Delete(sessionKey)
		return nil, sess.Save()
	}
	return d, err
}

func (h *Handler) index(c *fiber.Ctx) error {
	d, err := h.current(c)
	if err != nil {
		return err
	}
	return c.Render("index", newPage(d, rule.DefaultParams()))
}

func (h *Handler) upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		d, cerr := h.current(c)
		if cerr != nil {
			return cerr
		}
		return c.Render("index", newPage(d, rule.DefaultParams()))
	}
	f, err := file.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	d, _, err := h.datasets.Upload(c.UserContext(), file.Filename, f)
	if err != nil {
		if !dataset.IsInputError(err) {
			return err
		}
		prev, cerr := h.current(c)
		if cerr != nil {
			return cerr
		}
		pg := newPage(prev, rule.DefaultParams())
		pg.Error = err.Error()
		return c.Status(fiber.StatusBadRequest).Render("index", pg)
	}

	sess, err := h.sessions.Get(c)
	if err != nil {
		return err
	}
	if old, _ := sess.Get(sessionKey).(string); old != "" && old != d.ID {
		if err := h.datasets.Delete(c.UserContext(), old); err != nil && !errors.Is(err, dataset.ErrNotFound) {
			slog.WarnContext(c.UserContext(), "drop replaced dataset", "dataset_id", old, "error", err)
		}
	}
	sess.Set(sessionKey, d.ID)
	if err := sess.Save(); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *Handler) generate(c *fiber.Ctx) error {
	d, err := h.current(c)
	if err != nil {
		return err
	}
	p, fieldErrs := formParams(c)
	pg := newPage(d, p)
	if d == nil {
		return c.Render("index", pg)
	}
	if len(fieldErrs) > 0 {
		pg.FieldErrors = fieldErrs
		return c.Status(fiber.StatusBadRequest).Render("index", pg)
	}

	res, err := h.rules.GenerateFor(c.UserContext(), d, p)
	if err != nil {
		var verr *rule.ValidationError
		if errors.As(err, &verr) {
			pg.FieldErrors = verr.Fields
			return c.Status(fiber.StatusBadRequest).Render("index", pg)
		}
		return err
	}
	pg.Result = &resultView{
		Empty:   res.Empty(),
		Message: res.Message(),
		Table:   presenter.RulesTable(res.Rules),
		Charts:  presenter.BuildCharts(res.Rules),
	}
	return c.Render("index", pg)
}

func (h *Handler) reset(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return err
	}
	if id, _ := sess.Get(sessionKey).(string); id != "" {
		if err := h.datasets.Delete(c.UserContext(), id); err != nil && !errors.Is(err, dataset.ErrNotFound) {
			return err
		}
	}
	if err := sess.Destroy(); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// formParams reads the slider values; a missing field keeps its default.
func formParams(c *fiber.Ctx) (rule.Params, map[string]string) {
	p := rule.DefaultParams()
	errs := map[string]string{}
	read := func(field string, dst *float64) {
		raw := c.FormValue(field)
		if raw == "" {
			return
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs[field] = field + " must be a number"
			return
		}
		*dst = v
	}
	read("min_support", &p.MinSupport)
	read("min_confidence", &p.MinConfidence)
	read("min_lift", &p.MinLift)
	return p, errs
}
