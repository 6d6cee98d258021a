package rule

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/assoc-rules/internal/dataset"
	"github.com/wichananm65/assoc-rules/internal/presenter"
)

type Handler struct {
	service *Service
}

type generateRequest struct {
	MinSupport    *float64 `json:"minSupport"`
	MinConfidence *float64 `json:"minConfidence"`
	MinLift       *float64 `json:"minLift"`
	MaxLen        *int     `json:"maxLen"`
}

func (r generateRequest) params() Params {
	p := DefaultParams()
	if r.MinSupport != nil {
		p.MinSupport = *r.MinSupport
	}
	if r.MinConfidence != nil {
		p.MinConfidence = *r.MinConfidence
	}
	if r.MinLift != nil {
		p.MinLift = *r.MinLift
	}
	if r.MaxLen != nil {
		p.MaxLen = *r.MaxLen
	}
	return p
}

// Response is the API view of a generation run.
type Response struct {
	Result
	Count   int                  `json:"count"`
	Empty   bool                 `json:"empty"`
	Message string               `json:"message"`
	Rules   []presenter.RuleView `json:"rules"`
	Table   *presenter.TableData `json:"table"`
	Charts  presenter.Charts     `json:"charts"`
	TopLift []presenter.RuleView `json:"topLift"`
}

// NewResponse shapes res for JSON clients.
func NewResponse(res Result) Response {
	return Response{
		Result:  res,
		Count:   len(res.Rules),
		Empty:   res.Empty(),
		Message: res.Message(),
		Rules:   presenter.ToViews(res.Rules),
		Table:   presenter.RulesTable(res.Rules),
		Charts:  presenter.BuildCharts(res.Rules),
		TopLift: presenter.ToViews(presenter.TopRulesByLift(res.Rules, presenter.TopN)),
	}
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r fiber.Router) {
	r.Get("/parameters", h.getParameters)
	r.Post("/datasets/:id/rules", h.generate)
}

func (h *Handler) getParameters(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"minSupport":    SupportRange,
		"minConfidence": ConfidenceRange,
		"minLift":       LiftRange,
	})
}

func (h *Handler) generate(c *fiber.Ctx) error {
	req := generateRequest{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
	}

	res, err := h.service.Generate(c.UserContext(), c.Params("id"), req.params())
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": verr.Fields})
		case errors.Is(err, dataset.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Dataset not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(NewResponse(res))
}
