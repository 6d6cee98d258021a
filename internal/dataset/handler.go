package dataset

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

// Summary is the API view of a stored dataset.
type Summary struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Items        []string   `json:"items"`
	Transactions int        `json:"transactions"`
	CreatedAt    time.Time  `json:"createdAt"`
	Validation   Validation `json:"validation"`
	Preview      [][]string `json:"preview,omitempty"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// NewSummary builds the API view of d, including the first preview rows.
func NewSummary(d *Dataset, v Validation, preview int) Summary {
	return Summary{
		ID:           d.ID,
		Name:         d.Name,
		Items:        d.Items,
		Transactions: d.Len(),
		CreatedAt:    d.CreatedAt,
		Validation:   v,
		Preview:      d.Head(preview),
	}
}

func (h *Handler) RegisterRoutes(r fiber.Router) {
	r.Post("/datasets", h.upload)
	r.Get("/datasets/:id", h.getDataset)
	r.Delete("/datasets/:id", h.deleteDataset)
}

func (h *Handler) upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "file is required"})
	}
	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	defer f.Close()

	d, v, err := h.service.Upload(c.UserContext(), file.Filename, f)
	if err != nil {
		if IsInputError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(NewSummary(d, v, PreviewRows))
}

func (h *Handler) getDataset(c *fiber.Ctx) error {
	d, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return notFoundOr500(c, err)
	}
	return c.JSON(NewSummary(d, Validate(d), PreviewRows))
}

func (h *Handler) deleteDataset(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return notFoundOr500(c, err)
	}
	return c.JSON(fiber.Map{"message": "Dataset deleted"})
}

func notFoundOr500(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Dataset not found"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
}
