package controller

import (
	"ai-notecapture-be/internal/mapper"
	"ai-notecapture-be/internal/pkg/serverutils"
	"ai-notecapture-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDiscoverController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	List(ctx *fiber.Ctx) error
}

type discoverController struct {
	captureService service.ICaptureService
	mapper         *mapper.NoteMapper
}

func NewDiscoverController(captureService service.ICaptureService) IDiscoverController {
	return &discoverController{
		captureService: captureService,
		mapper:         mapper.NewNoteMapper(),
	}
}

func (c *discoverController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/discover/v1")
	h.Use(auth)
	h.Get("", c.List)
}

func (c *discoverController) List(ctx *fiber.Ctx) error {
	items, err := c.captureService.DiscoverItems(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Discover items", c.mapper.ToDiscoverResponses(items)))
}
