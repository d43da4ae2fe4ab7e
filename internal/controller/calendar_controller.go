package controller

import (
	"ai-notecapture-be/internal/dto"
	"ai-notecapture-be/internal/mapper"
	"ai-notecapture-be/internal/pkg/serverutils"
	"ai-notecapture-be/internal/service"
	"ai-notecapture-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

type ICalendarController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Status(ctx *fiber.Ctx) error
	Connect(ctx *fiber.Ctx) error
	Disconnect(ctx *fiber.Ctx) error
	Events(ctx *fiber.Ctx) error
}

type calendarController struct {
	calendarService service.ICalendarService
	mapper          *mapper.NoteMapper
}

func NewCalendarController(calendarService service.ICalendarService) ICalendarController {
	return &calendarController{
		calendarService: calendarService,
		mapper:          mapper.NewNoteMapper(),
	}
}

func (c *calendarController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/calendar/v1")
	h.Use(auth)
	h.Get("status", c.Status)
	h.Post("connect", c.Connect)
	h.Post("disconnect", c.Disconnect)
	h.Get("events", c.Events)
}

func (c *calendarController) Status(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Calendar status", c.calendarService.Status(ctx.UserContext())))
}

func (c *calendarController) Connect(ctx *fiber.Ctx) error {
	var req dto.CalendarConnectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return &apperror.ValidationError{Field: "body", Message: "invalid JSON"}
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.calendarService.Connect(ctx.UserContext(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Calendar connected", c.calendarService.Status(ctx.UserContext())))
}

func (c *calendarController) Disconnect(ctx *fiber.Ctx) error {
	if err := c.calendarService.Disconnect(ctx.UserContext()); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Calendar disconnected", c.calendarService.Status(ctx.UserContext())))
}

func (c *calendarController) Events(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("max", 10)
	events, err := c.calendarService.ListEvents(ctx.UserContext(), limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Upcoming events", c.mapper.ToCalendarEventResponses(events)))
}
