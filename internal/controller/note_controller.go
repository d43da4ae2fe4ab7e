package controller

import (
	"ai-notecapture-be/internal/dto"
	"ai-notecapture-be/internal/entity"
	"ai-notecapture-be/internal/mapper"
	"ai-notecapture-be/internal/pkg/serverutils"
	"ai-notecapture-be/internal/service"
	"ai-notecapture-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Related(ctx *fiber.Ctx) error
	SyncCalendar(ctx *fiber.Ctx) error
}

type noteController struct {
	captureService service.ICaptureService
	mapper         *mapper.NoteMapper
}

func NewNoteController(captureService service.ICaptureService) INoteController {
	return &noteController{
		captureService: captureService,
		mapper:         mapper.NewNoteMapper(),
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/note/v1")
	h.Use(auth)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	h.Get(":id/related", c.Related)
	h.Post(":id/calendar", c.SyncCalendar)
}

// List searches when q is present; an empty or blank q lists everything.
func (c *noteController) List(ctx *fiber.Ctx) error {
	var (
		notes []*entity.Note
		err   error
	)
	if q := ctx.Query("q"); q != "" {
		notes, err = c.captureService.SearchNotes(ctx.UserContext(), q)
	} else {
		notes, err = c.captureService.ListNotes(ctx.UserContext())
	}
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Notes", c.mapper.ToResponses(notes)))
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	note, err := c.captureService.GetNote(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Note detail", c.mapper.ToResponse(note)))
}

func (c *noteController) Update(ctx *fiber.Ctx) error {
	var req dto.UpdateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return &apperror.ValidationError{Field: "body", Message: "invalid JSON"}
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	note, err := c.captureService.UpdateNote(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update note", c.mapper.ToResponse(note)))
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	if err := c.captureService.DeleteNote(ctx.UserContext(), ctx.Params("id")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete note", nil))
}

func (c *noteController) Related(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	notes, err := c.captureService.RelatedNotes(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Related notes", &dto.RelatedNotesResponse{
		NoteId: id,
		Notes:  c.mapper.ToResponses(notes),
	}))
}

func (c *noteController) SyncCalendar(ctx *fiber.Ctx) error {
	note, err := c.captureService.SyncNoteToCalendar(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Note synced to calendar", &dto.CalendarSyncResponse{
		NoteId:  note.Id,
		EventId: note.CalendarEventId,
	}))
}
