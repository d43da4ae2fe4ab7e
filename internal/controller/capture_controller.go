package controller

import (
	"ai-notecapture-be/internal/dto"
	"ai-notecapture-be/internal/mapper"
	"ai-notecapture-be/internal/pkg/serverutils"
	"ai-notecapture-be/internal/service"
	"ai-notecapture-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

const audioFormField = "audio"

type ICaptureController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	CaptureText(ctx *fiber.Ctx) error
	CaptureVoice(ctx *fiber.Ctx) error
	Transcribe(ctx *fiber.Ctx) error
}

type captureController struct {
	captureService service.ICaptureService
	mapper         *mapper.NoteMapper
}

func NewCaptureController(captureService service.ICaptureService) ICaptureController {
	return &captureController{
		captureService: captureService,
		mapper:         mapper.NewNoteMapper(),
	}
}

func (c *captureController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/capture/v1")
	h.Use(auth)
	h.Post("text", c.CaptureText)
	h.Post("voice", c.CaptureVoice)
	h.Post("transcribe", c.Transcribe)
}

func (c *captureController) CaptureText(ctx *fiber.Ctx) error {
	var req dto.CaptureTextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return &apperror.ValidationError{Field: "body", Message: "invalid JSON"}
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	note, err := c.captureService.CaptureText(ctx.UserContext(), req.Text)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Note captured", &dto.CaptureResponse{
		Note:           c.mapper.ToResponse(note),
		CalendarSynced: note.CalendarEventId != "",
	}))
}

func (c *captureController) CaptureVoice(ctx *fiber.Ctx) error {
	fh, err := ctx.FormFile(audioFormField)
	if err != nil {
		return &apperror.ValidationError{Field: audioFormField, Message: "audio file is required"}
	}
	file, err := fh.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	note, err := c.captureService.CaptureVoice(ctx.UserContext(), file, fh.Filename)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Voice note captured", &dto.CaptureResponse{
		Note:           c.mapper.ToResponse(note),
		CalendarSynced: note.CalendarEventId != "",
	}))
}

func (c *captureController) Transcribe(ctx *fiber.Ctx) error {
	fh, err := ctx.FormFile(audioFormField)
	if err != nil {
		return &apperror.ValidationError{Field: audioFormField, Message: "audio file is required"}
	}
	file, err := fh.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	res, err := c.captureService.Transcribe(ctx.UserContext(), file, fh.Filename)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Audio transcribed", &dto.TranscriptionResponse{
		Text:     res.Text,
		Duration: res.Duration,
	}))
}
