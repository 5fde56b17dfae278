package controller

import (
	"synaptiq-be/internal/apperror"
	"synaptiq-be/internal/dto"
	"synaptiq-be/internal/pkg/serverutils"
	"synaptiq-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IMessageController interface {
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
}

type messageController struct {
	messageService service.IMessageService
}

func NewMessageController(messageService service.IMessageService) IMessageController {
	return &messageController{
		messageService: messageService,
	}
}

func (c *messageController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/message/v1")
	h.Post("", c.Send)
	h.Get("chat/:chatId", c.GetHistory)
}

func (c *messageController) Send(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.messageService.Send(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}

func (c *messageController) GetHistory(ctx *fiber.Ctx) error {
	chatId, err := uuid.Parse(ctx.Params("chatId"))
	if err != nil {
		return apperror.NewValidation("invalid chat id: %s", ctx.Params("chatId"))
	}

	res, err := c.messageService.GetHistory(ctx.Context(), chatId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}
