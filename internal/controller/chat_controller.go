package controller

import (
	"synaptiq-be/internal/apperror"
	"synaptiq-be/internal/dto"
	"synaptiq-be/internal/pkg/serverutils"
	"synaptiq-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("", c.Create)
	h.Get("", c.GetAll)
	h.Delete(":id", c.Delete)
}

func (c *chatController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create chat", res))
}

func (c *chatController) GetAll(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Query("session_id"))
	if err != nil {
		return apperror.NewValidation("invalid session_id query param: %s", ctx.Query("session_id"))
	}

	nodeId := ctx.QueryInt("node_id", 0)
	chatType := ctx.Query("type")

	res, err := c.chatService.GetAll(ctx.Context(), sessionId, nodeId, chatType)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chats", res))
}

func (c *chatController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.NewValidation("invalid chat id: %s", ctx.Params("id"))
	}

	if err := c.chatService.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete chat", dto.DeleteChatResponse{Id: id}))
}
