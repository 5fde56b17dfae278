package controller

import (
	"synaptiq-be/internal/apperror"
	"synaptiq-be/internal/dto"
	"synaptiq-be/internal/pkg/serverutils"
	"synaptiq-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IFileController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Download(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type fileController struct {
	fileService service.IFileService
}

func NewFileController(fileService service.IFileService) IFileController {
	return &fileController{
		fileService: fileService,
	}
}

func (c *fileController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/file/v1")
	h.Post("", c.Upload)
	h.Get("", c.GetAll)
	h.Get(":id/download", c.Download)
	h.Delete(":id", c.Delete)
}

func (c *fileController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return apperror.NewValidation("multipart field 'file' is required")
	}

	res, err := c.fileService.Upload(ctx.Context(), fileHeader)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload file", res))
}

func (c *fileController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.fileService.GetAll(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get files", res))
}

func (c *fileController) Download(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.NewValidation("invalid file id: %s", ctx.Params("id"))
	}

	file, path, err := c.fileService.Resolve(ctx.Context(), id)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.OriginalName+`"`)
	return ctx.SendFile(path)
}

func (c *fileController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.NewValidation("invalid file id: %s", ctx.Params("id"))
	}

	if err := c.fileService.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete file", dto.DeleteFileResponse{Id: id}))
}
