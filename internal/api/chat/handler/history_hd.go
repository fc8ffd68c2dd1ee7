package chatHandler

import (
	"MinelawChatbot/internal/api/chat"
	contextPkg "MinelawChatbot/pkg/context"
	"MinelawChatbot/pkg/handlerUtil"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *ChatHandler) HandleSaveChat(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req chat.SaveChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.chatService.History().SaveChat(c, req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "save_chat")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, fiber.Map{"success": true})
	}
}

func (h *ChatHandler) HandleGetChatHistory(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	email := ctx.Query("email")
	if email == "" {
		return errHandler.HandleValidationError(ctx, requestID, fiber.ErrBadRequest, ctx.Path())
	}

	res, err := h.chatService.History().GetHistory(c, email)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_chat_history")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}
