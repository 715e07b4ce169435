package controller

import (
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
)

type IEventController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
}

// eventController accepts external events pushed over HTTP by the account
// gateway's sync webhooks, which authenticate with a token minted for the
// owning user. With a bus connection events go through JetStream so a crash
// cannot drop them; without one they are evaluated inline.
type eventController struct {
	proactiveService service.IProactiveService
	natsPub          *nats.Publisher
}

func NewEventController(proactiveService service.IProactiveService, natsPub *nats.Publisher) IEventController {
	return &eventController{
		proactiveService: proactiveService,
		natsPub:          natsPub,
	}
}

func (c *eventController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/event/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Ingest)
}

func (c *eventController) Ingest(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.IngestEventRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	// The token decides whose rules can fire; the body's user_id is only
	// accepted when it matches the authenticated user.
	if req.UserId != userId {
		return serverutils.NewUnauthorizedError("Cannot ingest events for another user")
	}

	event := events.NewExternalEvent(req.EventType, req.UserId, req.Data)
	if req.OccurredAt != nil {
		event.OccurredAt = *req.OccurredAt
	}

	if c.natsPub != nil {
		if err := c.natsPub.Publish(ctx.Context(), event); err != nil {
			return serverutils.NewCollaboratorError("Could not queue the event", err)
		}
	} else {
		c.proactiveService.HandleEvent(ctx.Context(), event)
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Event accepted", &dto.IngestEventResponse{
		Accepted: true,
	}))
}
