package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	gocommand "github.com/goliatone/go-command"

	"github.com/kovon-io/go-insights/components/crm"
	"github.com/kovon-io/go-insights/components/dashboard"
	"github.com/kovon-io/go-insights/components/dashboard/commands"
	"github.com/kovon-io/go-insights/components/dashboard/queries"
	"github.com/kovon-io/go-insights/components/resume"
)

// ViewerResolver extracts the authenticated viewer from a request. Handlers
// reject requests the resolver leaves without a user id.
type ViewerResolver func(c *fiber.Ctx) dashboard.ViewerContext

// Handlers exposes the insights JSON API backed by shared commands and
// queries. Every field is required except where noted on the route.
type Handlers struct {
	Snapshot    gocommand.Querier[queries.SnapshotInput, queries.SnapshotView]
	Compose     gocommand.Querier[dashboard.ComposeRequest, []dashboard.ComposedCard]
	Preferences gocommand.Querier[dashboard.ViewerContext, dashboard.Preferences]
	History     gocommand.Querier[queries.HistoryInput, []crm.Activity]
	Resume      gocommand.Querier[queries.ResumeInput, queries.ResumeLink]

	SavePreferences gocommand.Commander[commands.SavePreferencesInput]
	ToggleCard      gocommand.Commander[commands.ToggleCardInput]
	Refresh         gocommand.Commander[commands.RefreshSnapshotInput]
	SendMessage     gocommand.Commander[commands.SendMessageInput]
	RecordActivity  gocommand.Commander[commands.RecordActivityInput]
	GenerateResume  gocommand.Commander[commands.GenerateResumeInput]
}

// Register mounts the API under /api.
func Register(app *fiber.App, h *Handlers, resolve ViewerResolver) {
	api := app.Group("/api")

	insights := api.Group("/insights")
	insights.Get("/snapshot", h.handleSnapshot)
	insights.Post("/refresh", h.handleRefresh)
	insights.Post("/cards/compose", h.requireViewer(resolve, h.handleCompose))
	insights.Get("/preferences", h.requireViewer(resolve, h.handleGetPreferences))
	insights.Put("/preferences", h.requireViewer(resolve, h.handleSavePreferences))
	insights.Post("/preferences/toggle", h.requireViewer(resolve, h.handleToggleCard))

	records := api.Group("/crm/records")
	records.Get("/:id/activities", h.handleHistory)
	records.Post("/:id/activities", h.handleRecordActivity)
	api.Post("/crm/messages", h.handleSendMessage)

	api.Get("/resumes/:userId", h.handleResumeLookup)
	api.Post("/resumes/:userId", h.handleGenerateResume)
}

type viewerHandler func(c *fiber.Ctx, viewer dashboard.ViewerContext) error

func (h *Handlers) requireViewer(resolve ViewerResolver, next viewerHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var viewer dashboard.ViewerContext
		if resolve != nil {
			viewer = resolve(c)
		}
		if viewer.UserID == "" {
			return errorJSON(c, fiber.StatusUnauthorized, "viewer required")
		}
		return next(c, viewer)
	}
}

func (h *Handlers) handleSnapshot(c *fiber.Ctx) error {
	view, err := h.Snapshot.Query(c.Context(), queries.SnapshotInput{})
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(view)
}

func (h *Handlers) handleRefresh(c *fiber.Ctx) error {
	var payload commands.RefreshSnapshotInput
	if err := c.BodyParser(&payload); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	if err := h.Refresh.Execute(c.Context(), payload); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	view, err := h.Snapshot.Query(c.Context(), queries.SnapshotInput{})
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(view)
}

func (h *Handlers) handleCompose(c *fiber.Ctx, viewer dashboard.ViewerContext) error {
	var payload dashboard.ComposeRequest
	if err := c.BodyParser(&payload); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	payload.Viewer = viewer
	cards, err := h.Compose.Query(c.Context(), payload)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(cards)
}

func (h *Handlers) handleGetPreferences(c *fiber.Ctx, viewer dashboard.ViewerContext) error {
	prefs, err := h.Preferences.Query(c.Context(), viewer)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(prefs)
}

func (h *Handlers) handleSavePreferences(c *fiber.Ctx, viewer dashboard.ViewerContext) error {
	var payload dashboard.Preferences
	if err := c.BodyParser(&payload); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	input := commands.SavePreferencesInput{Viewer: viewer, SelectedCards: payload.SelectedCards}
	if err := h.SavePreferences.Execute(c.Context(), input); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handlers) handleToggleCard(c *fiber.Ctx, viewer dashboard.ViewerContext) error {
	var payload struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	input := commands.ToggleCardInput{Viewer: viewer, Code: payload.Code}
	if err := h.ToggleCard.Execute(c.Context(), input); err != nil {
		if errors.Is(err, dashboard.ErrUnknownCard) {
			return errorJSON(c, fiber.StatusNotFound, err.Error())
		}
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	prefs, err := h.Preferences.Query(c.Context(), viewer)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(prefs)
}

func (h *Handlers) handleHistory(c *fiber.Ctx) error {
	activities, err := h.History.Query(c.Context(), queries.HistoryInput{RecordID: c.Params("id")})
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(activities)
}

func (h *Handlers) handleRecordActivity(c *fiber.Ctx) error {
	var payload commands.RecordActivityInput
	if err := c.BodyParser(&payload); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	payload.RecordID = c.Params("id")
	if err := h.RecordActivity.Execute(c.Context(), payload); err != nil {
		if errors.Is(err, crm.ErrUnknownDisposition) {
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (h *Handlers) handleSendMessage(c *fiber.Ctx) error {
	var payload commands.SendMessageInput
	if err := c.BodyParser(&payload); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	if err := h.SendMessage.Execute(c.Context(), payload); err != nil {
		if errors.Is(err, crm.ErrSendInProgress) {
			return errorJSON(c, fiber.StatusConflict, err.Error())
		}
		return errorJSON(c, fiber.StatusBadGateway, err.Error())
	}
	return c.SendStatus(fiber.StatusAccepted)
}

func (h *Handlers) handleResumeLookup(c *fiber.Ctx) error {
	link, err := h.Resume.Query(c.Context(), queries.ResumeInput{UserID: c.Params("userId")})
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	if !link.Found {
		return errorJSON(c, fiber.StatusNotFound, "resume not found")
	}
	return c.JSON(link)
}

func (h *Handlers) handleGenerateResume(c *fiber.Ctx) error {
	input := commands.GenerateResumeInput{UserID: c.Params("userId")}
	if err := h.GenerateResume.Execute(c.Context(), input); err != nil {
		if errors.Is(err, resume.ErrGenerationInProgress) {
			return errorJSON(c, fiber.StatusConflict, err.Error())
		}
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	link, err := h.Resume.Query(c.Context(), queries.ResumeInput{UserID: c.Params("userId")})
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(link)
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
