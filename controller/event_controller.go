// api/controller/event_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	api_errors "github.com/trashmob-eco/trashmob-api/errors"
	"github.com/trashmob-eco/trashmob-api/model"
	"github.com/trashmob-eco/trashmob-api/policy"
	"github.com/trashmob-eco/trashmob-api/service"
	"github.com/trashmob-eco/trashmob-api/util"
	helper_util "github.com/trashmob-eco/trashmob-api/util/helper"
)

type EventController struct {
	eventService service.IEventService
	authorizer   policy.Authorizer
}

func NewEventController(eventService service.IEventService, authorizer policy.Authorizer) *EventController {
	return &EventController{
		eventService: eventService,
		authorizer:   authorizer,
	}
}

// RegisterRoutes registers the API routes
func (ec *EventController) RegisterRoutes(r *gin.RouterGroup) {
	events := r.Group("/events")
	{
		events.POST("", ec.CreateEvent)
		events.GET("/public", ec.ListPublicEvents)
		events.GET("/:eventId", ec.GetEvent)
		events.PUT("/:eventId", ec.UpdateEvent)
		events.DELETE("/:eventId", ec.CancelEvent)
		events.GET("/:eventId/attendees", ec.ListAttendees)
		events.POST("/:eventId/attendees", ec.AddAttendee)
		events.DELETE("/:eventId/attendees/:userId", ec.RemoveAttendee)
		events.POST("/:eventId/attendees/:userId/promote", ec.PromoteLead)
		events.GET("/:eventId/summary", ec.GetSummary)
		events.PUT("/:eventId/summary", ec.SubmitSummary)
	}
}

// CreateEvent endpoint
func (ec *EventController) CreateEvent(c *gin.Context) {
	var event model.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid event data", api_errors.ErrEventInvalid)
		return
	}

	if !authorize(c, ec.authorizer, policy.ValidUser, policy.Target{Kind: "event"}) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	created, err := ec.eventService.CreateEvent(c, event, userID)
	if err != nil {
		switch err {
		case api_errors.ErrEventInvalid:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid event data", err)
		case api_errors.ErrDatabaseOperation:
			util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create event", api_errors.ErrInternalServer)
		}
		return
	}

	c.Header("Location", c.Request.URL.Path+"/"+created.ID)
	c.JSON(http.StatusCreated, created)
}

// GetEvent endpoint. Event detail is public.
func (ec *EventController) GetEvent(c *gin.Context) {
	event, err := ec.eventService.GetEvent(c, c.Param("eventId"))
	if err != nil {
		if err == api_errors.ErrEventNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Event not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve event", err)
		}
		return
	}
	c.JSON(http.StatusOK, event)
}

// UpdateEvent endpoint
func (ec *EventController) UpdateEvent(c *gin.Context) {
	eventID := c.Param("eventId")
	var update model.Event
	if err := c.ShouldBindJSON(&update); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid event data", api_errors.ErrEventInvalid)
		return
	}

	event, err := ec.eventService.GetEvent(c, eventID)
	if err != nil {
		if err == api_errors.ErrEventNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Event not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve event", err)
		}
		return
	}

	target := policy.Target{Kind: "event", ID: event.ID, OwnerID: event.CreatedByUserID, EventID: event.ID}
	if !authorize(c, ec.authorizer, policy.UserIsEventLead, target) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	update.ID = eventID
	updated, err := ec.eventService.UpdateEvent(c, update, userID)
	if err != nil {
		switch err {
		case api_errors.ErrEventNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Event not found", err)
		case api_errors.ErrEventInvalid:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid event data", err)
		case api_errors.ErrConcurrentModification:
			util.RespondWithError(c, http.StatusInternalServerError, "Event was modified concurrently", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update event", err)
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// CancelEvent endpoint. Events are canceled, never hard deleted.
func (ec *EventController) CancelEvent(c *gin.Context) {
	eventID := c.Param("eventId")

	event, err := ec.eventService.GetEvent(c, eventID)
	if err != nil {
		if err == api_errors.ErrEventNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Event not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve event", err)
		}
		return
	}

	target := policy.Target{Kind: "event", ID: event.ID, OwnerID: event.CreatedByUserID, EventID: event.ID}
	if !authorize(c, ec.authorizer, policy.UserIsEventLead, target) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	if err := ec.eventService.CancelEvent(c, eventID, userID); err != nil {
		if err == api_errors.ErrEventNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Event not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel event", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// ListPublicEvents endpoint. Public discovery, no gate.
func (ec *EventController) ListPublicEvents(c *gin.Context) {
	limit, offset := helper_util.GetPaginationParams(c)
	events, err := ec.eventService.ListPublicEvents(c, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list events", err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// AddAttendee endpoint. Callers register themselves.
func (ec *EventController) AddAttendee(c *gin.Context) {
	eventID := c.Param("eventId")

	event, err := ec.eventService.GetEvent(c, eventID)
	if err != nil {
		if err == api_errors.ErrEventNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Event not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve event", err)
		}
		return
	}

	if !authorize(c, ec.authorizer, policy.ValidUser, policy.Target{Kind: "event", ID: event.ID}) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	if err := ec.eventService.AddAttendee(c, eventID, userID); err != nil {
		switch err {
		case api_errors.ErrEventNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Event not found", err)
		case api_errors.ErrAttendeeConflict:
			util.RespondWithError(c, http.StatusBadRequest, "Already registered for this event", err)
		case api_errors.ErrEventFull:
			util.RespondWithError(c, http.StatusBadRequest, "Event is full", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to register attendee", err)
		}
		return
	}

	c.Status(http.StatusCreated)
}

// RemoveAttendee endpoint.
// Todo: Tighten this down. Any signed-in user can currently remove any
// attendee.
func (ec *EventController) RemoveAttendee(c *gin.Context) {
	eventID := c.Param("eventId")
	userID := c.Param("userId")

	event, err := ec.eventService.GetEvent(c, eventID)
	if err != nil {
		if err == api_errors.ErrEventNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Event not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve event", err)
		}
		return
	}

	if !authorize(c, ec.authorizer, policy.ValidUser, policy.Target{Kind: "event", ID: event.ID}) {
		return
	}

	if err := ec.eventService.RemoveAttendee(c, eventID, userID); err != nil {
		if err == api_errors.ErrAttendeeNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Attendee not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to remove attendee", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// ListAttendees endpoint
func (ec *EventController) ListAttendees(c *gin.Context) {
	eventID := c.Param("eventId")

	event, err := ec.eventService.GetEvent(c, eventID)
	if err != nil {
		if err == api_errors.ErrEventNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Event not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve event", err)
		}
		return
	}

	target := policy.Target{Kind: "event", ID: event.ID, OwnerID: event.CreatedByUserID, EventID: event.ID}
	if !authorize(c, ec.authorizer, policy.UserIsEventLead, target) {
		return
	}

	attendees, err := ec.eventService.ListAttendees(c, eventID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list attendees", err)
		return
	}
	c.JSON(http.StatusOK, attendees)
}

// PromoteLead endpoint
func (ec *EventController) PromoteLead(c *gin.Context) {
	eventID := c.Param("eventId")
	userID := c.Param("userId")

	event, err := ec.eventService.GetEvent(c, eventID)
	if err != nil {
		if err == api_errors.ErrEventNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Event not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve event", err)
		}
		return
	}

	target := policy.Target{Kind: "event", ID: event.ID, OwnerID: event.CreatedByUserID, EventID: event.ID}
	if !authorize(c, ec.authorizer, policy.UserIsEventLead, target) {
		return
	}
	actingUserID := util.GetUserIDFromContext(c)

	if err := ec.eventService.PromoteLead(c, eventID, userID, actingUserID); err != nil {
		if err == api_errors.ErrAttendeeNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Attendee not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to promote lead", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// SubmitSummary endpoint
func (ec *EventController) SubmitSummary(c *gin.Context) {
	eventID := c.Param("eventId")
	var summary model.EventSummary
	if err := c.ShouldBindJSON(&summary); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid summary data", api_errors.ErrEventInvalid)
		return
	}

	event, err := ec.eventService.GetEvent(c, eventID)
	if err != nil {
		if err == api_errors.ErrEventNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Event not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve event", err)
		}
		return
	}

	target := policy.Target{Kind: "event", ID: event.ID, OwnerID: event.CreatedByUserID, EventID: event.ID}
	if !authorize(c, ec.authorizer, policy.UserIsEventLead, target) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	summary.EventID = eventID
	if err := ec.eventService.SubmitSummary(c, summary, userID); err != nil {
		switch err {
		case api_errors.ErrEventInvalid:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid summary data", err)
		case api_errors.ErrEventNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Event not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to record summary", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSummary endpoint. Completed-event results are public.
func (ec *EventController) GetSummary(c *gin.Context) {
	summary, err := ec.eventService.GetSummary(c, c.Param("eventId"))
	if err != nil {
		if err == api_errors.ErrEventNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Event summary not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve summary", err)
		}
		return
	}
	c.JSON(http.StatusOK, summary)
}
