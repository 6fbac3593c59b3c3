package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/teravoo/teravoo-backend/api/responses"
	"github.com/teravoo/teravoo-backend/api/validators"
	tracesvc "github.com/teravoo/teravoo-backend/internal/traceability"
	"github.com/teravoo/teravoo-backend/pkg/enums"
	pkgerrors "github.com/teravoo/teravoo-backend/pkg/errors"
	"github.com/teravoo/teravoo-backend/pkg/logger"
)

type appendEventRequest struct {
	EventType   string  `json:"event_type" validate:"required"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	RecordedBy  *string `json:"recorded_by,omitempty"`
	OccurredAt  string  `json:"occurred_at" validate:"required"`
}

// ProducerAppendTraceEvent records a custody event against an owned lot.
func ProducerAppendTraceEvent(svc tracesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		producerID, err := producerUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload appendEventRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		eventType, err := enums.ParseTraceEventType(strings.TrimSpace(payload.EventType))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid event type"))
			return
		}
		occurredAt, err := time.Parse(time.RFC3339, strings.TrimSpace(payload.OccurredAt))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "occurred_at must be RFC3339"))
			return
		}

		event, err := svc.AppendEvent(r.Context(), producerID, productID, tracesvc.AppendEventInput{
			EventType:   eventType,
			Description: payload.Description,
			Location:    payload.Location,
			RecordedBy:  payload.RecordedBy,
			OccurredAt:  occurredAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, event)
	}
}

// TraceEventList returns the chain of custody for a lot, oldest first.
func TraceEventList(svc tracesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		events, err := svc.ListEvents(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, events)
	}
}
