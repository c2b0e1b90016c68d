package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const notifyTimeout = 10 * time.Second

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	messages  ContactMessageStore
	notifier  services.Notifier
	metrics   *Metrics
}

func newContactHandler(messages ContactMessageStore, notifier services.Notifier, metrics *Metrics) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		messages:  messages,
		notifier:  notifier,
		metrics:   metrics,
	}
}

// submitContact stores a contact form submission and notifies the owner
// @Summary Submit contact form
// @Tags Contact
// @Accept json
// @Produce json
// @Param message body models.ContactInput true "Name, email and message"
// @Router /api/contact [post]
func (h contactHandler) submitContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input models.ContactInput
		if err := decodeJSON(r, &input); err != nil {
			h.count("invalid")
			h.responder.WriteError(w, err)
			return
		}

		msg, err := input.Apply(models.RequestMeta{
			IPAddress: forwardedFor(r),
			UserAgent: r.UserAgent(),
		})
		if err != nil {
			h.count("invalid")
			h.responder.WriteError(w, err)
			return
		}

		if err := h.messages.Create(r.Context(), &msg); err != nil {
			h.count("error")
			h.responder.WriteError(w, wrapDatabaseError("create", "contact message", err))
			return
		}
		h.count("stored")

		h.logger.Info().Uint("messageId", msg.ID).Str("email", msg.Email).Msg("Contact message stored")

		h.notify(r.Context(), msg)
		h.responder.WriteJSON(w, nil)
	}
}

// notify never fails the request; the message is already stored.
func (h contactHandler) notify(parent context.Context, msg models.ContactMessage) {
	if h.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), notifyTimeout)
	defer cancel()

	err := h.notifier.Notify(ctx, msg)
	if err == nil {
		return
	}

	for _, failure := range splitErrors(err) {
		channel := h.notifier.Name()
		var notifyErr *errs.NotificationError
		if errors.As(failure, &notifyErr) {
			channel = notifyErr.Channel
		}
		if h.metrics != nil {
			h.metrics.NotificationFailures.WithLabelValues(channel).Inc()
		}
		h.logger.Error().Err(failure).Str("channel", channel).Uint("messageId", msg.ID).Msg("Contact notification failed")
	}
}

func (h contactHandler) count(result string) {
	if h.metrics != nil {
		h.metrics.ContactSubmissions.WithLabelValues(result).Inc()
	}
}

func splitErrors(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

type messageHandler struct {
	responder Responder
	messages  ContactMessageStore
}

func newMessageHandler(messages ContactMessageStore) messageHandler {
	logger := log.With().Str("handlerName", "messageHandler").Logger()

	return messageHandler{
		responder: NewResponder(logger),
		messages:  messages,
	}
}

// listMessages pages through stored contact messages, newest first.
func (h messageHandler) listMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, _ := parsePage(r, messagePageLimits)
		messages, total, err := h.messages.ListPage(r.Context(), page)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "contact messages", err))
			return
		}
		h.responder.WriteJSON(w, envelope{
			"messages":   models.NewContactMessageViews(messages),
			"pagination": models.NewPagination(page, total),
		})
	}
}
