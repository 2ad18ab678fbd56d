package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/DanielPopoola/gulfpay/internal/application"
	"github.com/DanielPopoola/gulfpay/internal/application/events"
	"github.com/DanielPopoola/gulfpay/internal/domain"
)

const (
	msgAuthenticationFailed  = "Authentication failed"
	msgInvalidChargeID       = "Invalid charge ID"
	msgRetrievalFailed       = "Failed to retrieve charge"
	msgInvalidChargeResponse = "Invalid charge response"
	msgUnrecognizedStatus    = "Unrecognized charge status"
	msgPaymentFailed         = "Payment failed"
)

// CallbackService confirms a payment after the customer is redirected back from
// the hosted payment page.
type CallbackService struct {
	charges    application.ChargeRetriever
	dispatcher events.Dispatcher
	logger     *slog.Logger
}

func NewCallbackService(
	charges application.ChargeRetriever,
	dispatcher events.Dispatcher,
	logger *slog.Logger,
) *CallbackService {
	return &CallbackService{
		charges:    charges,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Handle never returns an error; every failure becomes a failed Outcome.
func (s *CallbackService) Handle(ctx context.Context, chargeID, redirectURL string) Outcome {
	chargeID = strings.TrimSpace(chargeID)
	if chargeID == "" {
		return failed(nil, msgInvalidChargeID)
	}

	res, err := s.charges.RetrieveCharge(ctx, chargeID)
	if err != nil {
		return s.retrievalFailed(ctx, chargeID, err)
	}

	charge, ok := res.(*domain.Charge)
	if !ok || charge == nil {
		s.logger.WarnContext(ctx, "charge retrieval returned another resource",
			"charge_id", chargeID,
			"object", objectOf(res),
		)
		return failed(nil, msgInvalidChargeResponse)
	}

	category, err := charge.Category()
	if err != nil {
		s.logger.WarnContext(ctx, "charge has unrecognized status",
			"charge_id", chargeID,
			"status", charge.Status,
		)
		return failed(charge, msgUnrecognizedStatus)
	}

	if category == domain.CategorySuccessful {
		s.dispatch(ctx, events.PaymentSucceeded{Charge: charge, RedirectURL: redirectURL})
		return succeeded(charge)
	}

	message := charge.ResponseMessage()
	if message == "" {
		message = msgPaymentFailed
	}
	s.dispatch(ctx, events.PaymentFailed{Charge: charge, RedirectURL: redirectURL, Message: message})
	return failed(charge, message)
}

func (s *CallbackService) retrievalFailed(ctx context.Context, chargeID string, err error) Outcome {
	reason := application.RetrievalReason(err)

	s.logger.WarnContext(ctx, "charge retrieval failed",
		"charge_id", chargeID,
		"reason", reason,
		"category", application.CategorizeError(err),
		"error", err,
	)

	s.dispatch(ctx, events.ChargeRetrievalFailed{ChargeID: chargeID, Reason: reason, Err: err})

	switch reason {
	case events.ReasonAuthentication:
		return failed(nil, msgAuthenticationFailed)
	case events.ReasonInvalidRequest:
		return failed(nil, msgInvalidChargeID)
	default:
		return failed(nil, msgRetrievalFailed)
	}
}

// dispatch logs listener failures; they never change the outcome.
func (s *CallbackService) dispatch(ctx context.Context, event events.Event) {
	if err := s.dispatcher.Dispatch(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "event dispatch failed", "event", event.Name(), "error", err)
	}
}

func objectOf(res domain.Resource) string {
	if res == nil {
		return ""
	}
	return res.Object()
}
