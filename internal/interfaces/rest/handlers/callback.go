package handlers

import (
	"net/http"
	"net/url"

	"github.com/DanielPopoola/gulfpay/internal/application"
	"github.com/DanielPopoola/gulfpay/internal/interfaces/rest"
)

type callbackQuery struct {
	ChargeID    string `validate:"required,max=128,printascii"`
	RedirectURL string `validate:"omitempty,max=2048"`
}

// chargeIDFromQuery accepts the upstream's tap_id alias.
func chargeIDFromQuery(q url.Values) string {
	if id := q.Get("charge_id"); id != "" {
		return id
	}
	return q.Get("tap_id")
}

// PaymentCallback confirms the charge the customer was redirected back with.
// A successful charge with a redirect URL sends the customer on; anything else
// is answered with the charge as JSON.
func (h *Handlers) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := callbackQuery{
		ChargeID:    chargeIDFromQuery(q),
		RedirectURL: q.Get("redirect_url"),
	}

	if err := h.validate.Struct(query); err != nil {
		if query.ChargeID == "" {
			rest.WriteError(w, application.NewMissingChargeIDError(), h.logger)
			return
		}
		rest.WriteError(w, application.NewInvalidQueryError(err), h.logger)
		return
	}

	outcome := h.callbacks.Handle(r.Context(), query.ChargeID, query.RedirectURL)
	charge := rest.ToCharge(outcome.Charge(), h.amounts)

	if !outcome.Success() {
		status, response := rest.BuildErrorResponse(application.NewPaymentFailedError(outcome.Error()))
		if charge != nil {
			response.Data = charge
		}
		rest.WriteJSON(w, status, response)
		return
	}

	if query.RedirectURL != "" {
		http.Redirect(w, r, redirectTarget(query.RedirectURL, charge), http.StatusSeeOther)
		return
	}

	rest.WriteSuccess(w, http.StatusOK, charge)
}

// redirectTarget appends charge_id and status to the redirect URL, keeping its
// own query parameters.
func redirectTarget(raw string, charge *rest.Charge) string {
	u, err := url.Parse(raw)
	if err != nil || charge == nil {
		return raw
	}

	q := u.Query()
	q.Set("charge_id", charge.ID)
	q.Set("status", charge.Status)
	u.RawQuery = q.Encode()
	return u.String()
}
