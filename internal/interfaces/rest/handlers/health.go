package handlers

import (
	"net/http"

	"github.com/DanielPopoola/gulfpay/internal/interfaces/rest"
)

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	rest.WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
