// Package controllers holds the HTTP handlers. Each controller is a thin
// shell: bind and validate input, call the service, map the result onto the
// JSON envelope. Domain violations become 400/404 with the violation's own
// message; anything unexpected is logged and becomes a plain 500.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/voltmart/voltmart/app/services"
	"github.com/voltmart/voltmart/pkg/bind"
	"github.com/voltmart/voltmart/pkg/logger"
	"github.com/voltmart/voltmart/pkg/middleware"
	"github.com/voltmart/voltmart/pkg/response"
)

// notFoundErrs map to 404; every other known domain violation maps to 400.
var notFoundErrs = []error{
	services.ErrProductNotFound,
	services.ErrCartItemNotFound,
	services.ErrOrderNotFound,
	services.ErrCategoryNotFound,
	services.ErrUserNotFound,
	services.ErrCurrencyNotFound,
}

var badRequestErrs = []error{
	services.ErrEmptyCart,
	services.ErrInsufficientStock,
	services.ErrBelowMinQty,
	services.ErrProductInactive,
	services.ErrProductInUse,
	services.ErrInvalidTransition,
	services.ErrInvalidStatus,
	services.ErrParentNotFound,
	services.ErrSelfParent,
	services.ErrCategoryCycle,
	services.ErrCategoryHasChildren,
	services.ErrCategoryHasProducts,
	services.ErrEmailTaken,
	services.ErrWrongPassword,
	services.ErrInvalidRole,
}

// respondErr translates a service error into an HTTP response.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	for _, sentinel := range notFoundErrs {
		if errors.Is(err, sentinel) {
			response.Error(w, http.StatusNotFound, sentinel.Error())
			return
		}
	}
	for _, sentinel := range badRequestErrs {
		if errors.Is(err, sentinel) {
			response.Error(w, http.StatusBadRequest, sentinel.Error())
			return
		}
	}
	switch {
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrAccountDisabled):
		response.Error(w, http.StatusUnauthorized, err.Error())
	default:
		logger.WithCtx(r.Context()).Error("request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// bindJSON decodes and validates the body, writing the error response itself.
// Returns false when the request has already been answered.
func bindJSON(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	errs, err := bind.JSON(r, dest)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return false
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return false
	}
	return true
}

// urlID parses the {id} route parameter.
func urlID(r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// currentUser pulls the authenticated identity injected by middleware.Auth.
func currentUser(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return 0, false
	}
	return id, true
}

// queryInt reads an integer query parameter, falling back on absence or junk.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
