package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/voltmart/voltmart/app/services"
	"github.com/voltmart/voltmart/pkg/response"
)

type CurrencyController struct {
	currency *services.CurrencyService
}

func NewCurrencyController(currency *services.CurrencyService) *CurrencyController {
	return &CurrencyController{currency: currency}
}

func (c *CurrencyController) List(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]interface{}{
		"rates":      c.currency.List(),
		"updated_at": c.currency.UpdatedAt(),
	})
}

// Convert handles GET /currencies/convert?amount=10&from=USD&to=EUR.
func (c *CurrencyController) Convert(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	amount, err := strconv.ParseFloat(qs.Get("amount"), 64)
	if err != nil || amount < 0 {
		response.Error(w, http.StatusBadRequest, "amount must be a non-negative number")
		return
	}
	from := strings.ToUpper(qs.Get("from"))
	to := strings.ToUpper(qs.Get("to"))
	if from == "" || to == "" {
		response.Error(w, http.StatusBadRequest, "from and to currencies are required")
		return
	}

	converted, err := c.currency.Convert(amount, from, to)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"amount":    amount,
		"from":      from,
		"to":        to,
		"converted": converted,
	})
}
