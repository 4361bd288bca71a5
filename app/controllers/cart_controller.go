package controllers

import (
	"net/http"

	"github.com/voltmart/voltmart/app/services"
	"github.com/voltmart/voltmart/pkg/response"
)

type CartController struct {
	cart *services.CartService
}

func NewCartController(cart *services.CartService) *CartController {
	return &CartController{cart: cart}
}

func (c *CartController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	lines, total, err := c.cart.List(userID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{"items": lines, "total": total})
}

func (c *CartController) Count(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	count, err := c.cart.Count(userID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, map[string]int{"count": count})
}

type addCartRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gte=1"`
}

func (c *CartController) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req addCartRequest
	if !bindJSON(w, r, &req) {
		return
	}

	item, err := c.cart.Add(userID, req.ProductID, req.Quantity)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Created(w, item)
}

type updateCartRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

func (c *CartController) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, found := urlID(r)
	if !found {
		response.NotFound(w)
		return
	}

	var req updateCartRequest
	if !bindJSON(w, r, &req) {
		return
	}

	if err := c.cart.UpdateQuantity(userID, id, req.Quantity); err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "cart updated"})
}

func (c *CartController) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, found := urlID(r)
	if !found {
		response.NotFound(w)
		return
	}

	if err := c.cart.Remove(userID, id); err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "item removed"})
}

func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := c.cart.Clear(userID); err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "cart cleared"})
}
