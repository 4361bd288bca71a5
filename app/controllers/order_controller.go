package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/voltmart/voltmart/app/models"
	"github.com/voltmart/voltmart/app/services"
	"github.com/voltmart/voltmart/pkg/response"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	orders, pg, err := c.orders.List(services.OrderQuery{
		UserID:   userID,
		Status:   models.OrderStatus(r.URL.Query().Get("status")),
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "page_size", 20),
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Paginated(w, orders, pg)
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, found := urlID(r)
	if !found {
		response.NotFound(w)
		return
	}

	order, items, err := c.orders.Get(id, userID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{"order": order, "items": items})
}

func (c *OrderController) Count(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	n, err := c.orders.Count(userID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, map[string]int64{"count": n})
}

type createOrderRequest struct {
	Remark string `json:"remark" validate:"nullable,max=1000"`
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req createOrderRequest
	if r.ContentLength > 0 {
		if !bindJSON(w, r, &req) {
			return
		}
	}

	order, err := c.orders.Create(userID, req.Remark)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Created(w, order)
}

func (c *OrderController) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, found := urlID(r)
	if !found {
		response.NotFound(w)
		return
	}

	order, err := c.orders.Cancel(id, userID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, order)
}

func (c *OrderController) Complete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, found := urlID(r)
	if !found {
		response.NotFound(w)
		return
	}

	order, err := c.orders.Complete(id, userID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, order)
}

// ── Admin ────────────────────────────────────────────────────────────────────

func (c *OrderController) AdminList(w http.ResponseWriter, r *http.Request) {
	orders, pg, err := c.orders.List(services.OrderQuery{
		UserID:   uint(queryInt(r, "user_id", 0)),
		Status:   models.OrderStatus(r.URL.Query().Get("status")),
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "page_size", 20),
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Paginated(w, orders, pg)
}

func (c *OrderController) AdminGet(w http.ResponseWriter, r *http.Request) {
	id, found := urlID(r)
	if !found {
		response.NotFound(w)
		return
	}

	order, items, err := c.orders.Get(id, 0)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{"order": order, "items": items})
}

func (c *OrderController) Confirm(w http.ResponseWriter, r *http.Request) {
	id, found := urlID(r)
	if !found {
		response.NotFound(w)
		return
	}

	order, err := c.orders.Confirm(id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, order)
}

type shipRequest struct {
	TrackingNumber string `json:"tracking_number" validate:"nullable,max=100"`
}

func (c *OrderController) Ship(w http.ResponseWriter, r *http.Request) {
	id, found := urlID(r)
	if !found {
		response.NotFound(w)
		return
	}

	var req shipRequest
	if r.ContentLength > 0 {
		if !bindJSON(w, r, &req) {
			return
		}
	}

	order, err := c.orders.Ship(id, req.TrackingNumber)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, order)
}

type batchConfirmRequest struct {
	OrderIDs []uint `json:"order_ids" validate:"required"`
}

func (c *OrderController) BatchConfirm(w http.ResponseWriter, r *http.Request) {
	var req batchConfirmRequest
	if !bindJSON(w, r, &req) {
		return
	}
	if len(req.OrderIDs) == 0 {
		response.Error(w, http.StatusBadRequest, "order_ids must not be empty")
		return
	}

	results := c.orders.BatchConfirm(req.OrderIDs)
	response.Success(w, results)
}

// Export streams all orders as a CSV download.
func (c *OrderController) Export(w http.ResponseWriter, r *http.Request) {
	status := models.OrderStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		response.Error(w, http.StatusBadRequest, "unknown status")
		return
	}

	var buf bytes.Buffer
	if err := c.orders.ExportCSV(&buf, status); err != nil {
		respondErr(w, r, err)
		return
	}

	filename := fmt.Sprintf("orders-%s.csv", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(buf.Bytes()) //nolint:errcheck
}
