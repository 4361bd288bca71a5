package controllers

import (
	"net/http"
	"time"

	"github.com/voltmart/voltmart/app/services"
	"github.com/voltmart/voltmart/config"
	"github.com/voltmart/voltmart/pkg/response"
	"github.com/voltmart/voltmart/pkg/sse"
)

// DashboardController serves the back-office overview, as a one-shot
// snapshot and as a live SSE stream.
type DashboardController struct {
	dashboard *services.DashboardService
	products  *services.ProductService
}

func NewDashboardController(dashboard *services.DashboardService, products *services.ProductService) *DashboardController {
	return &DashboardController{dashboard: dashboard, products: products}
}

func (c *DashboardController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.dashboard.Stats(config.LowStockThreshold())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, stats)
}

func (c *DashboardController) LowStock(w http.ResponseWriter, r *http.Request) {
	products, err := c.products.LowStock(config.LowStockThreshold())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, products)
}

// Stream pushes a fresh stats snapshot every few seconds until the client
// disconnects.
func (c *DashboardController) Stream(w http.ResponseWriter, r *http.Request) {
	stream := sse.New(w, r)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	send := func() bool {
		stats, err := c.dashboard.Stats(config.LowStockThreshold())
		if err != nil {
			return false
		}
		return stream.Send("stats", stats) == nil
	}

	if !send() {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if stream.IsClosed() || !send() {
				return
			}
		}
	}
}
