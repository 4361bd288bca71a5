// Package routes declares the HTTP surface: which handler serves which path,
// and which middleware guards it.
package routes

import (
	"net/http"
	"time"

	"github.com/voltmart/voltmart/app/controllers"
	"github.com/voltmart/voltmart/pkg/metrics"
	"github.com/voltmart/voltmart/pkg/middleware"
	"github.com/voltmart/voltmart/pkg/rbac"
	"github.com/voltmart/voltmart/pkg/reqid"
	"github.com/voltmart/voltmart/pkg/response"
	"github.com/voltmart/voltmart/pkg/router"
	"github.com/voltmart/voltmart/pkg/ws"
)

// Controllers bundles everything the route table needs.
type Controllers struct {
	Auth       *controllers.AuthController
	Products   *controllers.ProductController
	Categories *controllers.CategoryController
	Cart       *controllers.CartController
	Orders     *controllers.OrderController
	Users      *controllers.UserController
	Dashboard  *controllers.DashboardController
	Currency   *controllers.CurrencyController
	GraphQL    http.HandlerFunc
	Hub        *ws.Hub
}

// Register builds the full route table.
func Register(r *router.Router, c Controllers) {
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(300, time.Minute))

	r.Get("/healthz", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", "metrics", metrics.Handler())

	api := r.Group("/api")

	// ── Public ───────────────────────────────────────────────────────────
	api.Post("/auth/register", "auth.register", c.Auth.Register)
	api.Post("/auth/login", "auth.login", c.Auth.Login)

	api.Get("/products", "products.index", c.Products.List)
	api.Get("/products/brands", "products.brands", c.Products.Brands)
	api.Get("/products/{id}", "products.show", c.Products.Get)

	api.Get("/categories", "categories.index", c.Categories.List)
	api.Get("/categories/tree", "categories.tree", c.Categories.Tree)
	api.Get("/categories/{id}", "categories.show", c.Categories.Get)

	api.Get("/currencies", "currencies.index", c.Currency.List)
	api.Get("/currencies/convert", "currencies.convert", c.Currency.Convert)

	if c.GraphQL != nil {
		api.Post("/graphql", "graphql", c.GraphQL)
	}

	// ── Authenticated ────────────────────────────────────────────────────
	authed := api.Group("", middleware.Auth)

	authed.Get("/auth/me", "auth.me", c.Auth.Me)
	authed.Put("/auth/me", "auth.me.update", c.Auth.UpdateMe)
	authed.Post("/auth/change-password", "auth.password", c.Auth.ChangePassword)

	authed.Get("/cart", "cart.index", c.Cart.List)
	authed.Get("/cart/count", "cart.count", c.Cart.Count)
	authed.Post("/cart", "cart.add", c.Cart.Add)
	authed.Put("/cart/{id}", "cart.update", c.Cart.Update)
	authed.Delete("/cart/clear", "cart.clear", c.Cart.Clear)
	authed.Delete("/cart/{id}", "cart.remove", c.Cart.Remove)

	authed.Get("/orders", "orders.index", c.Orders.List)
	authed.Get("/orders/count", "orders.count", c.Orders.Count)
	authed.Post("/orders", "orders.create", c.Orders.Create)
	authed.Get("/orders/{id}", "orders.show", c.Orders.Get)
	authed.Post("/orders/{id}/cancel", "orders.cancel", c.Orders.Cancel)
	authed.Post("/orders/{id}/complete", "orders.complete", c.Orders.Complete)

	// ── Admin ────────────────────────────────────────────────────────────
	admin := api.Group("", middleware.Auth, rbac.HasRole("admin"))

	admin.Get("/orders/admin", "orders.admin.index", c.Orders.AdminList)
	admin.Get("/orders/admin/export", "orders.admin.export", c.Orders.Export)
	admin.Post("/orders/admin/batch-confirm", "orders.admin.batch", c.Orders.BatchConfirm)
	admin.Get("/orders/admin/{id}", "orders.admin.show", c.Orders.AdminGet)
	admin.Post("/orders/admin/{id}/confirm", "orders.admin.confirm", c.Orders.Confirm)
	admin.Post("/orders/admin/{id}/ship", "orders.admin.ship", c.Orders.Ship)

	admin.Get("/products/admin", "products.admin.index", c.Products.AdminList)
	admin.Post("/products", "products.create", c.Products.Create)
	admin.Put("/products/{id}", "products.update", c.Products.Update)
	admin.Delete("/products/{id}", "products.delete", c.Products.Delete)
	admin.Post("/products/{id}/image", "products.image", c.Products.UploadImage)

	admin.Post("/categories", "categories.create", c.Categories.Create)
	admin.Put("/categories/{id}", "categories.update", c.Categories.Update)
	admin.Delete("/categories/{id}", "categories.delete", c.Categories.Delete)

	admin.Get("/users", "users.index", c.Users.List)
	admin.Get("/users/count", "users.count", c.Users.Count)
	admin.Get("/users/{id}", "users.show", c.Users.Get)
	admin.Put("/users/{id}/role", "users.role", c.Users.SetRole)
	admin.Put("/users/{id}/active", "users.active", c.Users.SetActive)
	admin.Post("/users/{id}/reset-password", "users.reset", c.Users.ResetPassword)
	admin.Delete("/users/{id}", "users.delete", c.Users.Delete)

	admin.Get("/admin/dashboard", "admin.dashboard", c.Dashboard.Stats)
	admin.Get("/admin/dashboard/stream", "admin.dashboard.stream", c.Dashboard.Stream)
	admin.Get("/admin/low-stock", "admin.lowstock", c.Dashboard.LowStock)

	if c.Hub != nil {
		admin.Get("/admin/feed", "admin.feed", func(w http.ResponseWriter, r *http.Request) {
			ws.Upgrade(w, r, c.Hub)
		})
	}
}
