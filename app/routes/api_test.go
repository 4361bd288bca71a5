package routes_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/voltmart/voltmart/app/controllers"
	"github.com/voltmart/voltmart/app/models"
	"github.com/voltmart/voltmart/app/routes"
	"github.com/voltmart/voltmart/app/services"
	"github.com/voltmart/voltmart/pkg/auth"
	"github.com/voltmart/voltmart/pkg/router"
	"github.com/voltmart/voltmart/pkg/testkit"
)

// newAPI builds the full route table over a fresh in-memory database.
func newAPI(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	products := services.NewProductService(db)
	categories := services.NewCategoryService(db)
	gql, err := controllers.NewGraphQLHandler(products, categories)
	require.NoError(t, err)

	r := router.New()
	routes.Register(r, routes.Controllers{
		Auth:       controllers.NewAuthController(services.NewAuthService(db)),
		Products:   controllers.NewProductController(products),
		Categories: controllers.NewCategoryController(categories),
		Cart:       controllers.NewCartController(services.NewCartService(db)),
		Orders:     controllers.NewOrderController(services.NewOrderService(db)),
		Users:      controllers.NewUserController(services.NewUserService(db)),
		Dashboard:  controllers.NewDashboardController(services.NewDashboardService(db), products),
		Currency:   controllers.NewCurrencyController(services.NewCurrencyService("")),
		GraphQL:    gql,
	})
	return r.Handler(), db
}

// seedAccount inserts a user directly and returns a valid bearer token.
func seedAccount(t *testing.T, db *gorm.DB, email, role string) (models.User, string) {
	t.Helper()

	hash, err := auth.HashPassword("s3cretpass")
	require.NoError(t, err)
	u := models.User{Email: email, Password: hash, Name: "Test User", Role: role, IsActive: true}
	require.NoError(t, db.Create(&u).Error)

	token, err := auth.GenerateToken(u.ID, u.Role)
	require.NoError(t, err)
	return u, token
}

func seedCatalogue(t *testing.T, db *gorm.DB) models.Product {
	t.Helper()

	cat := models.Category{Name: "Components", IsActive: true}
	require.NoError(t, db.Create(&cat).Error)
	p := models.Product{
		Name: "1k resistor", ModelNumber: "R-1K", CategoryID: cat.ID,
		Brand: "Ohmite", Price: 0.05, Unit: "piece", Stock: 500, MinOrderQty: 1, IsActive: true,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestHealthz(t *testing.T) {
	h, _ := newAPI(t)
	w := testkit.Do(t, h, testkit.Request{Method: "GET", Path: "/healthz"})
	testkit.AssertStatus(t, w, http.StatusOK)
	testkit.AssertJSONEq(t, w, `{"status":200,"data":{"status":"ok"}}`)
}

func TestRegisterLoginFlow(t *testing.T) {
	h, _ := newAPI(t)

	w := testkit.Do(t, h, testkit.Request{
		Method: "POST", Path: "/api/auth/register",
		Body: map[string]string{"email": "buyer@example.com", "password": "s3cretpass", "name": "Buyer"},
	})
	testkit.AssertStatus(t, w, http.StatusCreated)

	var created struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	testkit.DecodeJSON(t, w, &created)
	require.NotEmpty(t, created.Data.Token)

	// Registered token works on an authenticated route.
	w = testkit.Do(t, h, testkit.Request{
		Method: "GET", Path: "/api/auth/me", Header: bearer(created.Data.Token),
	})
	testkit.AssertStatus(t, w, http.StatusOK)

	// Duplicate email is a domain violation, not a server error.
	w = testkit.Do(t, h, testkit.Request{
		Method: "POST", Path: "/api/auth/register",
		Body: map[string]string{"email": "buyer@example.com", "password": "s3cretpass", "name": "Buyer"},
	})
	testkit.AssertStatus(t, w, http.StatusBadRequest)

	w = testkit.Do(t, h, testkit.Request{
		Method: "POST", Path: "/api/auth/login",
		Body: map[string]string{"email": "buyer@example.com", "password": "wrongpass1"},
	})
	testkit.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestRegisterValidation(t *testing.T) {
	h, _ := newAPI(t)

	w := testkit.Do(t, h, testkit.Request{
		Method: "POST", Path: "/api/auth/register",
		Body: map[string]string{"email": "not-an-email", "password": "short", "name": ""},
	})
	testkit.AssertStatus(t, w, http.StatusUnprocessableEntity)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	testkit.DecodeJSON(t, w, &body)
	assert.Contains(t, body.Errors, "email")
	assert.Contains(t, body.Errors, "password")
}

func TestAuthGuards(t *testing.T) {
	h, db := newAPI(t)

	// No token.
	w := testkit.Do(t, h, testkit.Request{Method: "GET", Path: "/api/cart"})
	testkit.AssertStatus(t, w, http.StatusUnauthorized)

	// Garbage token.
	w = testkit.Do(t, h, testkit.Request{
		Method: "GET", Path: "/api/cart", Header: bearer("not.a.jwt"),
	})
	testkit.AssertStatus(t, w, http.StatusUnauthorized)

	// Valid token, wrong role.
	_, userToken := seedAccount(t, db, "buyer@example.com", models.RoleUser)
	w = testkit.Do(t, h, testkit.Request{
		Method: "GET", Path: "/api/users", Header: bearer(userToken),
	})
	testkit.AssertStatus(t, w, http.StatusForbidden)

	_, adminToken := seedAccount(t, db, "admin@example.com", models.RoleAdmin)
	w = testkit.Do(t, h, testkit.Request{
		Method: "GET", Path: "/api/users", Header: bearer(adminToken),
	})
	testkit.AssertStatus(t, w, http.StatusOK)
}

func TestAdminUserManagement(t *testing.T) {
	h, db := newAPI(t)
	buyer, _ := seedAccount(t, db, "buyer@example.com", models.RoleUser)
	_, adminToken := seedAccount(t, db, "admin@example.com", models.RoleAdmin)

	w := testkit.Do(t, h, testkit.Request{
		Method: "GET", Path: "/api/users/count", Header: bearer(adminToken),
	})
	testkit.AssertStatus(t, w, http.StatusOK)
	testkit.AssertJSONEq(t, w, `{"status":200,"data":{"count":2}}`)

	w = testkit.Do(t, h, testkit.Request{
		Method: "POST", Path: fmt.Sprintf("/api/users/%d/reset-password", buyer.ID),
		Header: bearer(adminToken),
	})
	testkit.AssertStatus(t, w, http.StatusOK)
	var reset struct {
		Data struct {
			TempPassword string `json:"temp_password"`
		} `json:"data"`
	}
	testkit.DecodeJSON(t, w, &reset)
	require.NotEmpty(t, reset.Data.TempPassword)

	// The old password no longer logs in; the temporary one does.
	w = testkit.Do(t, h, testkit.Request{
		Method: "POST", Path: "/api/auth/login",
		Body: map[string]string{"email": "buyer@example.com", "password": "s3cretpass"},
	})
	testkit.AssertStatus(t, w, http.StatusUnauthorized)

	w = testkit.Do(t, h, testkit.Request{
		Method: "POST", Path: "/api/auth/login",
		Body: map[string]string{"email": "buyer@example.com", "password": reset.Data.TempPassword},
	})
	testkit.AssertStatus(t, w, http.StatusOK)
}

func TestAdminDashboardSnapshot(t *testing.T) {
	h, db := newAPI(t)
	p := seedCatalogue(t, db)
	_, token := seedAccount(t, db, "buyer@example.com", models.RoleUser)
	_, adminToken := seedAccount(t, db, "admin@example.com", models.RoleAdmin)

	w := testkit.Do(t, h, testkit.Request{
		Method: "POST", Path: "/api/cart", Header: bearer(token),
		Body: map[string]interface{}{"product_id": p.ID, "quantity": 2},
	})
	testkit.AssertStatus(t, w, http.StatusCreated)
	w = testkit.Do(t, h, testkit.Request{Method: "POST", Path: "/api/orders", Header: bearer(token)})
	testkit.AssertStatus(t, w, http.StatusCreated)

	w = testkit.Do(t, h, testkit.Request{
		Method: "GET", Path: "/api/admin/dashboard", Header: bearer(adminToken),
	})
	testkit.AssertStatus(t, w, http.StatusOK)

	var body struct {
		Data services.Stats `json:"data"`
	}
	testkit.DecodeJSON(t, w, &body)
	assert.EqualValues(t, 1, body.Data.Orders)
	require.Len(t, body.Data.RecentOrders, 1)
	assert.Equal(t, models.OrderPending, body.Data.RecentOrders[0].Status)
	require.Len(t, body.Data.SalesTrend, 7)
	assert.Equal(t, 1, body.Data.SalesTrend[6].Orders)
	assert.InDelta(t, 0.10, body.Data.SalesTrend[6].Amount, 0.001)
}

func TestCartAndOrderFlow(t *testing.T) {
	h, db := newAPI(t)
	p := seedCatalogue(t, db)
	_, token := seedAccount(t, db, "buyer@example.com", models.RoleUser)

	w := testkit.Do(t, h, testkit.Request{
		Method: "POST", Path: "/api/cart", Header: bearer(token),
		Body: map[string]interface{}{"product_id": p.ID, "quantity": 3},
	})
	testkit.AssertStatus(t, w, http.StatusCreated)

	w = testkit.Do(t, h, testkit.Request{
		Method: "GET", Path: "/api/cart/count", Header: bearer(token),
	})
	testkit.AssertStatus(t, w, http.StatusOK)
	testkit.AssertJSONEq(t, w, `{"status":200,"data":{"count":3}}`)

	// Asking for more than the shelf holds is rejected up front.
	w = testkit.Do(t, h, testkit.Request{
		Method: "POST", Path: "/api/cart", Header: bearer(token),
		Body: map[string]interface{}{"product_id": p.ID, "quantity": 9999},
	})
	testkit.AssertStatus(t, w, http.StatusBadRequest)

	w = testkit.Do(t, h, testkit.Request{
		Method: "POST", Path: "/api/orders", Header: bearer(token),
		Body: map[string]string{"remark": "ring the bell"},
	})
	testkit.AssertStatus(t, w, http.StatusCreated)

	var created struct {
		Data models.Order `json:"data"`
	}
	testkit.DecodeJSON(t, w, &created)
	assert.NotZero(t, created.Data.ID)
	assert.Equal(t, models.OrderPending, created.Data.Status)

	w = testkit.Do(t, h, testkit.Request{
		Method: "GET", Path: fmt.Sprintf("/api/orders/%d", created.Data.ID), Header: bearer(token),
	})
	testkit.AssertStatus(t, w, http.StatusOK)

	// Checking out an emptied cart is a 400.
	w = testkit.Do(t, h, testkit.Request{
		Method: "POST", Path: "/api/orders", Header: bearer(token),
	})
	testkit.AssertStatus(t, w, http.StatusBadRequest)

	w = testkit.Do(t, h, testkit.Request{
		Method: "POST", Path: fmt.Sprintf("/api/orders/%d/cancel", created.Data.ID), Header: bearer(token),
	})
	testkit.AssertStatus(t, w, http.StatusOK)
}

func TestAdminOrderLifecycle(t *testing.T) {
	h, db := newAPI(t)
	p := seedCatalogue(t, db)
	_, userToken := seedAccount(t, db, "buyer@example.com", models.RoleUser)
	_, adminToken := seedAccount(t, db, "admin@example.com", models.RoleAdmin)

	w := testkit.Do(t, h, testkit.Request{
		Method: "POST", Path: "/api/cart", Header: bearer(userToken),
		Body: map[string]interface{}{"product_id": p.ID, "quantity": 1},
	})
	testkit.AssertStatus(t, w, http.StatusCreated)
	w = testkit.Do(t, h, testkit.Request{
		Method: "POST", Path: "/api/orders", Header: bearer(userToken),
	})
	testkit.AssertStatus(t, w, http.StatusCreated)

	var created struct {
		Data models.Order `json:"data"`
	}
	testkit.DecodeJSON(t, w, &created)
	id := created.Data.ID

	// Buyers cannot reach the admin transitions.
	w = testkit.Do(t, h, testkit.Request{
		Method: "POST", Path: fmt.Sprintf("/api/orders/admin/%d/confirm", id), Header: bearer(userToken),
	})
	testkit.AssertStatus(t, w, http.StatusForbidden)

	w = testkit.Do(t, h, testkit.Request{
		Method: "POST", Path: fmt.Sprintf("/api/orders/admin/%d/confirm", id), Header: bearer(adminToken),
	})
	testkit.AssertStatus(t, w, http.StatusOK)

	w = testkit.Do(t, h, testkit.Request{
		Method: "POST", Path: fmt.Sprintf("/api/orders/admin/%d/ship", id), Header: bearer(adminToken),
		Body: map[string]string{"tracking_number": "TRK42"},
	})
	testkit.AssertStatus(t, w, http.StatusOK)

	// The buyer closes the loop.
	w = testkit.Do(t, h, testkit.Request{
		Method: "POST", Path: fmt.Sprintf("/api/orders/%d/complete", id), Header: bearer(userToken),
	})
	testkit.AssertStatus(t, w, http.StatusOK)

	var done struct {
		Data models.Order `json:"data"`
	}
	testkit.DecodeJSON(t, w, &done)
	assert.Equal(t, models.OrderCompleted, done.Data.Status)
	assert.Equal(t, "TRK42", done.Data.TrackingNumber)

	// Export carries the CSV headers.
	w = testkit.Do(t, h, testkit.Request{
		Method: "GET", Path: "/api/orders/admin/export", Header: bearer(adminToken),
	})
	testkit.AssertStatus(t, w, http.StatusOK)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), created.Data.OrderNumber)
}

func TestBatchConfirmRejectsEmptyList(t *testing.T) {
	h, db := newAPI(t)
	_, adminToken := seedAccount(t, db, "admin@example.com", models.RoleAdmin)

	w := testkit.Do(t, h, testkit.Request{
		Method: "POST", Path: "/api/orders/admin/batch-confirm", Header: bearer(adminToken),
		Body: map[string]interface{}{"order_ids": []uint{}},
	})
	testkit.AssertStatus(t, w, http.StatusBadRequest)
}

func TestProductDetailShape(t *testing.T) {
	h, db := newAPI(t)
	p := seedCatalogue(t, db)

	w := testkit.Do(t, h, testkit.Request{
		Method: "GET", Path: fmt.Sprintf("/api/products/%d", p.ID),
	})
	testkit.AssertStatus(t, w, http.StatusOK)

	var body struct {
		Data struct {
			Name    string   `json:"name"`
			Brand   string   `json:"brand"`
			InStock bool     `json:"in_stock"`
			Images  []string `json:"images"`
		} `json:"data"`
	}
	testkit.DecodeJSON(t, w, &body)
	assert.Equal(t, "1k resistor", body.Data.Name)
	assert.Equal(t, "Ohmite", body.Data.Brand)
	assert.True(t, body.Data.InStock)
	assert.Empty(t, body.Data.Images)
}

func TestNotFoundMapping(t *testing.T) {
	h, _ := newAPI(t)

	w := testkit.Do(t, h, testkit.Request{Method: "GET", Path: "/api/products/999"})
	testkit.AssertStatus(t, w, http.StatusNotFound)

	w = testkit.Do(t, h, testkit.Request{Method: "GET", Path: "/api/categories/999"})
	testkit.AssertStatus(t, w, http.StatusNotFound)
}

func TestCurrencyConvertEndpoint(t *testing.T) {
	h, _ := newAPI(t)

	w := testkit.Do(t, h, testkit.Request{
		Method: "GET", Path: "/api/currencies/convert?amount=100&from=USD&to=EUR",
	})
	testkit.AssertStatus(t, w, http.StatusOK)

	w = testkit.Do(t, h, testkit.Request{
		Method: "GET", Path: "/api/currencies/convert?amount=100&from=USD&to=XXX",
	})
	testkit.AssertStatus(t, w, http.StatusNotFound)
}

func TestGraphQLCatalogue(t *testing.T) {
	h, db := newAPI(t)
	p := seedCatalogue(t, db)

	w := testkit.Do(t, h, testkit.Request{
		Method: "POST", Path: "/api/graphql",
		Body: map[string]string{"query": fmt.Sprintf(`{ product(id: %d) { name brand stock } }`, p.ID)},
	})
	testkit.AssertStatus(t, w, http.StatusOK)

	var body struct {
		Data struct {
			Product struct {
				Name  string `json:"name"`
				Brand string `json:"brand"`
				Stock int    `json:"stock"`
			} `json:"product"`
		} `json:"data"`
	}
	testkit.DecodeJSON(t, w, &body)
	assert.Equal(t, "1k resistor", body.Data.Product.Name)
	assert.Equal(t, "Ohmite", body.Data.Product.Brand)
	assert.Equal(t, 500, body.Data.Product.Stock)
}
