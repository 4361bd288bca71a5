package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/voltmart/voltmart/app/models"
	"github.com/voltmart/voltmart/pkg/collection"
	"github.com/voltmart/voltmart/pkg/event"
	"github.com/voltmart/voltmart/pkg/orm"
)

// Event names fired by OrderService after a successful commit.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderCreatedPayload accompanies EventOrderCreated.
type OrderCreatedPayload struct {
	Order *models.Order
	Items []models.OrderItem
}

// OrderStatusChangedPayload accompanies EventOrderStatusChanged.
type OrderStatusChangedPayload struct {
	Order *models.Order
	From  models.OrderStatus
}

// OrderService turns carts into orders and drives the status lifecycle:
// pending → confirmed → shipped → completed, with pending → cancelled as the
// only early exit. Creation and cancellation run as single transactions; the
// other transitions are pure status writes.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// newOrderNumber builds "VM" + UTC timestamp + 4 random digits. Collisions
// within one second are possible but harmless: OrderNumber is display-only
// and the primary key is the row ID.
func newOrderNumber() string {
	return fmt.Sprintf("VM%s%d", time.Now().UTC().Format("20060102150405"), 1000+rand.Intn(9000))
}

// Create converts the user's cart into an order atomically: every line is
// validated against the live product row, stock is decremented with a
// conditional update so two concurrent orders can never oversell, the order
// and its item snapshots are inserted, and the cart is emptied. Any failure
// rolls the whole thing back.
func (s *OrderService) Create(userID uint, remark string) (*models.Order, error) {
	var created models.Order
	var createdItems []models.OrderItem

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cart []models.CartItem
		if err := tx.Where("user_id = ?", userID).Order("id").Find(&cart).Error; err != nil {
			return err
		}
		if len(cart) == 0 {
			return ErrEmptyCart
		}

		var total float64
		items := make([]models.OrderItem, 0, len(cart))

		for _, line := range cart {
			var p models.Product
			if err := tx.First(&p, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return err
			}
			if !p.IsActive {
				return ErrProductInactive
			}

			// Conditional decrement: zero rows affected means another
			// transaction took the stock first.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", p.ID, line.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientStock
			}

			items = append(items, models.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				ModelNumber: p.ModelNumber,
				Quantity:    line.Quantity,
				UnitPrice:   p.Price,
			})
			total += p.Price * float64(line.Quantity)
		}

		order := models.Order{
			OrderNumber: newOrderNumber(),
			UserID:      userID,
			Status:      models.OrderPending,
			TotalAmount: total,
			Remark:      remark,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		created = order
		createdItems = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	event.FireAsync(EventOrderCreated, OrderCreatedPayload{Order: &created, Items: createdItems})
	return &created, nil
}

// OrderQuery filters and paginates order listings.
type OrderQuery struct {
	UserID   uint // zero means all users (admin listing)
	Status   models.OrderStatus
	Page     int
	PageSize int
}

// List returns orders newest-first, optionally filtered by owner and status.
func (s *OrderService) List(q OrderQuery) ([]models.Order, orm.Pagination, error) {
	query := s.db.Model(&models.Order{})
	if q.UserID != 0 {
		query = query.Where("user_id = ?", q.UserID)
	}
	if q.Status != "" {
		if !q.Status.Valid() {
			return nil, orm.Pagination{}, ErrInvalidStatus
		}
		query = query.Where("status = ?", q.Status)
	}
	query = query.Order("created_at DESC, id DESC")

	var orders []models.Order
	pg, err := orm.Paginate(query, q.Page, q.PageSize, &orders)
	if err != nil {
		return nil, orm.Pagination{}, err
	}
	return orders, pg, nil
}

// Get returns one order with its items. When userID is non-zero the order
// must belong to that user; admins pass zero to skip the ownership check.
func (s *OrderService) Get(orderID, userID uint) (*models.Order, []models.OrderItem, error) {
	var order models.Order
	query := s.db.Where("id = ?", orderID)
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrOrderNotFound
		}
		return nil, nil, err
	}

	var items []models.OrderItem
	if err := s.db.Where("order_id = ?", order.ID).Order("id").Find(&items).Error; err != nil {
		return nil, nil, err
	}
	return &order, items, nil
}

// Count returns how many orders the user has placed.
func (s *OrderService) Count(userID uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// Cancel moves a pending order to cancelled and restores the stock taken at
// creation. The compensating updates run in the same transaction as the
// status write.
func (s *OrderService) Cancel(orderID, userID uint) (*models.Order, error) {
	var cancelled models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status != models.OrderPending {
			return ErrInvalidTransition
		}

		var items []models.OrderItem
		if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
			return err
		}
		for _, item := range items {
			res := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
		}

		order.Status = models.OrderCancelled
		if err := tx.Save(&order).Error; err != nil {
			return err
		}
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	event.FireAsync(EventOrderStatusChanged, OrderStatusChangedPayload{Order: &cancelled, From: models.OrderPending})
	return &cancelled, nil
}

// Complete moves a shipped order to completed, confirming receipt. Owner-only.
func (s *OrderService) Complete(orderID, userID uint) (*models.Order, error) {
	return s.transition(orderID, userID, models.OrderShipped, models.OrderCompleted, "")
}

// Confirm moves a pending order to confirmed. Admin action.
func (s *OrderService) Confirm(orderID uint) (*models.Order, error) {
	return s.transition(orderID, 0, models.OrderPending, models.OrderConfirmed, "")
}

// Ship moves a confirmed order to shipped, optionally attaching a tracking
// number. Admin action.
func (s *OrderService) Ship(orderID uint, trackingNumber string) (*models.Order, error) {
	return s.transition(orderID, 0, models.OrderConfirmed, models.OrderShipped, trackingNumber)
}

// transition applies one guarded status write. The order must currently be in
// from; anything else fails with ErrInvalidTransition and leaves the row
// untouched.
func (s *OrderService) transition(orderID, userID uint, from, to models.OrderStatus, tracking string) (*models.Order, error) {
	var updated models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		query := tx.Where("id = ?", orderID)
		if userID != 0 {
			query = query.Where("user_id = ?", userID)
		}
		if err := query.First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status != from {
			return ErrInvalidTransition
		}

		order.Status = to
		if tracking != "" {
			order.TrackingNumber = tracking
		}
		if err := tx.Save(&order).Error; err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	event.FireAsync(EventOrderStatusChanged, OrderStatusChangedPayload{Order: &updated, From: from})
	return &updated, nil
}

// BatchResult reports the outcome of one order in a batch operation.
type BatchResult struct {
	OrderID uint   `json:"order_id"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

// BatchConfirm confirms each listed order independently; one bad order does
// not block the rest. Duplicate IDs are collapsed so an order is only
// confirmed once per batch.
func (s *OrderService) BatchConfirm(orderIDs []uint) []BatchResult {
	return collection.Map(collection.Unique(orderIDs), func(id uint) BatchResult {
		if _, err := s.Confirm(id); err != nil {
			return BatchResult{OrderID: id, Error: err.Error()}
		}
		return BatchResult{OrderID: id, OK: true}
	})
}

// ExportCSV writes every order (optionally filtered by status) as CSV, one
// row per item snapshot with the order columns repeated. The customer email
// is blank for accounts deleted after ordering.
func (s *OrderService) ExportCSV(w io.Writer, status models.OrderStatus) error {
	query := s.db.Model(&models.Order{}).Order("created_at DESC, id DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return err
	}

	emails := map[uint]string{}
	itemsByOrder := map[uint][]models.OrderItem{}
	if len(orders) > 0 {
		var users []models.User
		userIDs := collection.Unique(collection.Map(orders, func(o models.Order) uint { return o.UserID }))
		if err := s.db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return err
		}
		for _, u := range users {
			emails[u.ID] = u.Email
		}

		var items []models.OrderItem
		orderIDs := collection.Map(orders, func(o models.Order) uint { return o.ID })
		if err := s.db.Where("order_id IN ?", orderIDs).Order("order_id, id").Find(&items).Error; err != nil {
			return err
		}
		for _, item := range items {
			itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
		}
	}

	cw := csv.NewWriter(w)
	header := []string{
		"order_number", "user_email", "status", "total_amount", "tracking_number",
		"created_at", "product_name", "model_number", "quantity", "unit_price",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, o := range orders {
		base := []string{
			o.OrderNumber,
			emails[o.UserID],
			string(o.Status),
			strconv.FormatFloat(o.TotalAmount, 'f', 2, 64),
			o.TrackingNumber,
			o.CreatedAt.UTC().Format(time.RFC3339),
		}
		items := itemsByOrder[o.ID]
		if len(items) == 0 {
			if err := cw.Write(append(base, "", "", "", "")); err != nil {
				return err
			}
			continue
		}
		for _, item := range items {
			record := append(append([]string{}, base...),
				item.ProductName,
				item.ModelNumber,
				strconv.Itoa(item.Quantity),
				strconv.FormatFloat(item.UnitPrice, 'f', 2, 64),
			)
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
