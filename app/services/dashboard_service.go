package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/voltmart/voltmart/app/models"
	"github.com/voltmart/voltmart/pkg/orm"
)

// DashboardService aggregates the back-office overview numbers.
type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// Stats is the admin dashboard snapshot.
type Stats struct {
	Orders        int64          `json:"orders"`
	PendingOrders int64          `json:"pending_orders"`
	Revenue       float64        `json:"revenue"`
	Products      int64          `json:"products"`
	Users         int64          `json:"users"`
	LowStock      int64          `json:"low_stock"`
	RecentOrders  []models.Order `json:"recent_orders"`
	SalesTrend    []DailySales   `json:"sales_trend"`
	GeneratedAt   string         `json:"generated_at"`
}

// DailySales is one day of the trend, oldest first, UTC days.
type DailySales struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Orders int     `json:"orders"`
}

// Stats computes the snapshot, cached for a short window since the dashboard
// polls it.
func (s *DashboardService) Stats(lowStockThreshold int) (Stats, error) {
	var stats Stats
	err := orm.Remember("dashboard:stats", 30*time.Second, &stats, func() error {
		if err := s.db.Model(&models.Order{}).Count(&stats.Orders).Error; err != nil {
			return err
		}
		if err := s.db.Model(&models.Order{}).
			Where("status = ?", models.OrderPending).
			Count(&stats.PendingOrders).Error; err != nil {
			return err
		}
		// Revenue counts everything that was not cancelled.
		if err := s.db.Model(&models.Order{}).
			Where("status <> ?", models.OrderCancelled).
			Select("COALESCE(SUM(total_amount), 0)").
			Scan(&stats.Revenue).Error; err != nil {
			return err
		}
		if err := s.db.Model(&models.Product{}).
			Where("is_active = ?", true).
			Count(&stats.Products).Error; err != nil {
			return err
		}
		if err := s.db.Model(&models.User{}).Count(&stats.Users).Error; err != nil {
			return err
		}
		if err := s.db.Model(&models.Product{}).
			Where("is_active = ? AND stock <= ?", true, lowStockThreshold).
			Count(&stats.LowStock).Error; err != nil {
			return err
		}
		if err := s.db.Model(&models.Order{}).
			Order("created_at DESC, id DESC").
			Limit(5).
			Find(&stats.RecentOrders).Error; err != nil {
			return err
		}
		trend, err := s.salesTrend()
		if err != nil {
			return err
		}
		stats.SalesTrend = trend
		stats.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
		return nil
	})
	return stats, err
}

// salesTrend buckets the last 7 days of non-cancelled orders by UTC day.
// Bucketing happens in Go so the query stays identical across drivers.
func (s *DashboardService) salesTrend() ([]DailySales, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -6)

	var window []models.Order
	if err := s.db.
		Where("created_at >= ? AND status <> ?", start, models.OrderCancelled).
		Find(&window).Error; err != nil {
		return nil, err
	}

	trend := make([]DailySales, 7)
	for i := range trend {
		trend[i].Date = start.AddDate(0, 0, i).Format("2006-01-02")
	}
	for _, o := range window {
		day := int(o.CreatedAt.UTC().Truncate(24*time.Hour).Sub(start).Hours() / 24)
		if day < 0 || day > 6 {
			continue
		}
		trend[day].Amount += o.TotalAmount
		trend[day].Orders++
	}
	return trend, nil
}
