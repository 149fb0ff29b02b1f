package repository

import (
	"errors"
	"fmt"
	"time"

	catalogModel "storefront_api/internal/domain/catalog/model"
	"storefront_api/internal/domain/order/model"

	"gorm.io/gorm"
)

var (
	// ErrStaleStatus is returned when a CAS-guarded status write matched no
	// row: another caller moved the order first.
	ErrStaleStatus = errors.New("order status changed concurrently")

	// ErrInsufficientStock is matched (via errors.Is) by stock decrement
	// failures inside the creation transaction.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError identifies which product fell short so the caller
// can report its display name and remaining quantity.
type InsufficientStockError struct {
	ProductID string
}

func (e *InsufficientStockError) Error() string {
	return "insufficient stock for product " + e.ProductID
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

type OrderRepository interface {
	// CreateWithStockReservation persists the order and decrements stock for
	// every line in one transaction. Any shortfall rolls back the insert.
	CreateWithStockReservation(order *model.Order) error

	GetByID(id string) (*model.Order, error)
	GetList(status string, offset, limit int) ([]model.Order, int64, error)

	// UpdateStatus applies a state-machine edge guarded on the previously
	// read status. extra columns ride in the same statement.
	UpdateStatus(id, from, to string, extra map[string]interface{}) error

	// CancelWithStockRestore moves the order to CANCELED (CAS on from) and
	// adds every line's quantity back, all in one transaction.
	CancelWithStockRestore(order *model.Order) error

	// MarkPaid sets payment_status=paid, status=PAID and the transaction code
	// conditioned on the order not already being paid. Returns whether the
	// write applied; false means an earlier delivery already won.
	MarkPaid(id, transactionCode string) (bool, error)

	// FindOverdue returns AWAITING_PAYMENT orders whose deadline has lapsed
	// and that no earlier sweep has touched.
	FindOverdue(now time.Time) ([]model.Order, error)

	// ExpireWithStockRestore marks one overdue order EXPIRED and restores its
	// stock in one transaction. Returns false when another sweep won the race.
	ExpireWithStockRestore(order *model.Order, now time.Time) (bool, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateWithStockReservation(order *model.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := decrementStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) GetByID(id string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetList(status string, offset, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	query := r.db.Model(&model.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) UpdateStatus(id, from, to string, extra map[string]interface{}) error {
	return updateStatusCAS(r.db, id, from, to, extra)
}

func (r *orderRepository) CancelWithStockRestore(order *model.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := updateStatusCAS(tx, order.ID, order.Status, model.StatusCanceled, nil); err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := restoreStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) MarkPaid(id, transactionCode string) (bool, error) {
	updates := map[string]interface{}{
		"payment_status":   model.PaymentStatusPaid,
		"status":           model.StatusPaid,
		"transaction_code": transactionCode,
	}

	result := r.db.Model(&model.Order{}).
		Where("id = ? AND payment_status <> ?", id, model.PaymentStatusPaid).
		Updates(updates)

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *orderRepository) FindOverdue(now time.Time) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.
		Where("status = ? AND payment_deadline < ? AND expired_at IS NULL",
			model.StatusAwaitingPayment, now).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ExpireWithStockRestore(order *model.Order, now time.Time) (bool, error) {
	applied := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// The expired_at guard keeps overlapping sweeps from restoring twice.
		result := tx.Model(&model.Order{}).
			Where("id = ? AND status = ? AND expired_at IS NULL",
				order.ID, model.StatusAwaitingPayment).
			Updates(map[string]interface{}{
				"status":     model.StatusExpired,
				"expired_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		for _, item := range order.Items {
			if err := restoreStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		applied = true
		return nil
	})
	return applied, err
}

// updateStatusCAS conditions the write on the row still holding the status the
// caller read, so two racing transitions cannot both succeed.
func updateStatusCAS(tx *gorm.DB, id, from, to string, extra map[string]interface{}) error {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}

	result := tx.Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// decrementStock re-validates sufficiency inside the same statement as the
// write; a stale earlier check can never drive the counter negative.
func decrementStock(tx *gorm.DB, productID string, quantity int) error {
	result := tx.Model(&catalogModel.Product{}).
		Where("id = ? AND quantity >= ?", productID, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &InsufficientStockError{ProductID: productID}
	}
	return nil
}

func restoreStock(tx *gorm.DB, productID string, quantity int) error {
	result := tx.Model(&catalogModel.Product{}).
		Where("id = ?", productID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %s not found during stock restore", productID)
	}
	return nil
}
