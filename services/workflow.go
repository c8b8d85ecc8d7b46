package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tavolo-app/backend/models"
	"github.com/tavolo-app/backend/realtime"
)

var ErrPaymentMethodRequired = errors.New("a payment method (cash or card) is required to pay the bill")

// TransitionError reports an attempted move the state machine or the role
// gate does not allow.
type TransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
	Role models.UserRole
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s as %s", e.From, e.To, e.Role)
}

// transition pairs a state change with the roles allowed to trigger it. The
// kitchen role stops at ready: delivery and payment belong to the floor, and
// that is enforced here rather than by hiding buttons.
type transition struct {
	from  models.OrderStatus
	to    models.OrderStatus
	roles []models.UserRole
}

var orderTransitions = []transition{
	{models.OrderPending, models.OrderPreparing, []models.UserRole{models.RoleChef, models.RoleStaff, models.RoleAdmin}},
	{models.OrderPreparing, models.OrderReady, []models.UserRole{models.RoleChef, models.RoleStaff, models.RoleAdmin}},
	{models.OrderReady, models.OrderServed, []models.UserRole{models.RoleStaff, models.RoleAdmin}},
	// Paying is allowed from any non-terminal state: walk-outs get settled
	// even when the kitchen never touched the order.
	{models.OrderPending, models.OrderPaid, []models.UserRole{models.RoleStaff, models.RoleAdmin}},
	{models.OrderPreparing, models.OrderPaid, []models.UserRole{models.RoleStaff, models.RoleAdmin}},
	{models.OrderReady, models.OrderPaid, []models.UserRole{models.RoleStaff, models.RoleAdmin}},
	{models.OrderServed, models.OrderPaid, []models.UserRole{models.RoleStaff, models.RoleAdmin}},
}

// CanTransition checks the closed transition table. There is no backward path
// anywhere in it: the workflow is forward-only and paid is terminal.
func CanTransition(from, to models.OrderStatus, role models.UserRole) bool {
	for _, t := range orderTransitions {
		if t.from != from || t.to != to {
			continue
		}
		for _, r := range t.roles {
			if r == role {
				return true
			}
		}
	}
	return false
}

// NextStatuses lists where an order can go from its current state, any role.
func NextStatuses(from models.OrderStatus) []models.OrderStatus {
	var next []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range orderTransitions {
		if t.from == from && !seen[t.to] {
			next = append(next, t.to)
			seen[t.to] = true
		}
	}
	return next
}

// WorkflowService advances orders through the kitchen, floor and payment
// stages, fanning each order status out to its items and broadcasting every
// change so subscribed views refetch.
type WorkflowService struct {
	DB     *gorm.DB
	Tokens *TokenService
	Hub    *realtime.Hub
}

func NewWorkflowService(db *gorm.DB, tokens *TokenService, hub *realtime.Hub) *WorkflowService {
	return &WorkflowService{DB: db, Tokens: tokens, Hub: hub}
}

// Transition moves the order to the target status on behalf of the given
// role. The order must belong to the caller's restaurant; a foreign order is
// indistinguishable from a missing one. Paying requires a payment method;
// every transition syncs all child item statuses in the same transaction.
func (s *WorkflowService) Transition(restaurantID, orderID uint, to models.OrderStatus, role models.UserRole, method *models.PaymentMethod) (*models.Order, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("unknown order status %q", to)
	}

	var order models.Order
	if err := s.DB.Preload("OrderItems").Where("restaurant_id = ?", restaurantID).
		First(&order, orderID).Error; err != nil {
		return nil, err
	}

	if !CanTransition(order.Status, to, role) {
		return nil, &TransitionError{From: order.Status, To: to, Role: role}
	}

	if to == models.OrderPaid {
		if method == nil || !method.Valid() {
			return nil, ErrPaymentMethodRequired
		}
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": to}
		if to == models.OrderPaid {
			updates["payment_method"] = *method
			updates["paid_at"] = tx.NowFunc()
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Updates(updates).Error; err != nil {
			return err
		}
		return tx.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).
			Update("status", to).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.DB.Preload("OrderItems").First(&order, orderID).Error; err != nil {
		return nil, err
	}

	if s.Hub != nil {
		s.Hub.Broadcast(realtime.EventOrderUpdated, order)
	}
	return &order, nil
}

// Pay settles a single order.
func (s *WorkflowService) Pay(restaurantID, orderID uint, role models.UserRole, method models.PaymentMethod) (*models.Order, error) {
	return s.Transition(restaurantID, orderID, models.OrderPaid, role, &method)
}

// CloseTable pays every open order of the table at once and revokes its
// tokens, ending the customer session: the next seating needs a fresh scan.
// Returns the number of orders settled.
func (s *WorkflowService) CloseTable(restaurantID, tableID uint, role models.UserRole, method models.PaymentMethod) (int, error) {
	if role != models.RoleStaff && role != models.RoleAdmin {
		return 0, &TransitionError{From: models.OrderServed, To: models.OrderPaid, Role: role}
	}
	if !method.Valid() {
		return 0, ErrPaymentMethodRequired
	}

	var orders []models.Order
	if err := s.DB.Where("restaurant_id = ? AND table_id = ? AND status <> ?",
		restaurantID, tableID, models.OrderPaid).Find(&orders).Error; err != nil {
		return 0, err
	}

	if len(orders) > 0 {
		ids := make([]uint, len(orders))
		for i, o := range orders {
			ids[i] = o.ID
		}
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Order{}).Where("id IN ?", ids).
				Updates(map[string]interface{}{
					"status":         models.OrderPaid,
					"payment_method": method,
					"paid_at":        tx.NowFunc(),
				}).Error; err != nil {
				return err
			}
			return tx.Model(&models.OrderItem{}).Where("order_id IN ?", ids).
				Update("status", models.OrderPaid).Error
		})
		if err != nil {
			return 0, err
		}
	}

	// Token revocation is a separate write, after the payment commit: if it
	// fails the orders stay paid and the revocation is retried idempotently.
	if err := s.Tokens.RevokeAllForTable(restaurantID, tableID); err != nil {
		return len(orders), err
	}

	if s.Hub != nil {
		s.Hub.Broadcast(realtime.EventTableSession, map[string]interface{}{
			"restaurant_id": restaurantID,
			"table_id":      tableID,
			"closed":        true,
		})
	}
	return len(orders), nil
}
