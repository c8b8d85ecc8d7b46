package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tavolo-app/backend/models"
	"github.com/tavolo-app/backend/realtime"
)

// ErrEmptyOrder rejects a submission or edit whose final line set is empty.
// Nothing is persisted in that case.
var ErrEmptyOrder = errors.New("the order must contain at least one item")

var ErrOrderClosed = errors.New("a paid order can no longer be edited")

// OrderLineInput is what the customer client sends per product. Prices are
// deliberately absent: unit and total prices are always recomputed here from
// the products table, never trusted from the client.
type OrderLineInput struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Notes     string `json:"notes"`
}

// EditItemInput is one line of a staff-side order correction. ID zero means a
// new line.
type EditItemInput struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Notes     *string `json:"notes"`
}

type EditOrderInput struct {
	Notes          *string         `json:"notes"`
	Items          []EditItemInput `json:"items"`
	RemovedItemIDs []uint          `json:"removed_item_ids"`
}

// OrderService builds and persists orders under the restaurant's pricing mode.
type OrderService struct {
	DB       *gorm.DB
	Sessions *SessionService
	Hub      *realtime.Hub
}

func NewOrderService(db *gorm.DB, sessions *SessionService, hub *realtime.Hub) *OrderService {
	return &OrderService{DB: db, Sessions: sessions, Hub: hub}
}

// BuildCart assembles a cart from customer input, pricing every line from the
// products table and enforcing AYCE limits. Unknown or unavailable products
// fail the whole submission rather than being silently skipped.
func (s *OrderService) BuildCart(restaurant *models.Restaurant, lines []OrderLineInput) (*Cart, error) {
	cart := NewCart(restaurant.AllYouCanEatActive())
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		var product models.Product
		if err := s.DB.Where("id = ? AND restaurant_id = ?", line.ProductID, restaurant.ID).
			First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("product %d is not on this menu", line.ProductID)
			}
			return nil, err
		}
		if !product.Available {
			return nil, fmt.Errorf("%s is currently not available", product.Name)
		}
		if err := cart.Add(product.ID, product.Name, product.Price, product.AyceLimit()); err != nil {
			return nil, err
		}
		if err := cart.SetQuantity(product.ID, line.Quantity); err != nil {
			return nil, err
		}
		cart.SetNotes(product.ID, line.Notes)
	}
	return cart, nil
}

// CreateOrder validates the cart and the party-size gate, then writes the
// order and its items in one transaction, everything in status pending.
func (s *OrderService) CreateOrder(session *models.TableToken, lines []OrderLineInput, notes string) (*models.Order, error) {
	partySize, err := s.Sessions.RequirePartySize(session)
	if err != nil {
		return nil, err
	}

	var restaurant models.Restaurant
	if err := s.DB.First(&restaurant, session.RestaurantID).Error; err != nil {
		return nil, err
	}

	cart, err := s.BuildCart(&restaurant, lines)
	if err != nil {
		return nil, err
	}
	if cart.Empty() {
		return nil, ErrEmptyOrder
	}

	order := &models.Order{
		RestaurantID: session.RestaurantID,
		TableID:      session.TableID,
		Status:       models.OrderPending,
		TotalAmount:  cart.Total(),
		Notes:        notes,
		PartySize:    &partySize,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for _, line := range cart.Lines() {
			item := models.OrderItem{
				OrderID:    order.ID,
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				UnitPrice:  cart.UnitPrice(line),
				TotalPrice: cart.LineTotal(line),
				Notes:      line.Notes,
				Status:     models.OrderPending,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			order.OrderItems = append(order.OrderItems, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.Hub != nil {
		s.Hub.Broadcast(realtime.EventOrderCreated, order)
	}
	return order, nil
}

// EditOrder applies a staff correction: quantity and note changes, added
// lines, and tracked removals. The order must belong to the caller's
// restaurant. The total is recomputed from the final surviving line set under
// the restaurant's pricing mode, and every touched or new line keeps the
// order's current workflow status.
func (s *OrderService) EditOrder(restaurantID, orderID uint, input EditOrderInput) (*models.Order, error) {
	var order models.Order
	if err := s.DB.Preload("OrderItems").Where("restaurant_id = ?", restaurantID).
		First(&order, orderID).Error; err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, ErrOrderClosed
	}

	var restaurant models.Restaurant
	if err := s.DB.First(&restaurant, order.RestaurantID).Error; err != nil {
		return nil, err
	}
	ayce := restaurant.AllYouCanEatActive()

	// ID zero means a new line, never a removable one; a stray 0 in the
	// removal list must not suppress additions.
	removed := make(map[uint]bool, len(input.RemovedItemIDs))
	for _, id := range input.RemovedItemIDs {
		if id != 0 {
			removed[id] = true
		}
	}
	// Driving a quantity to zero removes the line too.
	for _, upd := range input.Items {
		if upd.ID != 0 && upd.Quantity <= 0 {
			removed[upd.ID] = true
		}
	}

	// The non-empty invariant is checked before any write happens.
	surviving := 0
	for _, item := range order.OrderItems {
		if !removed[item.ID] {
			surviving++
		}
	}
	for _, upd := range input.Items {
		if upd.ID == 0 && upd.Quantity > 0 {
			surviving++
		}
	}
	if surviving == 0 {
		return nil, ErrEmptyOrder
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if len(removed) > 0 {
			ids := make([]uint, 0, len(removed))
			for id := range removed {
				ids = append(ids, id)
			}
			if err := tx.Where("order_id = ? AND id IN ?", order.ID, ids).
				Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
		}

		for _, upd := range input.Items {
			if upd.ID != 0 && removed[upd.ID] {
				continue
			}
			if upd.ID == 0 {
				if upd.Quantity <= 0 {
					continue
				}
				var product models.Product
				if err := tx.Where("id = ? AND restaurant_id = ?", upd.ProductID, order.RestaurantID).
					First(&product).Error; err != nil {
					return fmt.Errorf("product %d is not on this menu", upd.ProductID)
				}
				unit := product.Price
				if ayce {
					unit = 0
				}
				item := models.OrderItem{
					OrderID:    order.ID,
					ProductID:  product.ID,
					Quantity:   upd.Quantity,
					UnitPrice:  unit,
					TotalPrice: unit * float64(upd.Quantity),
					Status:     order.Status,
				}
				if upd.Notes != nil {
					item.Notes = *upd.Notes
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				continue
			}

			var item models.OrderItem
			if err := tx.Where("id = ? AND order_id = ?", upd.ID, order.ID).
				First(&item).Error; err != nil {
				return err
			}
			item.Quantity = upd.Quantity
			if upd.Notes != nil {
				item.Notes = *upd.Notes
			}
			if ayce {
				item.UnitPrice = 0
			}
			item.TotalPrice = item.UnitPrice * float64(item.Quantity)
			item.Status = order.Status
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}

		// Recompute the order total from what actually survived.
		var items []models.OrderItem
		if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
			return err
		}
		var total float64
		if !ayce {
			for _, item := range items {
				total += item.UnitPrice * float64(item.Quantity)
			}
		}
		order.TotalAmount = total
		if input.Notes != nil {
			order.Notes = *input.Notes
		}
		order.OrderItems = items
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"total_amount": order.TotalAmount,
				"notes":        order.Notes,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	if s.Hub != nil {
		s.Hub.Broadcast(realtime.EventOrderUpdated, order)
	}
	return &order, nil
}
