package services

import (
	"gorm.io/gorm"

	"github.com/tavolo-app/backend/models"
	"github.com/tavolo-app/backend/realtime"
)

// WaiterCallService is the append/resolve log of call-for-service events. It
// rides the same broadcast-then-refetch pattern as orders.
type WaiterCallService struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

func NewWaiterCallService(db *gorm.DB, hub *realtime.Hub) *WaiterCallService {
	return &WaiterCallService{DB: db, Hub: hub}
}

// Create records an active call from the table.
func (s *WaiterCallService) Create(restaurantID, tableID uint) (*models.WaiterCall, error) {
	call := &models.WaiterCall{
		RestaurantID: restaurantID,
		TableID:      tableID,
		Status:       models.CallActive,
	}
	if err := s.DB.Create(call).Error; err != nil {
		return nil, err
	}
	if s.Hub != nil {
		s.Hub.Broadcast(realtime.EventWaiterCall, call)
	}
	return call, nil
}

// Resolve closes the call. The call must belong to the caller's restaurant.
// One-way; resolving an already resolved call is a no-op that still succeeds.
func (s *WaiterCallService) Resolve(restaurantID, callID uint) (*models.WaiterCall, error) {
	var call models.WaiterCall
	if err := s.DB.Where("restaurant_id = ?", restaurantID).First(&call, callID).Error; err != nil {
		return nil, err
	}
	if call.Status != models.CallResolved {
		now := s.DB.NowFunc()
		call.Status = models.CallResolved
		call.ResolvedAt = &now
		if err := s.DB.Model(&call).Updates(map[string]interface{}{
			"status":      models.CallResolved,
			"resolved_at": now,
		}).Error; err != nil {
			return nil, err
		}
	}
	if s.Hub != nil {
		s.Hub.Broadcast(realtime.EventWaiterCallUpdated, call)
	}
	return &call, nil
}

// Active lists unresolved calls for the restaurant, oldest first.
func (s *WaiterCallService) Active(restaurantID uint) ([]models.WaiterCall, error) {
	var calls []models.WaiterCall
	err := s.DB.Preload("Table").
		Where("restaurant_id = ? AND status = ?", restaurantID, models.CallActive).
		Order("created_at asc").Find(&calls).Error
	return calls, err
}
