package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tavolo-app/backend/models"
)

// setupTestDB opens an in-memory database and seeds one standard restaurant
// and one AYCE restaurant with tables and products.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.Restaurant{},
		&models.User{},
		&models.Table{},
		&models.TableToken{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.WaiterCall{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	// Restaurant 1: standard pricing
	db.Create(&models.Restaurant{Name: "Trattoria Uno"})
	// Restaurant 2: AYCE with a lunch price configured
	lunch := 19.90
	db.Create(&models.Restaurant{Name: "Sakura AYCE", AllYouCanEatEnabled: true, AyceLunchPrice: &lunch})

	db.Create(&models.Table{RestaurantID: 1, Name: "T1", Active: true})
	db.Create(&models.Table{RestaurantID: 1, Name: "T2", Active: true})
	db.Create(&models.Table{RestaurantID: 2, Name: "S1", Active: true})

	db.Create(&models.Category{RestaurantID: 1, Name: "Mains"})
	db.Create(&models.Category{RestaurantID: 2, Name: "Sushi"})

	// Products 1 and 2 belong to the standard restaurant.
	db.Create(&models.Product{RestaurantID: 1, CategoryID: 1, Name: "Margherita", Price: 8.00, Available: true})
	db.Create(&models.Product{RestaurantID: 1, CategoryID: 1, Name: "Tiramisu", Price: 5.50, Available: true})
	// Available has a column default of true, so a zero-value false is
	// dropped from the insert; force the column after creating the row.
	soldOut := models.Product{RestaurantID: 1, CategoryID: 1, Name: "Sold Out Special", Price: 12.00}
	db.Create(&soldOut)
	db.Model(&soldOut).Update("available", false)
	// Product 4: AYCE-limited to 2 pieces per cart.
	db.Create(&models.Product{RestaurantID: 2, CategoryID: 2, Name: "Salmon Nigiri", Price: 4.50, Available: true,
		AyceLimitEnabled: true, AyceLimitQuantity: 2})
	db.Create(&models.Product{RestaurantID: 2, CategoryID: 2, Name: "Miso Soup", Price: 3.00, Available: true})

	return db
}

// activeSession issues a token and puts a party size on it so order tests can
// get past the gate.
func activeSession(t *testing.T, db *gorm.DB, restaurantID, tableID uint, partySize int) *models.TableToken {
	t.Helper()

	tokens := NewTokenService(db)
	sessions := NewSessionService(db, tokens)

	token, err := tokens.Issue(restaurantID, tableID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if partySize > 0 {
		if err := sessions.SetPartySize(token, partySize); err != nil {
			t.Fatalf("set party size: %v", err)
		}
	}
	return token
}
