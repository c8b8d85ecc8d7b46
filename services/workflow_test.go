package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/tavolo-app/backend/models"
)

func placeOrder(t *testing.T, orders *OrderService, session *models.TableToken) *models.Order {
	t.Helper()
	order, err := orders.CreateOrder(session, []OrderLineInput{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}, "")
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	return order
}

func TestWorkflowHappyPath(t *testing.T) {
	orders, workflow, h := orderServices(t)
	session := activeSession(t, h.DB, 1, 1, 2)
	order := placeOrder(t, orders, session)

	order, err := workflow.Transition(1, order.ID, models.OrderPreparing, models.RoleChef, nil)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderPreparing, order.Status)

	order, err = workflow.Transition(1, order.ID, models.OrderReady, models.RoleChef, nil)
	assert.NoError(t, err)

	order, err = workflow.Transition(1, order.ID, models.OrderServed, models.RoleStaff, nil)
	assert.NoError(t, err)

	order, err = workflow.Pay(1, order.ID, models.RoleStaff, models.PayCard)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderPaid, order.Status)
	assert.NotNil(t, order.PaidAt)
	assert.Equal(t, models.PayCard, *order.PaymentMethod)
}

func TestWorkflowIsForwardOnly(t *testing.T) {
	orders, workflow, h := orderServices(t)
	session := activeSession(t, h.DB, 1, 1, 2)
	order := placeOrder(t, orders, session)

	_, err := workflow.Transition(1, order.ID, models.OrderPreparing, models.RoleAdmin, nil)
	assert.NoError(t, err)

	// Back to pending is not in the table, not even for an admin.
	_, err = workflow.Transition(1, order.ID, models.OrderPending, models.RoleAdmin, nil)
	var terr *TransitionError
	assert.ErrorAs(t, err, &terr)
	assert.Equal(t, models.OrderPreparing, terr.From)

	// Skipping ahead past ready is rejected too.
	_, err = workflow.Transition(1, order.ID, models.OrderServed, models.RoleAdmin, nil)
	assert.ErrorAs(t, err, &terr)
}

func TestWorkflowPaidIsTerminal(t *testing.T) {
	orders, workflow, h := orderServices(t)
	session := activeSession(t, h.DB, 1, 1, 2)
	order := placeOrder(t, orders, session)

	_, err := workflow.Pay(1, order.ID, models.RoleStaff, models.PayCash)
	assert.NoError(t, err)

	for _, to := range []models.OrderStatus{
		models.OrderPending, models.OrderPreparing, models.OrderReady,
		models.OrderServed, models.OrderPaid,
	} {
		method := models.PayCash
		_, err := workflow.Transition(1, order.ID, to, models.RoleAdmin, &method)
		var terr *TransitionError
		assert.ErrorAs(t, err, &terr, "paid order must not accept a move to %s", to)
	}
}

func TestWorkflowChefStopsAtReady(t *testing.T) {
	orders, workflow, h := orderServices(t)
	session := activeSession(t, h.DB, 1, 1, 2)
	order := placeOrder(t, orders, session)

	_, err := workflow.Transition(1, order.ID, models.OrderPreparing, models.RoleChef, nil)
	assert.NoError(t, err)
	_, err = workflow.Transition(1, order.ID, models.OrderReady, models.RoleChef, nil)
	assert.NoError(t, err)

	_, err = workflow.Transition(1, order.ID, models.OrderServed, models.RoleChef, nil)
	var terr *TransitionError
	assert.ErrorAs(t, err, &terr)
	assert.Equal(t, models.RoleChef, terr.Role)

	method := models.PayCash
	_, err = workflow.Transition(1, order.ID, models.OrderPaid, models.RoleChef, &method)
	assert.ErrorAs(t, err, &terr)
}

func TestWorkflowPayRequiresMethod(t *testing.T) {
	orders, workflow, h := orderServices(t)
	session := activeSession(t, h.DB, 1, 1, 2)
	order := placeOrder(t, orders, session)

	_, err := workflow.Transition(1, order.ID, models.OrderPaid, models.RoleStaff, nil)
	assert.ErrorIs(t, err, ErrPaymentMethodRequired)

	bogus := models.PaymentMethod("iou")
	_, err = workflow.Transition(1, order.ID, models.OrderPaid, models.RoleStaff, &bogus)
	assert.ErrorIs(t, err, ErrPaymentMethodRequired)

	// The order has not moved.
	var stored models.Order
	assert.NoError(t, h.DB.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderPending, stored.Status)
}

func TestWorkflowFansStatusOutToItems(t *testing.T) {
	orders, workflow, h := orderServices(t)
	session := activeSession(t, h.DB, 1, 1, 2)
	order := placeOrder(t, orders, session)

	order, err := workflow.Transition(1, order.ID, models.OrderPreparing, models.RoleChef, nil)
	assert.NoError(t, err)
	for _, item := range order.OrderItems {
		assert.Equal(t, models.OrderPreparing, item.Status)
	}
}

func TestNextStatuses(t *testing.T) {
	assert.ElementsMatch(t,
		[]models.OrderStatus{models.OrderPreparing, models.OrderPaid},
		NextStatuses(models.OrderPending))
	assert.ElementsMatch(t,
		[]models.OrderStatus{models.OrderPaid},
		NextStatuses(models.OrderServed))
	assert.Empty(t, NextStatuses(models.OrderPaid))
}

func TestWorkflowIsTenantScoped(t *testing.T) {
	orders, workflow, h := orderServices(t)
	session := activeSession(t, h.DB, 1, 1, 2)
	order := placeOrder(t, orders, session)

	// Staff of another restaurant cannot see, move, or settle the order.
	_, err := workflow.Pay(2, order.ID, models.RoleStaff, models.PayCash)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = workflow.Transition(2, order.ID, models.OrderPreparing, models.RoleAdmin, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var stored models.Order
	assert.NoError(t, h.DB.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderPending, stored.Status)
	assert.Nil(t, stored.PaymentMethod)
}

func TestCloseTableSettlesAndRevokes(t *testing.T) {
	orders, workflow, h := orderServices(t)
	session := activeSession(t, h.DB, 1, 1, 2)

	first := placeOrder(t, orders, session)
	second := placeOrder(t, orders, session)
	// One of them already made it into the kitchen.
	_, err := workflow.Transition(1, first.ID, models.OrderPreparing, models.RoleChef, nil)
	assert.NoError(t, err)

	settled, err := workflow.CloseTable(1, 1, models.RoleStaff, models.PayCash)
	assert.NoError(t, err)
	assert.Equal(t, 2, settled)

	for _, id := range []uint{first.ID, second.ID} {
		var stored models.Order
		assert.NoError(t, h.DB.Preload("OrderItems").First(&stored, id).Error)
		assert.Equal(t, models.OrderPaid, stored.Status)
		assert.NotNil(t, stored.PaidAt)
		for _, item := range stored.OrderItems {
			assert.Equal(t, models.OrderPaid, item.Status)
		}
	}

	// The session died with the bill: the customer's token no longer validates.
	tokens := NewTokenService(h.DB)
	_, err = tokens.Validate(session.Token, 1, 1)
	var verr *TokenValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, TokenRevoked, verr.Reason)
}

func TestCloseTableIsIdempotent(t *testing.T) {
	orders, workflow, h := orderServices(t)
	session := activeSession(t, h.DB, 1, 1, 2)
	placeOrder(t, orders, session)

	settled, err := workflow.CloseTable(1, 1, models.RoleStaff, models.PayCash)
	assert.NoError(t, err)
	assert.Equal(t, 1, settled)

	settled, err = workflow.CloseTable(1, 1, models.RoleStaff, models.PayCash)
	assert.NoError(t, err)
	assert.Zero(t, settled, "a second close finds nothing left to settle")
}

func TestCloseTableRejectsChef(t *testing.T) {
	orders, workflow, h := orderServices(t)
	session := activeSession(t, h.DB, 1, 1, 2)
	placeOrder(t, orders, session)

	_, err := workflow.CloseTable(1, 1, models.RoleChef, models.PayCash)
	var terr *TransitionError
	assert.ErrorAs(t, err, &terr)

	// Nothing was paid and the session survives.
	tokens := NewTokenService(h.DB)
	_, err = tokens.Validate(session.Token, 1, 1)
	assert.NoError(t, err)
}
