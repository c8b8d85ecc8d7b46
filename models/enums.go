package models

// OrderStatus is the lifecycle stage of an order. Transitions are forward-only
// and governed by services.Workflow; items mirror their parent order's status.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderServed    OrderStatus = "served"
	OrderPaid      OrderStatus = "paid"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPreparing, OrderReady, OrderServed, OrderPaid:
		return true
	}
	return false
}

// Terminal reports whether no further transition exists from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderPaid
}

type PaymentMethod string

const (
	PayCash PaymentMethod = "cash"
	PayCard PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	return m == PayCash || m == PayCard
}

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleStaff UserRole = "staff"
	RoleChef  UserRole = "chef"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleChef:
		return true
	}
	return false
}

type WaiterCallStatus string

const (
	CallActive   WaiterCallStatus = "active"
	CallResolved WaiterCallStatus = "resolved"
)
