package models

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending  OrderStatus = "PENDING"
	StatusSuccess  OrderStatus = "SUCCESS"
	StatusCancel   OrderStatus = "CANCEL"
	StatusCreating OrderStatus = "CREATING"
)

// orderTransitions lists the allowed status edges. SUCCESS and CANCEL
// have no inbound edges yet; their triggers belong to downstream
// fulfilment and are rejected here until that exists.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:  {StatusCreating},
	StatusCreating: {},
	StatusSuccess:  {},
	StatusCancel:   {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
