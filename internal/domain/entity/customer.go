package entity

// Customer is the invoice-side view of a client: enough for display names and
// per-client breakdowns. Full customer management lives outside this service.
type Customer struct {
	ID   string
	Name string
}
