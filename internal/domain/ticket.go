package domain

// Ticket is an issue filed in the external tracker.
type Ticket struct {
	Key string
	URL string
}
