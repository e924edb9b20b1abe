package types

// User is the authenticated principal. ID is the bearer token subject.
type User struct {
	ID string `json:"id"`
}

// Health is the body of a successful health check.
type Health struct {
	Status string `json:"status"`
}
