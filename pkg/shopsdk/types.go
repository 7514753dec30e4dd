package shopsdk

// User is the public shape of an account as returned by the API.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// AuthResponse is the body of successful register/login calls.
type AuthResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

// refreshResponse is the body of a successful token refresh. Only the
// access token rotates; the refresh token stays as issued.
type refreshResponse struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"accessToken"`
}

// HealthChecks reports per-dependency health in readiness responses.
type HealthChecks struct {
	Database string `json:"database,omitempty"`
	Cache    string `json:"cache,omitempty"`
}

// HealthResponse is the body of the livez/readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// Product is a catalog entry. Price is in cents.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Image       string `json:"image,omitempty"`
	Category    string `json:"category,omitempty"`
	Stock       int    `json:"stock"`
}

// CartItem is a single product line in a cart.
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Cart is the caller's current cart contents.
type Cart struct {
	Items []CartItem `json:"items"`
}

// OrderItem is a product line frozen into an order at checkout price.
type OrderItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Order is a placed order.
type Order struct {
	ID        string      `json:"id"`
	Items     []OrderItem `json:"items"`
	Total     int64       `json:"total"`
	Status    string      `json:"status"`
	Address   string      `json:"address"`
	CreatedAt string      `json:"createdAt"`
}

// CreateOrderRequest places a cash-on-delivery order for the current
// cart contents.
type CreateOrderRequest struct {
	Address string `json:"address"`
}
