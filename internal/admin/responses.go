package admin

import "time"

// ProvidersResponse lists the providers the gateway can normalize.
type ProvidersResponse struct {
	Providers []string `json:"providers"`
	Total     int      `json:"total"`
}

// MerchantInfoResponse is the HTTP response DTO for a merchant.
type MerchantInfoResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// MerchantsListResponse wraps the list of merchants for HTTP response.
type MerchantsListResponse struct {
	Merchants []*MerchantInfoResponse `json:"merchants"`
	Total     int                     `json:"total"`
}
