package dto

// PurchaseRequest for buying an article. Quantity carries no binding tag:
// zero and negative values must reach the service to get the quantity
// error code instead of a generic binding failure.
type PurchaseRequest struct {
	CustomerID string `json:"customerId" binding:"required"`
	Reference  string `json:"reference" binding:"required"`
	Quantity   int    `json:"quantity"`
}
