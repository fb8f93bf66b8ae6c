package dto

// Resource is one entry of a response's data member.
type Resource struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Attributes interface{} `json:"attributes"`
}

// DataResponse wraps a single resource, a list of resources, or an empty object.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// MessageResponse is returned by the coupon transition endpoints.
type MessageResponse struct {
	Message string        `json:"message"`
	Status  string        `json:"status,omitempty"`
	Coupon  *DataResponse `json:"coupon,omitempty"`
}
