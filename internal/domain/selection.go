package domain

// PageSize is fixed for every declaration listing.
const PageSize = 10

// SelectionState is the region → institution → page navigation state.
type SelectionState struct {
	RegionCode  string `json:"region_code,omitempty"`
	RegionName  string `json:"region_name,omitempty"`
	Institution string `json:"institution,omitempty"`
	Page        int    `json:"page"`
	TotalPages  int    `json:"total_pages"`
	TotalCount  int64  `json:"total_count"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
