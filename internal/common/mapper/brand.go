package mapper

import (
	branddomain "github.com/brand-registry/backend/internal/brand/domain"
)

type BrandResponse struct {
	ID          int64  `json:"id"`
	BrandTitle  string `json:"brand_title"`
	UserID      int64  `json:"user_id"`
	StateTypeID int64  `json:"state_type_id"`
}

func BrandToResponse(brand branddomain.Brand) BrandResponse {
	return BrandResponse{
		ID:          brand.ID,
		BrandTitle:  brand.Title,
		UserID:      brand.UserID,
		StateTypeID: brand.StateTypeID,
	}
}

func BrandsToResponse(brands []branddomain.Brand) []BrandResponse {
	result := make([]BrandResponse, len(brands))
	for i, b := range brands {
		result[i] = BrandToResponse(b)
	}
	return result
}

func StateTypesToLookup(states []branddomain.StateType) []LookupResponse {
	result := make([]LookupResponse, len(states))
	for i, s := range states {
		result[i] = LookupResponse{ID: s.ID, Name: s.Name, Code: s.Code}
	}
	return result
}
