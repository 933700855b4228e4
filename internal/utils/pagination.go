package utils

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
)

// PaginationParams contains the parsed page and page size of a list request.
type PaginationParams struct {
	Page  int
	Limit int
}

// Offset returns the number of rows to skip.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PaginationMetadata describes a page of results.
// NextPage and PreviousPage are null when there is no such page.
type PaginationMetadata struct {
	TotalPage    int  `json:"totalPage"`
	TotalData    int  `json:"totalData"`
	PerPage      int  `json:"perPage"`
	CurrentPage  int  `json:"currentPage"`
	NextPage     *int `json:"nextPage"`
	PreviousPage *int `json:"previousPage"`
}

// GetPaginationParams extracts page and limit from the query string.
// Missing values take the defaults; present values must be integers with
// page >= 1 and limit within [MinPageSize, MaxPageSize].
//
// Parameters:
//   - r: The HTTP request
//
// Returns:
//   - The pagination parameters
//   - A validation error listing every invalid parameter
func GetPaginationParams(r *http.Request) (PaginationParams, error) {
	params := PaginationParams{Page: constants.DefaultPage, Limit: constants.DefaultPageSize}
	details := map[string]any{}
	query := r.URL.Query()

	if raw := strings.TrimSpace(query.Get(constants.QueryParamPage)); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			details[constants.QueryParamPage] = []string{"Must be an integer greater than or equal to 1"}
		} else {
			params.Page = page
		}
	}

	if raw := strings.TrimSpace(query.Get(constants.QueryParamLimit)); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < constants.MinPageSize || limit > constants.MaxPageSize {
			details[constants.QueryParamLimit] = []string{
				fmt.Sprintf("Must be an integer between %d and %d", constants.MinPageSize, constants.MaxPageSize),
			}
		} else {
			params.Limit = limit
		}
	}

	if len(details) > 0 {
		return params, NewValidationErrorWithDetails(details)
	}
	return params, nil
}

// NewPaginationMetadata computes the metadata for a page of results.
//
// Parameters:
//   - totalData: The total number of matching rows
//   - limit: The page size
//   - page: The current page number
//
// Returns:
//   - The computed metadata
func NewPaginationMetadata(totalData, limit, page int) PaginationMetadata {
	totalPage := 0
	if limit > 0 {
		totalPage = (totalData + limit - 1) / limit
	}

	meta := PaginationMetadata{
		TotalPage:   totalPage,
		TotalData:   totalData,
		PerPage:     limit,
		CurrentPage: page,
	}

	if !(page >= totalPage || totalPage == 1) {
		next := page + 1
		meta.NextPage = &next
	}
	if !(page == 1 || page > totalPage+1) {
		prev := page - 1
		meta.PreviousPage = &prev
	}

	return meta
}
