package dto

import "github.com/gradeufla/planner-api/internal/catalog"

// SubjectQuery filters the catalog listing.
type SubjectQuery struct {
	Term      int    `form:"term" json:"term"`
	Kind      string `form:"kind" json:"kind" validate:"omitempty,oneof=REQUIRED ELECTIVE"`
	Subgroup  string `form:"subgroup" json:"subgroup"`
	Search    string `form:"search" json:"search"`
	Page      int    `form:"page" json:"page"`
	PageSize  int    `form:"pageSize" json:"pageSize"`
	SortBy    string `form:"sortBy" json:"sortBy"`
	SortOrder string `form:"sortOrder" json:"sortOrder"`
}

// ImportResponse reports the outcome of a catalog import.
type ImportResponse struct {
	Report *catalog.Report `json:"report"`
}
