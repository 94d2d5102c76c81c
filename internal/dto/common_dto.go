package dto

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

type ProfileFilter struct {
	Gender          string `form:"gender"`
	MaritalStatus   string `form:"marital_status"`
	PresentDistrict string `form:"district"`
	Department      string `form:"department"`
	EducationLevel  string `form:"education"`
	AgeMin          int    `form:"age_min"`
	AgeMax          int    `form:"age_max"`
	Page            int    `form:"page"`
	Limit           int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type UserFilter struct {
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}
