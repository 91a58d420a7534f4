package handler

// --- Request types ---

type createProjectRequest struct {
	Title            string             `json:"title" validate:"required"`
	Description      string             `json:"description" validate:"required"`
	Category         string             `json:"category" validate:"required"`
	FundingRequested float64            `json:"funding_requested" validate:"required,gt=0"`
	StartDate        string             `json:"start_date"`
	DurationMonths   int                `json:"duration_months" validate:"omitempty,gt=0"`
	Objectives       []string           `json:"objectives"`
	BudgetBreakdown  map[string]float64 `json:"budget_breakdown"`
	Location         string             `json:"location"`
}

type updateProjectRequest struct {
	Title            *string             `json:"title"`
	Description      *string             `json:"description"`
	Category         *string             `json:"category"`
	FundingRequested *float64            `json:"funding_requested"`
	StartDate        *string             `json:"start_date"`
	DurationMonths   *int                `json:"duration_months"`
	Objectives       *[]string           `json:"objectives"`
	BudgetBreakdown  *map[string]float64 `json:"budget_breakdown"`
	Location         *string             `json:"location"`
	Status           *string             `json:"status"`
}

type reasonRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// --- Response types ---

type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}
