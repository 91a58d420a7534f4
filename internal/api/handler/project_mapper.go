package handler

import (
	"github.com/terangafund/citizen-projects/internal/core/domain"
	"github.com/terangafund/citizen-projects/internal/core/ports"
)

func toCreateProjectInput(req createProjectRequest) ports.CreateProjectInput {
	return ports.CreateProjectInput{
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		FundingRequested: req.FundingRequested,
		StartDate:        req.StartDate,
		DurationMonths:   req.DurationMonths,
		Objectives:       req.Objectives,
		BudgetBreakdown:  req.BudgetBreakdown,
		Location:         req.Location,
	}
}

func toUpdateProjectInput(req updateProjectRequest) ports.UpdateProjectInput {
	in := ports.UpdateProjectInput{
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		FundingRequested: req.FundingRequested,
		StartDate:        req.StartDate,
		DurationMonths:   req.DurationMonths,
		Objectives:       req.Objectives,
		BudgetBreakdown:  req.BudgetBreakdown,
		Location:         req.Location,
	}
	if req.Status != nil {
		st := domain.ProjectStatus(*req.Status)
		in.Status = &st
	}
	return in
}
