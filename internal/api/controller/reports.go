package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (c *Controller) ListReports(ctx echo.Context) error {
	listed, err := c.reports.Refresh(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, listed)
}

func (c *Controller) ReportStats(ctx echo.Context) error {
	if _, err := c.reports.Refresh(ctx.Request().Context()); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c.reports.Stats())
}

type submitReportRequest struct {
	SubjectName string `json:"subject_name" validate:"required"`
	Institution string `json:"institution" validate:"required"`
	Reason      string `json:"reason" validate:"required"`
}

func (c *Controller) SubmitReport(ctx echo.Context) error {
	var req submitReportRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	report, err := c.reports.Submit(ctx.Request().Context(), req.SubjectName, req.Institution, req.Reason)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, report)
}

func (c *Controller) UpvoteReport(ctx echo.Context) error {
	if err := c.reports.Upvote(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
