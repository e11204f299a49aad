package controller

import (
	"net/http"

	"github.com/declaradash/declaradash/internal/service/explorer"
	"github.com/labstack/echo/v4"
)

type selectRegionRequest struct {
	Code string `json:"code" validate:"required"`
}

func (c *Controller) SelectRegion(ctx echo.Context) error {
	var req selectRegionRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	view, err := c.explorer.SelectRegion(ctx.Request().Context(), req.Code)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, view)
}

type selectInstitutionRequest struct {
	Institution string `json:"institution" validate:"required"`
}

func (c *Controller) SelectInstitution(ctx echo.Context) error {
	var req selectInstitutionRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	view, err := c.explorer.SelectInstitution(ctx.Request().Context(), req.Institution)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, view)
}

type turnPageRequest struct {
	Direction string `json:"direction" validate:"required,oneof=next prev"`
}

func (c *Controller) TurnPage(ctx echo.Context) error {
	var req turnPageRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	var (
		view *explorer.PageView
		err  error
	)
	if req.Direction == "next" {
		view, err = c.explorer.NextPage(ctx.Request().Context())
	} else {
		view, err = c.explorer.PrevPage(ctx.Request().Context())
	}
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, view)
}

func (c *Controller) GetSelection(ctx echo.Context) error {
	if err := c.session.Ready(); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c.explorer.State())
}
