package controller

import (
	"net/http"
	"sort"

	"github.com/declaradash/declaradash/internal/pkg/geo"
	"github.com/declaradash/declaradash/internal/service/session"
	"github.com/labstack/echo/v4"
)

type regionEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (c *Controller) ListRegions(ctx echo.Context) error {
	codes := geo.Codes()
	sort.Strings(codes)

	entries := make([]regionEntry, 0, len(codes))
	for _, code := range codes {
		name, _ := geo.Translate(code)
		entries = append(entries, regionEntry{Code: code, Name: name})
	}

	return ctx.JSON(http.StatusOK, entries)
}

type sessionStatus struct {
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

func (c *Controller) SessionStatus(ctx echo.Context) error {
	status := sessionStatus{
		Ready: c.session.State() == session.StateReady,
		Error: c.session.InitError(),
	}
	return ctx.JSON(http.StatusOK, status)
}
