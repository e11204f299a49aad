package api

import (
	"github.com/labstack/echo/v4"
)

// Binder binds and then validates every request payload.
type Binder struct {
	base echo.DefaultBinder
}

func NewBinder() *Binder {
	return &Binder{}
}

func (b *Binder) Bind(i interface{}, ctx echo.Context) error {
	if err := b.base.Bind(i, ctx); err != nil {
		return err
	}
	return ctx.Validate(i)
}
