package controller

import (
	"github.com/declaradash/declaradash/internal/service/explorer"
	"github.com/declaradash/declaradash/internal/service/reports"
	"github.com/declaradash/declaradash/internal/service/session"
)

type Controller struct {
	session  *session.Service
	explorer *explorer.Service
	reports  *reports.Service
}

func NewController(
	sessionService *session.Service,
	explorerService *explorer.Service,
	reportsService *reports.Service,
) *Controller {
	return &Controller{
		session:  sessionService,
		explorer: explorerService,
		reports:  reportsService,
	}
}
