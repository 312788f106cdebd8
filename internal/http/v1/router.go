package v1

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"meal-checkin/internal/http/v1/router"
	"meal-checkin/internal/service"
)

type Router interface {
	SetupRoutes(r chi.Router)
}

type RouterDependencies struct {
	CheckinService   *service.CheckinService
	RosterService    *service.RosterService
	DashboardService *service.DashboardService
	ReportService    *service.ReportService
}

func SetupRoutes(r chi.Router, deps *RouterDependencies, log *slog.Logger) {
	routers := []Router{
		router.NewHealthRouter(log),
		router.NewCheckinRouter(deps.CheckinService, deps.DashboardService, log),
		router.NewStudentRouter(deps.CheckinService, deps.RosterService, log),
		router.NewRosterRouter(deps.RosterService, log),
		router.NewDashboardRouter(deps.DashboardService, log),
		router.NewReportRouter(deps.ReportService, log),
	}

	for _, serviceRouter := range routers {
		serviceRouter.SetupRoutes(r)
	}
}
