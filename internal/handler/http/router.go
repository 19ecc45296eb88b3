package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

func NewRouter(payrollHandler PayrollHandler, timesheetHandler TimesheetHandler, staffHandler StaffHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "lengolf-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/payroll", func(r chi.Router) {
			r.Route("/settings", func(r chi.Router) {
				r.Get("/daily-allowance", payrollHandler.GetDailyAllowance)
				r.Put("/daily-allowance", payrollHandler.UpdateDailyAllowance)
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", payrollHandler.ListPublicHolidays)
				r.Post("/", payrollHandler.CreatePublicHoliday)
				r.Patch("/{id}", payrollHandler.UpdatePublicHoliday)
			})

			r.Route("/service-charge/{year}/{month}", func(r chi.Router) {
				r.Get("/", payrollHandler.GetServiceCharge)
				r.Put("/", payrollHandler.UpsertServiceCharge)
			})

			r.Route("/{year}/{month}", func(r chi.Router) {
				r.Get("/", payrollHandler.GetMonthlyPayroll)
				r.Get("/review-entries", payrollHandler.GetReviewEntries)
			})
		})

		r.Route("/time-entries", func(r chi.Router) {
			r.Get("/", timesheetHandler.ListTimeEntries)
			r.Patch("/{id}", timesheetHandler.CorrectTimeEntry)
		})

		r.Route("/staff", func(r chi.Router) {
			r.Get("/", staffHandler.ListActiveStaff)
			r.Get("/{id}", staffHandler.GetStaff)

			r.Route("/{id}/compensation", func(r chi.Router) {
				r.Get("/", payrollHandler.ListCompensationSettings)
				r.Post("/", payrollHandler.CreateCompensationSetting)
			})

			r.Get("/{id}/timesheet/{year}/{month}", timesheetHandler.GetMonthTimesheet)
		})
	})
	return r
}
