package main

import (
	"fmt"
	"net/http"

	"github.com/lengolf/lengolf-backend-go/internal/config"
	appHTTP "github.com/lengolf/lengolf-backend-go/internal/handler/http"
	"github.com/lengolf/lengolf-backend-go/internal/pkg/cache"
	"github.com/lengolf/lengolf-backend-go/internal/pkg/database"
	"github.com/lengolf/lengolf-backend-go/internal/repository/postgresql"
	payrollService "github.com/lengolf/lengolf-backend-go/internal/service/payroll"
	staffService "github.com/lengolf/lengolf-backend-go/internal/service/staff"
	timesheetService "github.com/lengolf/lengolf-backend-go/internal/service/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	staffRepo := postgresql.NewStaffRepository(db)
	timeEntryRepo := postgresql.NewTimeEntryRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)

	store := cache.New(cfg.Payroll.CacheTTL)
	loc := cfg.Location()

	timesheetSvc := timesheetService.NewTimesheetService(timeEntryRepo, store, loc)
	payrollSvc := payrollService.NewPayrollService(staffRepo, settingsRepo, timesheetSvc, store, loc)
	staffSvc := staffService.NewStaffService(staffRepo)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	timesheetHandler := appHTTP.NewTimesheetHandler(timesheetSvc)
	staffHandler := appHTTP.NewStaffHandler(staffSvc)

	router := appHTTP.NewRouter(payrollHandler, timesheetHandler, staffHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
