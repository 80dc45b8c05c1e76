package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/sqlite"
)

// token prints an access token for an existing employee, or provisions the
// first administrator with -create-admin.
func main() {
	employeeID := flag.String("employee", "", "employee ID to issue the token for")
	createAdmin := flag.String("create-admin", "", "create an ADMIN employee with this name and issue its token")
	flag.Parse()

	if (*employeeID == "") == (*createAdmin == "") {
		log.Fatal("exactly one of -employee or -create-admin is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var employees employee.EmployeeRepository
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		store, err := sqlite.New(cfg.Database.SQLitePath)
		if err != nil {
			log.Fatal("Error opening database: ", err)
		}
		defer store.Close()
		employees = sqlite.NewEmployeeRepository(store)
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: 2, MinConns: 1})
		if err != nil {
			log.Fatal("Error connecting to database: ", err)
		}
		defer db.Close()
		employees = postgresql.NewEmployeeRepository(db)
	}

	var e employee.Employee
	if *createAdmin != "" {
		e, err = employees.Create(ctx, employee.Employee{
			Name:   *createAdmin,
			Role:   employee.RoleAdmin,
			Status: employee.StatusActive,
		})
	} else {
		e, err = employees.GetByID(ctx, *employeeID)
	}
	if err != nil {
		log.Fatal("Error loading employee: ", err)
	}

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		log.Fatal("Failed to initialize JWT service: ", err)
	}

	token, expiresAt, err := JWTService.GenerateAccessToken(e.ID, e.Role)
	if err != nil {
		log.Fatal("Failed to sign token: ", err)
	}

	fmt.Println(token)
	log.Printf("issued for %s (%s), expires %s", e.Name, e.Role, time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
}
