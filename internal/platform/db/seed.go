package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"nomina/internal/auth"
	"nomina/internal/domain/employee"
	"nomina/internal/domain/params"
	"nomina/internal/platform/config"
)

// defaultParameters mirrors the legal reference values the application ships
// with. They are data, not law: the table can be edited at runtime and the
// calculators apply whatever is stored.
var defaultParameters = []params.Parameter{
	{Key: params.KeyMinimumWage, Value: 1300000, Description: "Salario Mínimo Mensual Legal Vigente"},
	{Key: params.KeyMonthlyAllowanceRef, Value: 162000, Description: "Auxilio de Transporte Mensual (valor legal de referencia)"},
	{Key: params.KeyBaseMonthDays, Value: 30, Description: "Días base para cálculos mensuales"},
	{Key: params.KeyHealthRate, Value: 0.04, Description: "Aporte a salud del empleado"},
	{Key: params.KeyPensionRate, Value: 0.04, Description: "Aporte a pensión del empleado"},
	{Key: params.KeySolidarityRate, Value: 0.01, Description: "Aporte al Fondo de Solidaridad Pensional"},
	{Key: params.KeySolidarityCapWages, Value: 4, Description: "Salario base (en SMMLV) para aplicar FSP"},
	{Key: "Tasa_Arl_Referencial", Value: 0.00522, Description: "Tasa de Riesgos Laborales (Clase I)"},
	{Key: "Tasa_Caja_Compensacion", Value: 0.04, Description: "Aporte a Caja de Compensación Familiar"},
	{Key: "Tasa_Cesantias", Value: 0.0833, Description: "Provisión mensual de Cesantías (Salario/12)"},
	{Key: params.KeyCesantiasInterestRate, Value: 0.12, Description: "Tasa de Intereses sobre Cesantías (anual)"},
	{Key: "Tasa_Prima", Value: 0.0833, Description: "Provisión mensual de Prima de Servicios (Salario/12)"},
	{Key: "Tasa_Vacaciones", Value: 0.0417, Description: "Provisión mensual de Vacaciones (Salario/24)"},
	{Key: params.KeyAllowanceCapWages, Value: 2, Description: "Salario máximo (en SMMLV) para recibir Aux. Transporte"},
}

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureParameters(ctx, pool); err != nil {
		return err
	}
	if cfg.SeedAdminEmail != "" && cfg.SeedAdminPassword != "" {
		if err := ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			return err
		}
	}
	if cfg.SeedDemoData && cfg.Environment != "production" {
		if err := ensureDemoEmployee(ctx, pool); err != nil {
			return err
		}
	}
	return nil
}

func ensureParameters(ctx context.Context, pool *pgxpool.Pool) error {
	for _, p := range defaultParameters {
		_, err := pool.Exec(ctx, `
      INSERT INTO parameters (key, value, description)
      VALUES ($1, $2, $3)
      ON CONFLICT (key) DO NOTHING
    `, p.Key, p.Value, p.Description)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	var exists bool
	if err := pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email,
	).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx,
		"INSERT INTO users (email, password_hash) VALUES ($1, $2)", email, hash)
	return err
}

func ensureDemoEmployee(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM employees").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err := pool.Exec(ctx, `
    INSERT INTO employees (
      document_id, first_name, last_name, position, email,
      hire_date, contract_type, salary_type, base_salary, transport_allowance, status
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
  `,
		"123456789", "Juan", "Pérez Demo", "Desarrollador", "juan.perez.demo@example.com",
		time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
		employee.ContractIndefinite, employee.SalaryBasic,
		2500000.0, 162000.0, employee.StatusActive)
	return err
}
