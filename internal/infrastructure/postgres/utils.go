package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/money"
)

// Querier lo cumplen *pgxpool.Pool y pgx.Tx: los repositorios funcionan dentro o fuera de transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Códigos SQLSTATE usados.
const (
	codeUniqueViolation      = "23505"
	codeLockNotAvailable     = "55P03"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// isContention bloqueo no obtenido a tiempo, conflicto de serialización o deadlock.
func isContention(err error) bool {
	switch pgCode(err) {
	case codeLockNotAvailable, codeSerializationFailure, codeDeadlockDetected:
		return true
	}
	return false
}

// mapError traduce errores de contención a domain.ErrConcurrentModification conservando la causa.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if isContention(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConcurrentModification, err)
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrDuplicate, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ruleColumns etiqueta y valor de una regla para persistir.
func ruleColumns(r money.Rule) (string, decimal.Decimal) {
	return string(r.Type()), r.Value()
}

// scanRule reconstruye la regla leída de la BD.
func scanRule(ruleType string, value decimal.Decimal) (money.Rule, error) {
	r, err := money.ParseRule(ruleType, value)
	if err != nil {
		return money.Rule{}, fmt.Errorf("regla persistida inválida %s(%s): %w", ruleType, value, err)
	}
	return r, nil
}

// nullString vacío como NULL (columnas UUID opcionales).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
