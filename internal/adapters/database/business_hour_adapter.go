package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/entities"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/repositories"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/willianOliveira-dev/barber-app-sub000/pkg/errors"
)

// BusinessHourAdapter implements the BusinessHourRepository interface
type BusinessHourAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBusinessHourAdapter creates a new business hour adapter
func NewBusinessHourAdapter(client *postgres.Client) repositories.BusinessHourRepository {
	return &BusinessHourAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB().DB),
	}
}

// GetByShopAndWeekday resolves the rule for a shop and weekday
func (a *BusinessHourAdapter) GetByShopAndWeekday(ctx context.Context, shopID string, weekday time.Weekday) (*entities.BusinessHourRule, error) {
	query, args, err := a.db.Select(
		"shop_id", "weekday", "is_open", "opens_at", "closes_at", "updated_at",
	).From("business_hours").
		Where(goqu.Ex{
			"shop_id": shopID,
			"weekday": int(weekday),
		}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rule, err := scanBusinessHourRule(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no business hours configured for shop %s on weekday %d", shopID, weekday))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get business hours", err)
	}

	return rule, nil
}

// ListByShop retrieves all rules for a shop ordered by weekday
func (a *BusinessHourAdapter) ListByShop(ctx context.Context, shopID string) ([]*entities.BusinessHourRule, error) {
	query, args, err := a.db.Select(
		"shop_id", "weekday", "is_open", "opens_at", "closes_at", "updated_at",
	).From("business_hours").
		Where(goqu.Ex{"shop_id": shopID}).
		Order(goqu.I("weekday").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list business hours", err)
	}
	defer rows.Close()

	var rules []*entities.BusinessHourRule
	for rows.Next() {
		rule, err := scanBusinessHourRule(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan business hours", err)
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

// Upsert creates or replaces the rule for (shop, weekday)
func (a *BusinessHourAdapter) Upsert(ctx context.Context, rule *entities.BusinessHourRule) error {
	query, args, err := a.db.Insert("business_hours").
		Rows(goqu.Record{
			"shop_id":    rule.ShopID,
			"weekday":    int(rule.Weekday),
			"is_open":    rule.IsOpen,
			"opens_at":   rule.OpensAt,
			"closes_at":  rule.ClosesAt,
			"updated_at": rule.UpdatedAt,
		}).
		OnConflict(goqu.DoUpdate("shop_id, weekday", goqu.Record{
			"is_open":    rule.IsOpen,
			"opens_at":   rule.OpensAt,
			"closes_at":  rule.ClosesAt,
			"updated_at": rule.UpdatedAt,
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err = a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert business hours", err)
	}

	return nil
}

func scanBusinessHourRule(row rowScanner) (*entities.BusinessHourRule, error) {
	rule := &entities.BusinessHourRule{}
	var weekday int

	err := row.Scan(
		&rule.ShopID,
		&weekday,
		&rule.IsOpen,
		&rule.OpensAt,
		&rule.ClosesAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.Weekday = time.Weekday(weekday)
	return rule, nil
}
