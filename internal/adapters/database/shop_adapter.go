package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/entities"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/repositories"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/willianOliveira-dev/barber-app-sub000/pkg/errors"
)

// ShopAdapter implements the ShopRepository interface
type ShopAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewShopAdapter creates a new shop adapter
func NewShopAdapter(client *postgres.Client) repositories.ShopRepository {
	return &ShopAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB().DB),
	}
}

// GetByID retrieves a shop by ID
func (a *ShopAdapter) GetByID(ctx context.Context, id string) (*entities.Shop, error) {
	query, args, err := a.db.Select(
		"id", "owner_id", "name", "address", "phone",
		"is_active", "created_at", "updated_at",
	).From("shops").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	shop := &entities.Shop{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&shop.ID,
		&shop.OwnerID,
		&shop.Name,
		&shop.Address,
		&shop.Phone,
		&shop.IsActive,
		&shop.CreatedAt,
		&shop.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("shop with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get shop", err)
	}

	return shop, nil
}
