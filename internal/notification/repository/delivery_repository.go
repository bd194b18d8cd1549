package repository

import (
	"context"
	"fmt"

	"ingetin-backend/internal/notification/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeliveryRepository is the ledger of reminder pushes already sent
type DeliveryRepository interface {
	// Claim records the delivery and reports whether this call created it.
	// A false result means the same reminder was claimed before.
	Claim(ctx context.Context, delivery *domain.ReminderDelivery) (bool, error)
}

type deliveryRepository struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

// Models lists the tables owned by this repository, for migrations.
func Models() []interface{} {
	return []interface{}{&domain.ReminderDelivery{}}
}

func (r *deliveryRepository) Claim(ctx context.Context, delivery *domain.ReminderDelivery) (bool, error) {
	if delivery.ID == "" {
		delivery.ID = uuid.New().String()
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(delivery)
	if result.Error != nil {
		return false, fmt.Errorf("claim reminder delivery: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}
