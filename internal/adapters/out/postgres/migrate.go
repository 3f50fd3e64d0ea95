package postgres

import (
	"fmt"

	"marketplace/internal/adapters/out/postgres/catalogrepo"
	"marketplace/internal/adapters/out/postgres/impactrepo"
	"marketplace/internal/adapters/out/postgres/logisticsrepo"
	"marketplace/internal/adapters/out/postgres/notificationrepo"
	"marketplace/internal/adapters/out/postgres/transactionrepo"
	"marketplace/internal/adapters/out/postgres/userrepo"

	"gorm.io/gorm"
)

const logisticsTransactionFK = "fk_logistics_transaction"

// Migrate creates or updates the schema owned by the marketplace core. When
// withReferenceTables is set it also creates products and users, which in
// production belong to the catalog and account services.
func Migrate(db *gorm.DB, withReferenceTables bool) error {
	models := []any{
		&transactionrepo.TransactionDTO{},
		&logisticsrepo.LogisticsDTO{},
		&logisticsrepo.TrackingEventDTO{},
		&notificationrepo.NotificationDTO{},
		&impactrepo.CompanyImpactDTO{},
	}
	if withReferenceTables {
		models = append(models, &catalogrepo.ProductDTO{}, &userrepo.UserDTO{})
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// The logistics DTO does not embed the transaction row, so GORM cannot derive this key.
	if !db.Migrator().HasConstraint(&logisticsrepo.LogisticsDTO{}, logisticsTransactionFK) {
		err := db.Exec(fmt.Sprintf(
			`ALTER TABLE logistics ADD CONSTRAINT %s FOREIGN KEY (transaction_id) REFERENCES transactions(id)`,
			logisticsTransactionFK,
		)).Error
		if err != nil {
			return fmt.Errorf("add %s: %w", logisticsTransactionFK, err)
		}
	}
	return nil
}
