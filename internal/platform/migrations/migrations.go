package migrations

import (
	"gorm.io/gorm"

	deliverypostgres "github.com/ventasve/ventasve-api/internal/domains/delivery/adapters/persistence/postgres"
	orderspostgres "github.com/ventasve/ventasve-api/internal/domains/orders/adapters/persistence/postgres"
)

// Run applies the schema for the bounded contexts. Orders migrate first so delivery tables
// referencing them are created afterwards.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	models := append(orderspostgres.Models(), deliverypostgres.Models()...)
	if err := db.AutoMigrate(models...); err != nil {
		return err
	}
	for _, stmt := range constraints {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// constraints AutoMigrate does not express because the record types carry no associations.
var constraints = []string{
	`DO $$ BEGIN
		ALTER TABLE delivery_orders ADD CONSTRAINT fk_delivery_orders_order
			FOREIGN KEY (order_id) REFERENCES orders(id);
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE delivery_orders ADD CONSTRAINT fk_delivery_orders_person
			FOREIGN KEY (delivery_person_id) REFERENCES delivery_persons(id);
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
}
