package migrations

import (
	"context"

	"github.com/shitcoingarden/garden.go/db/models"
	"github.com/uptrace/bun"
)

/*
The init migration reflects the latest model fields when it runs on a fresh
database. Later migrations that add or drop columns must use IfNotExists or
IfExists.
*/
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		for _, model := range []interface{}{
			(*models.LedgerCell)(nil),
			(*models.GardenEvent)(nil),
			(*models.OutboxCommand)(nil),
			(*models.Pool)(nil),
		} {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		for _, model := range []interface{}{
			(*models.Pool)(nil),
			(*models.OutboxCommand)(nil),
			(*models.GardenEvent)(nil),
			(*models.LedgerCell)(nil),
		} {
			if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
