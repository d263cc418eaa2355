// Package pg connects to PostgreSQL through a pgx pool and applies goose
// migrations from an embedded filesystem.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, profile.Migrations, log); err != nil {
//		return err
//	}
//
// Error helpers classify pgx and SQLSTATE errors so stores can map them to
// their own sentinels.
package pg
