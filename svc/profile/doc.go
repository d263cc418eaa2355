// Package profile stores parent and nanny sign-up records.
//
// Each user owns exactly one record, in the table of its role. A separate
// role mapping (user_roles) lets Directory.Lookup find the record from the
// id alone:
//
//	store := profile.NewPostgresStore(pool)
//	cache := profile.NewRoleCache(store, redisClient)
//	dir := profile.NewDirectory(store, profile.WithRoleResolver(cache))
//
//	p, err := dir.Lookup(ctx, id)
//	if errors.Is(err, profile.ErrNotFound) { ... }
//
// MemoryStore implements the same Store interface for tests and local runs.
// Schema migrations are embedded and exposed through Migrations for
// pg.Migrate.
package profile
