// Package device provides the Device Record Store for EcoRecicle Core.
//
// The store is the authoritative catalogue of electronic items submitted
// for recycling. Each record moves through a two-state lifecycle:
// registered at creation, then collected exactly once when the item is
// dropped off. Collected is terminal; records are never deleted.
//
// # Architecture
//
//   - Store (store.go): thread-safe ordered cache plus change listeners;
//     every successful mutation persists synchronously before returning.
//   - Repository (repository.go): persistence interface with a SQLite
//     implementation. Timestamps are RFC3339 strings, enums string tags.
//   - Validation (validation.go): name/type/status checks and the
//     lifecycle invariant, applied on both write and load paths.
//
// # Usage
//
//	repo := device.NewSQLiteRepository(db)
//	store := device.NewStore(repo)
//	store.SetLogger(log)
//
//	if err := store.RefreshCache(ctx); err != nil {
//	    return err
//	}
//
//	rec, err := store.Register(ctx, "iPhone 11", device.DeviceTypeSmartphone)
//	if err != nil {
//	    return err
//	}
//	if _, err := store.Collect(ctx, rec.ID); err != nil {
//	    return err
//	}
//
// # Thread Safety
//
// The Store is safe for concurrent use. All operations are protected by
// a read-write mutex. The Repository implementation must also be
// thread-safe.
package device
