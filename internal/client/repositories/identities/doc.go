// Package identities persists the identities a generator screen has issued
// codes for, so they can be picked again later.
//
// The list is append-only and insertion-ordered: the same person entered
// twice appears twice, and there is no delete operation. Each record gets a
// random id and a monotonically increasing sequence number that fixes its
// position in the list.
//
// Typical usage:
//
//	repo := identities.NewSQLiteRepository(db)
//	rec, _ := repo.Append(ctx, qr.Identity{Name: "Ana", ...})
//	saved, _ := repo.ListByUserType(ctx, qr.UserTypeStudent)
package identities
