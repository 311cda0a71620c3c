// Package cache defines the store contract used by cache-aside loading and the
// key format shared by every service.
//
// # Backends
//
// Two backends ship with the package:
//
//   - NewTimedBackend: sturdyc-backed, entries expire after Config.TTL. Used by
//     tables that change at runtime.
//   - NewEternalBackend: entries never expire. Used by pure reference data that
//     only changes with a deployment.
//
// Both are process-local and safe for concurrent use. There is no
// cross-process invalidation.
//
// # Keys
//
// Keys follow "<Namespace>:<EntityGroup>:<Operation>:<Param>":
//
//	keys := cache.NewKeys(cache.DefaultNamespace, "DifficultyLevel")
//	keys.All()               // ReferenceTable:DifficultyLevels:GetAll
//	keys.ByID("difficultylevel-8a2f...")  // ReferenceTable:DifficultyLevels:GetById:difficultylevel-8a2f...
//	keys.ByValue("Beginner") // ReferenceTable:DifficultyLevels:GetByValue:beginner
//	keys.Prefix()            // ReferenceTable:DifficultyLevels:
//
// Identifiers are kept verbatim; value and name parameters are lower-cased so
// that lookups differing only in case share one entry.
//
// # Typed reads
//
// Backends store values as any. Get asserts the stored type and reports
// ErrInvalidResultType on mismatch rather than panicking.
package cache
