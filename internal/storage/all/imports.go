// Package all wires every built-in storage backend into the storage factory.
//
// Importing it for side effects makes these kinds available to storage.New:
//
//   - "postgres"  (fleximart/internal/storage/postgres)
//   - "sqlite"    (fleximart/internal/storage/sqldb)
//   - "sqlserver" (fleximart/internal/storage/sqldb)
package all

import (
	_ "fleximart/internal/storage/postgres"
	_ "fleximart/internal/storage/sqldb"
)
