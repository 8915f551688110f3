// Package testdb provides utilities specifically for database testing.
//
// SQLite databases are private and in-memory, so every test gets a fresh,
// migrated schema for free. PostgreSQL tests need DATABASE_URL and are
// skipped without it; they share one migrated database and isolate each
// test in a transaction that is rolled back when the test completes.
//
//	func TestMyFeature(t *testing.T) {
//	    db := testdb.OpenPostgres(t) // skips when DATABASE_URL is unset
//	    tx := testdb.BeginTx(t, db)
//	    tasks := postgres.NewPostgresTaskStore(tx, nil)
//	    // ...
//	}
package testdb
