// Package db opens GORM connection pools against PostgreSQL.
//
// The connection string resolves through the configuration layer, so it
// can come from the YAML file or from DATABASE_URL:
//
//	database, err := db.Connect(db.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Pass Config.URL to bypass configuration, as the tests do. Connections
// use the simple protocol and a bounded pool; setting log_level=debug
// echoes SQL statements.
package db
