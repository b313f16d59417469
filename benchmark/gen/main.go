package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

// Seeds a local database with enough events to make the listing benchmarks
// meaningful:
//
//	DATABASE_URL=postgres://... go run ./benchmark/gen
func main() {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		fmt.Fprintln(os.Stderr, "error: DATABASE_URL is required")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		panic(err)
	}
	defer func() { _ = db.Close() }()

	var organizerID int64
	err = db.QueryRow(`
		INSERT INTO organizers (name) VALUES ('Benchmark Organizer')
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`).Scan(&organizerID)
	if err != nil {
		panic(err)
	}

	queryStr := "INSERT INTO events (title, organizer_id, date_start) VALUES \n"

	for i := 0; i < 50000; i++ {
		queryStr += fmt.Sprintf("('Benchmark Event %d', %d, now() + interval '%d hours'), ", i, organizerID, i%720)
	}

	queryStr = queryStr[:len(queryStr)-2]

	if _, err := db.Exec(queryStr); err != nil {
		panic(err)
	}

	fmt.Println("Seeded 50000 events")
}
