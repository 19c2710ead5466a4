package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// One-shot maintenance tool: wipes persisted attempt history and dead
// letters. Use `mergewatch reset-history` for the config-driven path.
func main() {
	_ = godotenv.Load()

	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	if _, err := db.Exec("DELETE FROM attempts"); err != nil {
		panic(err)
	}
	if _, err := db.Exec("DELETE FROM dead_letters"); err != nil {
		panic(err)
	}

	fmt.Println("Successfully reset attempt history and dead letters")
}
