// One-time interactive schema install. Prompts for the database password,
// connects, and applies the embedded schema files in order.
//
// Usage: go run scripts/install_db.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"tailor-backend/migrations"
)

func main() {
	fmt.Println("========================================")
	fmt.Println("   Tailor Software - Database Install")
	fmt.Println("========================================")
	fmt.Println()

	// Load environment variables
	godotenv.Load()

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbName := getEnv("DB_NAME", "tailor_db")

	fmt.Printf("Target: %s@%s:%s/%s\n", dbUser, dbHost, dbPort, dbName)
	fmt.Print("Enter database password: ")

	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	password = strings.TrimSpace(password)

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		dbUser, password, dbHost, dbPort, dbName)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Connection test failed: %v", err)
	}
	fmt.Println("Connected successfully.")
	fmt.Println()

	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		log.Fatalf("Failed to read schema files: %v", err)
	}

	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, filename := range files {
		content, err := fs.ReadFile(migrations.FS, filename)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", filename, err)
		}

		fmt.Printf("Applying %s...\n", filename)
		if _, err := pool.Exec(ctx, string(content)); err != nil {
			log.Fatalf("Failed to apply %s: %v", filename, err)
		}
	}

	fmt.Println()
	fmt.Println("Setup complete. The tailor backend is ready to use.")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
