package main

import (
	"context"
	"flag"
	"log"

	"ai-notecapture-be/internal/config"
	"ai-notecapture-be/internal/repository/implementation"
	"ai-notecapture-be/pkg/database"

	"github.com/redis/go-redis/v9"
)

// migrate creates the blob table and, with -from-redis, copies the note
// collection and calendar token from a Redis store into Postgres.
func main() {
	fromRedis := flag.Bool("from-redis", false, "copy blobs from REDIS_URL into Postgres")
	flag.Parse()

	cfg := config.Load()
	if cfg.Storage.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	log.Println("Step 1: Running AutoMigrate...")
	db, err := database.NewGormDBFromDSN(cfg.Storage.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	if !*fromRedis {
		log.Println("✅ Success: Database migration completed successfully via GORM.")
		return
	}

	log.Println("Step 2: Copying blobs from Redis...")
	opt, err := redis.ParseURL(cfg.Storage.RedisURL)
	if err != nil {
		log.Fatalf("Error: Invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	ctx := context.Background()
	src := implementation.NewRedisBlobRepository(rdb)
	dst := implementation.NewBlobRepository(db)

	for _, key := range []string{implementation.NotesBlobKey, implementation.CalendarTokenBlobKey} {
		value, err := src.Get(ctx, key)
		if err != nil {
			log.Fatalf("Error: Failed to read %q from Redis: %v", key, err)
		}
		if value == nil {
			log.Printf("Skip: %q not present in Redis", key)
			continue
		}
		if err := dst.Put(ctx, key, value); err != nil {
			log.Fatalf("Error: Failed to write %q to Postgres: %v", key, err)
		}
		log.Printf("Copied %q (%d bytes)", key, len(value))
	}

	log.Println("✅ Success: Blob copy completed.")
}
