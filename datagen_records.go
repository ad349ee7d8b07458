//go:build datagen_records
// +build datagen_records

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"starwarsproxy/src/domain"
	"starwarsproxy/src/domain/entities"
	"starwarsproxy/src/helper/env"
	"starwarsproxy/src/infra/postgres"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	hairColors = []string{"blond", "brown", "black", "none", "auburn, white", "grey"}
	eyeColors  = []string{"blue", "yellow", "red", "brown", "blue-gray", "black"}
	genders    = []string{"male", "female", "n/a", "hermaphrodite"}
	filmURLs   = []string{
		"https://swapi.dev/api/films/1/",
		"https://swapi.dev/api/films/2/",
		"https://swapi.dev/api/films/3/",
		"https://swapi.dev/api/films/4/",
		"https://swapi.dev/api/films/5/",
		"https://swapi.dev/api/films/6/",
	}
)

func newSQLClient() (*pgxpool.Pool, error) {
	dbHost := env.MustGetString("DB_WRITE_HOST")
	dbPort := env.GetString("DB_WRITE_PORT", "5432")
	dbname := env.MustGetString("DB_NAME")
	dbUser := env.MustGetString("DB_USER")
	dbPassword := env.MustGetString("DB_PASSWORD")
	maxConnections := 20
	return postgres.NewPostgresClient(dbHost, dbPort, dbname, dbUser, dbPassword, maxConnections)
}

func main() {
	numRecords := flag.Int("records", 10000, "Número de registros a serem criados. Use -1 para infinito.")
	bulkSize := flag.Int("bulk-size", 500, "Registros por COPY")
	numConsumers := flag.Int("consumers", 4, "Quantidade de consumers gravando em paralelo")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := newSQLClient()
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	recordChan := make(chan entities.Record, (*bulkSize)*(*numConsumers))

	var wg sync.WaitGroup
	var totalProcessed, totalErrors int64
	startTime := time.Now()

	for i := 0; i < *numConsumers; i++ {
		wg.Add(1)
		go consumer(ctx, &wg, db, recordChan, *bulkSize, i+1, &totalProcessed, &totalErrors)
	}

	wg.Add(1)
	go producer(ctx, &wg, recordChan, *numRecords)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n🛑 Shutdown signal received, stopping...")
		cancel()
	}()

	wg.Wait()

	elapsed := time.Since(startTime)
	processed := atomic.LoadInt64(&totalProcessed)
	fmt.Printf("\n🏁 Seeding finished!\n")
	fmt.Printf("📊 Total processed: %d\n", processed)
	fmt.Printf("❌ Total errors: %d\n", atomic.LoadInt64(&totalErrors))
	fmt.Printf("🚀 Average rate: %.1f records/s\n", float64(processed)/elapsed.Seconds())
}

func producer(ctx context.Context, wg *sync.WaitGroup, recordChan chan<- entities.Record, numRecords int) {
	defer wg.Done()
	defer close(recordChan)

	isInfinite := numRecords == -1
	for count := 0; isInfinite || count < numRecords; count++ {
		record, err := generateFakeRecord(count)
		if err != nil {
			log.Printf("❌ Failed to generate record: %v", err)
			continue
		}

		select {
		case recordChan <- record:
			if (count+1)%1000 == 0 {
				fmt.Printf("Generated %d records\n", count+1)
			}
		case <-ctx.Done():
			fmt.Println("Producer stopping.")
			return
		}
	}
}

func consumer(ctx context.Context, wg *sync.WaitGroup, db *pgxpool.Pool, recordChan <-chan entities.Record, bulkSize, consumerID int, totalProcessed, totalErrors *int64) {
	defer wg.Done()

	flush := func(batch []entities.Record) {
		if len(batch) == 0 {
			return
		}
		if err := copyRecords(ctx, db, batch); err != nil {
			log.Printf("❌ Consumer %d: ERROR on copy: %v", consumerID, err)
			atomic.AddInt64(totalErrors, 1)
			return
		}
		atomic.AddInt64(totalProcessed, int64(len(batch)))
	}

	batch := make([]entities.Record, 0, bulkSize)
	for {
		select {
		case record, ok := <-recordChan:
			if !ok {
				flush(batch)
				log.Printf("✅ Consumer %d stopping.", consumerID)
				return
			}
			batch = append(batch, record)
			if len(batch) >= bulkSize {
				flush(batch)
				batch = make([]entities.Record, 0, bulkSize)
			}
		case <-ctx.Done():
			log.Printf("🛑 Consumer %d received stop signal.", consumerID)
			return
		}
	}
}

// copyRecords usa COPY numa tabela temporária e depois faz o upsert, já que
// COPY não aceita ON CONFLICT.
func copyRecords(ctx context.Context, db *pgxpool.Pool, records []entities.Record) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `CREATE TEMP TABLE records_staging (LIKE records INCLUDING DEFAULTS) ON COMMIT DROP`); err != nil {
		return fmt.Errorf("failed to create staging table: %w", err)
	}

	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{r.ID, r.Type, string(r.Data), r.CreatedAt, r.UpdatedAt})
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"records_staging"},
		[]string{"id", "type", "data", "created_at", "updated_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy records: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO records (id, type, data, created_at, updated_at)
		SELECT id, type, data, created_at, updated_at FROM records_staging
		ON CONFLICT (id, type) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("failed to merge staging rows: %w", err)
	}

	return tx.Commit(ctx)
}

func generateFakeRecord(seq int) (entities.Record, error) {
	createdAt := time.Now().Add(-time.Duration(rand.Intn(90*24)) * time.Hour)

	var (
		recordType string
		id         string
		payload    any
	)

	switch rand.Intn(3) {
	case 0:
		recordType = domain.CategoryCharacter
		id = strconv.Itoa(seq + 1)
		payload = generateFakeCharacter(id)
	case 1:
		recordType = domain.CategoryMovie
		id = strconv.Itoa(seq + 1)
		payload = map[string]any{
			"id":          seq + 1,
			"title":       faker.Sentence(),
			"overview":    faker.Paragraph(),
			"releaseDate": faker.Date(),
		}
	default:
		recordType = domain.CategoryGeneric
		id = faker.UUIDHyphenated()
		payload = map[string]any{
			"name":  faker.Name(),
			"email": faker.Email(),
			"note":  faker.Sentence(),
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return entities.Record{}, err
	}

	return entities.Record{
		ID:        id,
		Type:      recordType,
		Data:      data,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

func generateFakeCharacter(id string) entities.Character {
	films := make([]string, 0, 3)
	for _, i := range rand.Perm(len(filmURLs))[:1+rand.Intn(3)] {
		films = append(films, filmURLs[i])
	}

	return entities.Character{
		ID:        id,
		Name:      faker.FirstName() + " " + faker.LastName(),
		Height:    strconv.Itoa(90 + rand.Intn(140)),
		Mass:      strconv.Itoa(20 + rand.Intn(120)),
		HairColor: hairColors[rand.Intn(len(hairColors))],
		SkinColor: "fair",
		EyeColor:  eyeColors[rand.Intn(len(eyeColors))],
		BirthYear: fmt.Sprintf("%dBBY", rand.Intn(900)),
		Gender:    genders[rand.Intn(len(genders))],
		Homeworld: fmt.Sprintf("https://swapi.dev/api/planets/%d/", 1+rand.Intn(60)),
		Films:     films,
		Species:   []string{},
		Vehicles:  []string{},
		Starships: []string{},
		Created:   time.Now().UTC().Format(time.RFC3339),
		Edited:    time.Now().UTC().Format(time.RFC3339),
		URL:       "https://swapi.dev/api/people/" + id + "/",
	}
}
