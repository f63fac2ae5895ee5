package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"shelfit/internal/book"
	"shelfit/internal/comment"
	"shelfit/internal/config"
	"shelfit/internal/logging"
	"shelfit/internal/store"
)

var (
	genres     = []string{"Fiction", "Science Fiction", "History", "Science", "Technology", "Mystery", "Biography", "Philosophy"}
	publishers = []string{"Penguin", "HarperCollins", "Oxford", "Cambridge", "MIT Press", "Springer"}
	statuses   = []book.Status{book.StatusToRead, book.StatusReading, book.StatusFinished}
	words      = []string{"Journey", "Mystery", "Adventure", "Discovery", "Secret", "Legacy", "Dream", "Shadow", "Light", "Echo"}
)

func main() {
	config.LoadEnvFiles()

	owner := os.Getenv("DEMO_OWNER")
	if owner == "" {
		owner = "demo-user"
	}
	var (
		count  = flag.Int("count", 25, "Number of books to create")
		target = flag.String("owner", owner, "Owner whose shelf is seeded")
		driver = flag.String("driver", os.Getenv("STORE_DRIVER"), "Store driver: sqlite or postgres")
		dsn    = flag.String("dsn", os.Getenv("DB_DSN"), "Database DSN")
	)
	flag.Parse()

	log := logging.New(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"), os.Stderr)
	ctx := context.Background()

	st, err := store.Open(ctx, store.Config{Driver: *driver, DSN: *dsn}, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	created, err := seed(ctx, st, *target, *count, log)
	if err != nil {
		log.Error(ctx, "seeding failed", "error", err, "created", created)
		os.Exit(1)
	}
	log.Info(ctx, "seeding done", "owner", *target, "created", created)
}

// seed fills owner's shelf with manual books. Existing seed ids are left untouched.
func seed(ctx context.Context, st *store.Store, owner string, count int, log logging.Logger) (int, error) {
	books := book.NewService(st.Books)
	comments := comment.NewService(st.Comments, st.Books)

	created := 0
	for i := 0; i < count; i++ {
		in := book.ManualInput{
			ID:            fmt.Sprintf("seed-%04d", i+1),
			Title:         fmt.Sprintf("The %s of %s", getRandomWord(), getRandomWord()),
			Authors:       fmt.Sprintf("Author %d", rand.Intn(100)+1),
			Publisher:     publishers[rand.Intn(len(publishers))],
			PublishedDate: fmt.Sprintf("%d", 1950+rand.Intn(75)),
			Description:   fmt.Sprintf("A %s book about %s.", genres[rand.Intn(len(genres))], getRandomWord()),
			Status:        string(statuses[rand.Intn(len(statuses))]),
		}
		b, err := books.CreateManual(ctx, owner, in)
		if errors.Is(err, book.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return created, err
		}
		created++

		if i%3 == 0 {
			if _, err := comments.Add(ctx, owner, b.ID, fmt.Sprintf("Loved the %s part.", getRandomWord())); err != nil {
				return created, err
			}
		}
		if created%10 == 0 {
			log.Info(ctx, "seeding progress", "created", created, "of", count)
		}
	}
	return created, nil
}

func getRandomWord() string {
	return words[rand.Intn(len(words))]
}
