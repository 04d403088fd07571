package main

import (
	"encoding/csv"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/sdourte/Tripix/internal/config"
	"github.com/sdourte/Tripix/internal/db"
)

func main() {
	filePath := flag.String("file", "themes.csv", "path to themes csv")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}

	cfg := config.Load()
	conn, err := db.Open(db.Pool{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	labels, err := readThemes(*filePath)
	if err != nil {
		log.Fatalf("failed to read themes: %v", err)
	}

	inserted := 0
	for _, label := range labels {
		entry := db.Theme{Label: label}
		if err := conn.FirstOrCreate(&entry, db.Theme{Label: label}).Error; err != nil {
			log.Fatalf("failed to upsert theme: %v", err)
		}
		inserted++
	}

	log.Printf("loaded %d themes", inserted)
}

func readThemes(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var labels []string
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 1 {
			continue
		}
		label := strings.TrimSpace(row[0])
		if label == "" {
			continue
		}
		labels = append(labels, label)
	}
	return labels, nil
}
