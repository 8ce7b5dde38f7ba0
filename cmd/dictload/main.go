package main

// dictload bulk-loads the product dictionary used by input suggestions.
// CSV format: term,category,suggested_unit,synonyms (synonyms separated by |).

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vinecunha/riscae/internal/config"
	"github.com/vinecunha/riscae/internal/infra"
	"github.com/vinecunha/riscae/internal/model"
	"github.com/vinecunha/riscae/internal/repository"
)

var batchSize int

var rootCmd = &cobra.Command{
	Use:   "dictload",
	Short: "Carrega o dicionário de produtos do RISCAÊ",
}

var loadCmd = &cobra.Command{
	Use:   "load [arquivo.csv]",
	Short: "Importa termos de um CSV para a tabela dictionary_entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		db, err := infra.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}

		entries, err := readCSV(args[0])
		if err != nil {
			return err
		}

		repo := repository.NewDictionaryRepository(db)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := repo.BulkInsert(ctx, entries, batchSize); err != nil {
			return fmt.Errorf("bulk insert: %w", err)
		}
		log.Info().Int("terms", len(entries)).Str("file", args[0]).Msg("dictload: dictionary loaded")
		return nil
	},
}

func readCSV(path string) ([]model.DictionaryEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var entries []model.DictionaryEntry
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		// Header row
		if line == 1 && strings.EqualFold(record[0], "term") {
			continue
		}
		if len(record) < 1 || strings.TrimSpace(record[0]) == "" {
			continue
		}

		entry := model.DictionaryEntry{
			Term:          strings.TrimSpace(record[0]),
			Category:      model.DefaultCategory,
			SuggestedUnit: model.UnitTypeUnit,
		}
		if len(record) > 1 && strings.TrimSpace(record[1]) != "" {
			entry.Category = strings.TrimSpace(record[1])
		}
		if len(record) > 2 && strings.TrimSpace(record[2]) != "" {
			entry.SuggestedUnit = strings.TrimSpace(record[2])
		}
		if len(record) > 3 && strings.TrimSpace(record[3]) != "" {
			for _, syn := range strings.Split(record[3], "|") {
				if s := strings.TrimSpace(syn); s != "" {
					entry.Synonyms = append(entry.Synonyms, s)
				}
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	loadCmd.Flags().IntVar(&batchSize, "batch-size", 500, "tamanho do lote de inserção")
	rootCmd.AddCommand(loadCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("dictload failed")
		os.Exit(1)
	}
}
