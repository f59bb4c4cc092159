package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/praxislabs/sdlcwiz/internal/config"
	"github.com/praxislabs/sdlcwiz/internal/db"
	"github.com/praxislabs/sdlcwiz/internal/generator"
	"github.com/praxislabs/sdlcwiz/internal/workflow"
)

func openDB() (*sql.DB, string, func(), error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", func() {}, err
	}
	wizDir := filepath.Join(workDir, ".sdlcwiz")
	if err := os.MkdirAll(wizDir, 0o755); err != nil {
		return nil, "", func() {}, err
	}
	dbPath := filepath.Join(wizDir, "sdlcwiz.db")
	storeDB, err := db.Open(dbPath)
	if err != nil {
		return nil, "", func() {}, err
	}
	return storeDB, workDir, func() { _ = storeDB.Close() }, nil
}

func buildGenerators(cfg config.Config) ([]generator.Generator, error) {
	specs := append([]config.GeneratorConfig{cfg.Generators.Primary}, cfg.Generators.Fallbacks...)
	gens := make([]generator.Generator, 0, len(specs))
	for _, spec := range specs {
		g, err := generator.New(spec)
		if err != nil {
			return nil, fmt.Errorf("generator %s: %w", spec.Name, err)
		}
		gens = append(gens, g)
	}
	return gens, nil
}

func buildManager(cfg config.Config, store *db.Store) (*workflow.Manager, error) {
	def := workflow.Default()
	if cfg.Pipeline != "" {
		loaded, err := workflow.Load(cfg.Pipeline)
		if err != nil {
			return nil, err
		}
		def = loaded
	}
	gens, err := buildGenerators(cfg)
	if err != nil {
		return nil, err
	}
	return workflow.NewManager(cfg, def, gens, store), nil
}
