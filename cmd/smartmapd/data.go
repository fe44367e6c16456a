package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"smartmap-backend/internal/model"
)

var exportOut string

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Replace the persisted facility directory with a JSON array",
	Long: `Reads a JSON array of facility records (the same shape the web client keeps
in local storage) and commits it as the whole directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the persisted facility directory as JSON",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "-", "output file, - for stdout")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	var recs []model.Facility
	if err := json.Unmarshal(data, &recs); err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}

	ctx := context.Background()
	s, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := s.ReplaceAll(ctx, recs); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	log.Info("directory imported", zap.String("file", args[0]), zap.Int("records", len(recs)))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	s, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()
	s.Load(ctx)

	var w io.Writer = cmd.OutOrStdout()
	if exportOut != "-" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportOut, err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(s.All())
}
