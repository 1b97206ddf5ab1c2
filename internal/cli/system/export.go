package system

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/julianstephens/studyflow/internal/cli"
	"github.com/julianstephens/studyflow/internal/models"
)

type ExportCmd struct {
	Output string `arg:"" help:"Path to write the JSON export to." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	doc, err := ctx.Store.Export()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	if err := os.WriteFile(c.Output, data, 0o600); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	fmt.Printf("Exported %d plan(s) and %d feedback record(s) to %s\n", len(doc.Plans), len(doc.Feedback), c.Output)
	fmt.Printf("Snapshot ID: %s\n", doc.SnapshotID)
	return nil
}

type ImportCmd struct {
	Input string `arg:"" help:"Path to a JSON export file." type:"path"`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	data, err := os.ReadFile(c.Input)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	var doc models.ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode import file: %w", err)
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.Import(doc); err != nil {
		return err
	}
	fmt.Printf("Imported %d plan(s) and %d feedback record(s) from snapshot %s\n", len(doc.Plans), len(doc.Feedback), doc.SnapshotID)
	return nil
}
