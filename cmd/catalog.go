package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/courseadvisor/config"
	"github.com/kilianp07/courseadvisor/core/catalog"
	infracatalog "github.com/kilianp07/courseadvisor/infra/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Catalog related commands",
}

var catalogLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the configured catalog",
	RunE:  runCatalogLs,
}

var importDB string

var catalogImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Validate a catalog file and upsert it into a sqlite catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogImport,
}

func init() {
	catalogImportCmd.Flags().StringVar(&importDB, "db", "courses.db", "sqlite catalog path")
	catalogCmd.AddCommand(catalogLsCmd, catalogImportCmd)
	rootCmd.AddCommand(catalogCmd)
}

// loadCatalog builds the configured source and loads it once.
func loadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, error) {
	src, err := catalog.NewSource(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("catalog source: %w", err)
	}
	if c, ok := src.(interface{ Close() error }); ok {
		defer c.Close()
	}
	return catalog.Load(ctx, src)
}

func runCatalogLs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-8s %-36s %-8s %-22s %-26s %s\n", "ID", "NAME", "TIME", "DAYS", "LOCATION", "SEATS")
	for _, c := range cat.Courses() {
		fmt.Fprintf(w, "%-8s %-36s %-8s %-22s %-26s %d/%d\n",
			c.ID, c.Name, c.TimeSlot, strings.Join(c.Days, ","), c.Location(), c.OpenSeats(), c.Capacity)
	}
	return nil
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	courses, err := catalog.DecodeCourses(data, filepath.Ext(args[0]))
	if err != nil {
		return err
	}
	if _, err := catalog.New(courses...); err != nil {
		return err
	}
	db, err := infracatalog.NewSQLiteSource(importDB)
	if err != nil {
		return err
	}
	defer db.Close()
	for _, c := range courses {
		if err := db.Upsert(ctx, c); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d courses into %s\n", len(courses), importDB)
	return nil
}
