package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"travelclean/internal/blog"
	"travelclean/internal/database"
	"travelclean/internal/importer"
	"travelclean/internal/models"
	"travelclean/internal/store"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.database()
			if err != nil {
				return err
			}
			version, err := database.Version(db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema at version %d\n", version)
			return nil
		},
	}
}

func newSeedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default categories that are missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.database()
			if err != nil {
				return err
			}
			created, err := database.SeedCategories(cmd.Context(), db, database.DefaultCategories)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d of %d categories\n", created, len(database.DefaultCategories))
			if created > 0 {
				return invalidate(cmd, ctx)
			}
			return nil
		},
	}
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var fallback string

	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Import legacy HTML articles as published posts",
		Long: "Import every *.html file in dir as a published post. The file name is the slug;\n" +
			"files whose slug already exists are skipped so the import can be re-run.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.database()
			if err != nil {
				return err
			}

			im := importer.New(store.NewCategoryStore(db), store.NewPostStore(db))
			if fallback != "" {
				im.Fallback = fallback
			}

			report, err := im.Run(cmd.Context(), args[0])
			if report != nil {
				printImportReport(cmd.OutOrStdout(), report)
			}
			if err != nil {
				return err
			}
			if len(report.Created) > 0 {
				if err := invalidate(cmd, ctx); err != nil {
					return err
				}
			}
			if len(report.Failed) > 0 {
				return fmt.Errorf("%d file(s) failed to import", len(report.Failed))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fallback, "fallback", "", "Category slug for posts without a mapping (default \""+importer.DefaultFallbackCategory+"\")")
	return cmd
}

func newSitemapCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Write sitemap.xml for all published posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			db, err := ctx.database()
			if err != nil {
				return err
			}

			svc := blog.NewService(store.NewCategoryStore(db), store.NewPostStore(db), cfg.SiteURL)
			data, err := svc.Sitemap(cmd.Context())
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write sitemap: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d bytes)\n", output, len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func newCategoriesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories with their post counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.database()
			if err != nil {
				return err
			}
			cats, err := store.NewCategoryStore(db).List(cmd.Context())
			if err != nil {
				return err
			}
			printCategories(cmd.OutOrStdout(), cats)
			return nil
		},
	}
}

func invalidate(cmd *cobra.Command, ctx *commandContext) error {
	cleared, err := ctx.invalidatePages(cmd.Context())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: page cache not cleared: %v\n", err)
		return nil
	}
	if cleared {
		fmt.Fprintln(cmd.OutOrStdout(), "Page cache cleared")
	}
	return nil
}

func printImportReport(out io.Writer, report *importer.Report) {
	fmt.Fprintf(out, "Created: %d  Skipped: %d  Failed: %d\n",
		len(report.Created), len(report.Skipped), len(report.Failed))
	rows := importReportRows(report)
	if len(rows) == 0 {
		return
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Status", "Slug", "Category", "Featured", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	))
}

func importReportRows(report *importer.Report) [][]string {
	var rows [][]string
	add := func(status string, results []importer.Result) {
		for _, r := range results {
			detail := r.Title
			if r.Err != nil {
				detail = r.Err.Error()
			}
			featured := ""
			if r.Featured {
				featured = "yes"
			}
			rows = append(rows, []string{status, r.Slug, r.Category, featured, detail})
		}
	}
	add("created", report.Created)
	add("skipped", report.Skipped)
	add("failed", report.Failed)
	return rows
}

func printCategories(out io.Writer, cats []models.Category) {
	if len(cats) == 0 {
		fmt.Fprintln(out, "No categories. Run \"travelcleanctl seed\" to create the defaults.")
		return
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Order", "Category", "Slug", "Posts"},
		categoryRows(cats),
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight},
	))
}

func categoryRows(cats []models.Category) [][]string {
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10),
			strconv.Itoa(c.DisplayOrder),
			c.Label(),
			c.Slug,
			strconv.Itoa(c.PostCount),
		})
	}
	return rows
}
