// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/resume-engine/internal/store"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage stored templates (list, seed, export, import)",
	Long: `Templates manages the LaTeX templates kept in the SQLite store. Use
subcommands to list them, seed the built-in layouts, or move them in and
out of the store as YAML.`,
}

// --- list subcommand ---

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored templates",
	RunE:  runTemplatesList,
}

func runTemplatesList(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(st *store.Store) error {
		templates, err := st.Templates(cmd.Context())
		if err != nil {
			return err
		}
		if len(templates) == 0 {
			fmt.Println("No templates found.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-38s  %-16s  %-20s  %s\n", "ID", "Name", "Updated", "Description")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
		for _, t := range templates {
			fmt.Fprintf(os.Stdout, "%-38s  %-16s  %-20s  %s\n",
				t.ID, t.Name, t.UpdatedAt.Format("2006-01-02 15:04:05"), t.Description)
		}
		return nil
	})
}

// --- seed subcommand ---

var templatesSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the built-in templates that are missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(st *store.Store) error {
			n, err := st.SeedBuiltins(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("seeded %d template(s)\n", n)
			return nil
		})
	},
}

// --- export subcommand ---

var templatesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all templates as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("output")
		return withStore(cmd, func(st *store.Store) error {
			w := os.Stdout
			if path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("creating %s: %w", path, err)
				}
				defer f.Close()
				w = f
			}
			return st.ExportTemplates(cmd.Context(), w)
		})
	},
}

// --- import subcommand ---

var templatesImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Insert or update templates from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()

		return withStore(cmd, func(st *store.Store) error {
			n, err := st.ImportTemplates(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Printf("imported %d template(s)\n", n)
			return nil
		})
	},
}

// withStore opens the configured store for the duration of fn. Seeding is
// left to the seed subcommand.
func withStore(cmd *cobra.Command, fn func(*store.Store) error) error {
	scfg := cfg.Store
	scfg.SeedTemplates = false
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		scfg.DataDir = dir
	}
	st, err := store.Open(logger.WithContext(cmd.Context()), scfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func init() {
	templatesCmd.PersistentFlags().String("data-dir", "", "directory holding the SQLite database (default data)")
	templatesExportCmd.Flags().StringP("output", "o", "", "output file (default stdout)")

	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesSeedCmd)
	templatesCmd.AddCommand(templatesExportCmd)
	templatesCmd.AddCommand(templatesImportCmd)
	rootCmd.AddCommand(templatesCmd)
}
