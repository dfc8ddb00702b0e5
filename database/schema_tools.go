package database

import (
	"fmt"
	"io"
	"sort"

	"gorm.io/gen"
	"gorm.io/gorm"

	"github.com/devfolio/projects-api/models"
)

/*
Schema tools

GENERATE_MODELS=true runs the migrations, prints the column report and writes gorm/gen query
helpers for every model into ./generated.

GENERATE_COLUMN_REPORT=true only prints the report: for each table, the columns present in the
database that no model field maps to.

Example output:
=== COLUMN MISMATCH REPORT ===
--- Table: projects ---
Found 1 columns not accounted for in model:
  - legacy_slug

--- Table: tags ---
All columns are accounted for in the model.

=== SUMMARY ===
Total mismatched columns across all tables: 1
*/

// schemaModels maps each managed table to its model.
func schemaModels() map[string]any {
	return map[string]any{
		"projects":     &models.Project{},
		"tags":         &models.Tag{},
		"descriptions": &models.Description{},
		"project_tags": &models.ProjectTag{},
	}
}

// GenerateModels migrates the schema and writes typed query helpers into outPath.
func GenerateModels(db *gorm.DB, outPath string, out io.Writer) error {
	if err := Migrate(db); err != nil {
		return fmt.Errorf("migrating before generation: %w", err)
	}
	if _, err := ColumnMismatchReport(db, out); err != nil {
		return err
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(
		models.Project{},
		models.Tag{},
		models.Description{},
		models.ProjectTag{},
	)
	g.Execute()
	fmt.Fprintln(out, "Model generation complete!")
	return nil
}

// ColumnMismatchReport prints the database columns that no model field maps to and returns
// the total count.
func ColumnMismatchReport(db *gorm.DB, out io.Writer) (int, error) {
	fmt.Fprintln(out, "=== COLUMN MISMATCH REPORT ===")

	mappings := schemaModels()
	tables := make([]string, 0, len(mappings))
	for name := range mappings {
		tables = append(tables, name)
	}
	sort.Strings(tables)

	total := 0
	for _, table := range tables {
		fmt.Fprintf(out, "\n--- Table: %s ---\n", table)

		if !db.Migrator().HasTable(table) {
			fmt.Fprintln(out, "Table does not exist yet (will be created during migration)")
			continue
		}
		dbColumns, err := tableColumns(db, table)
		if err != nil {
			return total, err
		}
		modelColumns, err := modelColumns(db, mappings[table])
		if err != nil {
			return total, err
		}

		mismatches := findColumnMismatches(dbColumns, modelColumns)
		if len(mismatches) == 0 {
			fmt.Fprintln(out, "All columns are accounted for in the model.")
			continue
		}
		fmt.Fprintf(out, "Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Fprintf(out, "  - %s\n", col)
		}
		total += len(mismatches)
	}

	fmt.Fprintf(out, "\n=== SUMMARY ===\n")
	fmt.Fprintf(out, "Total mismatched columns across all tables: %d\n", total)
	return total, nil
}

func tableColumns(db *gorm.DB, table string) ([]string, error) {
	types, err := db.Migrator().ColumnTypes(table)
	if err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", table, err)
	}
	columns := make([]string, 0, len(types))
	for _, t := range types {
		columns = append(columns, t.Name())
	}
	return columns, nil
}

// modelColumns lists the column names gorm derives for model.
func modelColumns(db *gorm.DB, model any) ([]string, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return nil, fmt.Errorf("error parsing model %T: %w", model, err)
	}
	return stmt.Schema.DBNames, nil
}

func findColumnMismatches(dbColumns, modelColumns []string) []string {
	known := make(map[string]bool, len(modelColumns))
	for _, c := range modelColumns {
		known[c] = true
	}
	var mismatches []string
	for _, col := range dbColumns {
		if !known[col] {
			mismatches = append(mismatches, col)
		}
	}
	return mismatches
}
