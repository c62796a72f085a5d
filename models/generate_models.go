package models

import (
	"fmt"
	"log"
	"os"
	"sort"
	"sync"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

/*
Query helper generation and column report.

Run with GENERATE_MODELS=true. The schema itself (tables, policies, the
get_user_projects function) is owned by Supabase migrations, so nothing
here migrates. Instead the generator writes typed query helpers to
./generated and prints, per table, the columns the database has that the
Go model does not map:

=== COLUMN MISMATCH REPORT ===
--- Table: tasks ---
Found 1 columns not accounted for in model:
  - sprint_id
*/

// AllModels lists every row type mapped by this service.
func AllModels() []any {
	return []any{
		Project{},
		Task{},
		CustomField{},
		Budget{},
		Expense{},
		Resource{},
		ActivityLog{},
		UserProfile{},
		UserRole{},
	}
}

func GenerateModels(db *gorm.DB) {
	if err := db.Exec("SELECT 1").Error; err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	verboseLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 verboseLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(AllModels()...)

	GenerateColumnMismatchReport(db)

	g.Execute()
	fmt.Println("Model generation complete!")
}

// GenerateColumnMismatchReport prints database columns that no model field maps.
func GenerateColumnMismatchReport(db *gorm.DB) {
	fmt.Println("=== COLUMN MISMATCH REPORT ===")

	totalMismatches := 0
	for _, model := range AllModels() {
		tableName, modelColumns, err := ModelColumns(db, model)
		if err != nil {
			fmt.Printf("Error parsing model %T: %v\n", model, err)
			continue
		}
		fmt.Printf("\n--- Table: %s ---\n", tableName)

		dbColumns, err := getTableColumns(db, tableName)
		if err != nil {
			fmt.Printf("Error getting columns for table %s: %v\n", tableName, err)
			continue
		}

		mismatches := FindColumnMismatches(dbColumns, modelColumns)
		if len(mismatches) == 0 {
			fmt.Println("All columns are accounted for in the model.")
			continue
		}
		fmt.Printf("Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Printf("  - %s\n", col)
		}
		totalMismatches += len(mismatches)
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Total mismatched columns across all tables: %d\n", totalMismatches)
}

// ModelColumns returns the table name and mapped column names of a model
// as gorm sees them.
func ModelColumns(db *gorm.DB, model any) (string, []string, error) {
	naming := schema.Namer(schema.NamingStrategy{})
	if db != nil && db.Config != nil && db.NamingStrategy != nil {
		naming = db.NamingStrategy
	}
	s, err := schema.Parse(model, &sync.Map{}, naming)
	if err != nil {
		return "", nil, err
	}
	columns := append([]string(nil), s.DBNames...)
	sort.Strings(columns)
	return s.Table, columns, nil
}

func getTableColumns(db *gorm.DB, tableName string) ([]string, error) {
	var columns []string
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = ?
		AND table_schema = CURRENT_SCHEMA()
		ORDER BY ordinal_position
	`
	if err := db.Raw(query, tableName).Scan(&columns).Error; err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s does not exist", tableName)
	}
	return columns, nil
}

// FindColumnMismatches returns the database columns missing from modelColumns.
func FindColumnMismatches(dbColumns, modelColumns []string) []string {
	known := make(map[string]bool, len(modelColumns))
	for _, column := range modelColumns {
		known[column] = true
	}

	var mismatches []string
	for _, column := range dbColumns {
		if !known[column] {
			mismatches = append(mismatches, column)
		}
	}
	return mismatches
}
