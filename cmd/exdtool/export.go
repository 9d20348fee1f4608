package main

import (
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/WorkingRobot/Lumina/core/excel"
	"github.com/WorkingRobot/Lumina/core/format"
)

// ExportCmd dumps whole sheets into a SQLite database, one table per
// sheet. Sheets are decoded concurrently; writes are serialized on a
// single connection.
type ExportCmd struct {
	Names []string `arg:"" help:"Sheet names to export."`
	DB    string   `name:"db" help:"Output SQLite database path." default:"sheets.db" type:"path"`
	Jobs  int      `name:"jobs" short:"j" help:"Concurrent sheet decoders." default:"4"`
}

// Run implements the export command.
func (c *ExportCmd) Run(app *appContext) error {
	db, err := sql.Open("sqlite", c.DB)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	// SQLite is single-writer; funnel all inserts through one connection.
	db.SetMaxOpenConns(1)

	g := new(errgroup.Group)
	g.SetLimit(c.Jobs)
	for _, name := range c.Names {
		g.Go(func() error {
			sheet, err := app.module.RawSheet(name, app.lang)
			if err != nil {
				return err
			}
			if err := exportSheet(db, sheet); err != nil {
				return fmt.Errorf("export %s: %w", name, err)
			}
			app.log.Debug("exported sheet", "sheet", sheet.Name(), "rows", sheet.RowCount())
			return nil
		})
	}
	return g.Wait()
}

func exportSheet(db *sql.DB, sheet *excel.RawSheet) error {
	subrows := sheet.Variant() == format.VariantSubrows

	cols := []string{"row_id INTEGER"}
	if subrows {
		cols = append(cols, "subrow_id INTEGER")
	}
	for i := 0; i < sheet.ColumnCount(); i++ {
		cols = append(cols, fmt.Sprintf("c%d %s", i, sqlType(sheet.Column(i).Type)))
	}

	table := strings.ToLower(sheet.Name())
	if _, err := db.Exec(fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %q (%s)", table, strings.Join(cols, ", "))); err != nil {
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	insert := fmt.Sprintf("INSERT INTO %q VALUES (%s)", table, placeholders)

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < sheet.RowCount(); i++ {
		row, err := sheet.RowAt(i)
		if err != nil {
			return err
		}
		if subrows {
			n, err := sheet.SubrowCount(row.RowID())
			if err != nil {
				return err
			}
			for sub := uint16(0); sub < n; sub++ {
				sr, err := sheet.Subrow(row.RowID(), sub)
				if err != nil {
					return err
				}
				if err := insertRow(stmt, sheet, sr, true); err != nil {
					return err
				}
			}
		} else if err := insertRow(stmt, sheet, row, false); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertRow(stmt *sql.Stmt, sheet *excel.RawSheet, row excel.RawRow, subrow bool) error {
	args := []any{int64(row.RowID())}
	if subrow {
		args = append(args, int64(row.SubrowID()))
	}
	for i := 0; i < sheet.ColumnCount(); i++ {
		args = append(args, sqlValue(row.ReadColumn(i)))
	}
	_, err := stmt.Exec(args...)
	return err
}

func sqlType(t format.ColumnDataType) string {
	switch {
	case t == format.ColumnString:
		return "TEXT"
	case t == format.ColumnFloat32:
		return "REAL"
	default:
		return "INTEGER"
	}
}

// sqlValue widens unsigned decode results so the driver never sees uint64
// overflow, and stores booleans as 0/1.
func sqlValue(v any) any {
	switch x := v.(type) {
	case bool:
		if x {
			return int64(1)
		}
		return int64(0)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	default:
		return v
	}
}
