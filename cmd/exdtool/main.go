// Command exdtool inspects and exports sheet data. It is a thin consumer
// of the public library surface: list declared sheets, dump headers and
// rows, and export whole sheets into a SQLite database.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/WorkingRobot/Lumina/core/excel"
	"github.com/WorkingRobot/Lumina/core/format"
	"github.com/WorkingRobot/Lumina/core/resolver"
	"github.com/WorkingRobot/Lumina/internal/logging"
)

const version = "0.1.0"

// CLI defines the command-line interface for exdtool.
var CLI struct {
	// Global flags
	Root    string `name:"root" short:"r" help:"Directory containing the exd/ sheet files." default:"." type:"path"`
	Lang    string `name:"lang" short:"l" help:"Language code (ja, en, de, fr, chs, cht, kr)." default:"en"`
	Verbose bool   `name:"verbose" short:"v" help:"Enable debug logging."`

	List    ListCmd    `cmd:"" help:"List declared sheet names"`
	Header  HeaderCmd  `cmd:"" help:"Show a sheet's columns, pages, and languages"`
	Rows    RowsCmd    `cmd:"" help:"Dump decoded rows of a sheet"`
	Export  ExportCmd  `cmd:"" help:"Export sheets into a SQLite database"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// appContext carries the opened module into command Run methods.
type appContext struct {
	module *excel.Module
	lang   format.Language
	log    *slog.Logger
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("exdtool"),
		kong.Description("Read-only sheet inspection and export tool."),
		kong.UsageOnError(),
	)

	level := slog.LevelWarn
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	log := logging.NewStderr(level)

	lang, ok := format.ParseLanguageCode(CLI.Lang)
	if !ok {
		fmt.Fprintf(os.Stderr, "exdtool: unknown language code %q\n", CLI.Lang)
		os.Exit(1)
	}

	opts := excel.DefaultOptions()
	opts.DefaultLanguage = lang
	opts.Logger = log

	module, err := excel.NewModule(resolver.NewDir(CLI.Root), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "exdtool: %v\n", err)
		os.Exit(1)
	}

	err = ctx.Run(&appContext{module: module, lang: lang, log: log})
	ctx.FatalIfErrorf(err)
}

// VersionCmd prints the tool version.
type VersionCmd struct{}

// Run implements the version command.
func (c *VersionCmd) Run(_ *appContext) error {
	fmt.Printf("exdtool %s\n", version)
	return nil
}

// ListCmd prints the declared sheet names.
type ListCmd struct{}

// Run implements the list command.
func (c *ListCmd) Run(app *appContext) error {
	for _, name := range app.module.SheetNames() {
		fmt.Println(name)
	}
	return nil
}

// HeaderCmd prints one sheet's header metadata.
type HeaderCmd struct {
	Name string `arg:"" help:"Sheet name."`
}

// Run implements the header command.
func (c *HeaderCmd) Run(app *appContext) error {
	sheet, err := app.module.RawSheet(c.Name, app.lang)
	if err != nil {
		return err
	}

	hdr := sheet.Header()
	fmt.Printf("sheet:    %s\n", sheet.Name())
	fmt.Printf("variant:  %s\n", hdr.Variant)
	fmt.Printf("version:  %d\n", hdr.Version)
	fmt.Printf("row size: %d bytes\n", hdr.DataOffset)
	fmt.Printf("rows:     %d\n", sheet.RowCount())
	fmt.Printf("hash:     %016x\n", hdr.ColumnsHash)

	fmt.Printf("columns (%d):\n", len(hdr.Columns))
	for i, col := range hdr.Columns {
		fmt.Printf("  %3d  %-12s offset %d\n", i, col.Type, col.Offset)
	}
	fmt.Printf("pages (%d):\n", len(hdr.Pages))
	for _, p := range hdr.Pages {
		fmt.Printf("  start %d, %d rows\n", p.StartID, p.RowCount)
	}
	fmt.Printf("languages (%d):\n", len(hdr.Languages))
	for _, l := range hdr.Languages {
		fmt.Printf("  %s\n", l)
	}
	return nil
}

// RowsCmd dumps decoded rows of one sheet.
type RowsCmd struct {
	Name  string `arg:"" help:"Sheet name."`
	Limit int    `help:"Maximum rows to print (0 = all)." default:"0"`
}

// Run implements the rows command.
func (c *RowsCmd) Run(app *appContext) error {
	sheet, err := app.module.RawSheet(c.Name, app.lang)
	if err != nil {
		return err
	}

	printed := 0
	for i := 0; i < sheet.RowCount(); i++ {
		if c.Limit > 0 && printed >= c.Limit {
			break
		}
		row, err := sheet.RowAt(i)
		if err != nil {
			return err
		}

		if sheet.Variant() == format.VariantSubrows {
			n, err := sheet.SubrowCount(row.RowID())
			if err != nil {
				return err
			}
			for sub := uint16(0); sub < n; sub++ {
				sr, err := sheet.Subrow(row.RowID(), sub)
				if err != nil {
					return err
				}
				printRow(sheet, sr, true)
			}
		} else {
			printRow(sheet, row, false)
		}
		printed++
	}
	return nil
}

func printRow(sheet *excel.RawSheet, row excel.RawRow, subrow bool) {
	if subrow {
		fmt.Printf("%d.%d:", row.RowID(), row.SubrowID())
	} else {
		fmt.Printf("%d:", row.RowID())
	}
	for i := 0; i < sheet.ColumnCount(); i++ {
		fmt.Printf("\t%v", row.ReadColumn(i))
	}
	fmt.Println()
}
