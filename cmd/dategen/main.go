package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/zapponejosh/coptic-calendar-api/internal/calendar"
)

// dategen prints the civil dates of a Coptic year: its New Year, the first
// day of every month and every fixed feast. The output doubles as a table
// of expected values when checking the API by hand.

func main() {
	today := calendar.FromTime(time.Now())
	year := flag.Int("year", calendar.Converter{}.CopticYear(today), "Coptic year to generate dates for")
	asCSV := flag.Bool("csv", false, "Print only the feast table as CSV")
	flag.Parse()

	conv := calendar.NewConverter(nil)
	start := calendar.NewYear(*year + calendar.EpochOffsetAfterNewYear)
	next := calendar.NewYear(*year + calendar.EpochOffsetAfterNewYear + 1)

	if *asCSV {
		if err := writeFeastCSV(os.Stdout, conv, calendar.DefaultFeasts(), *year); err != nil {
			fmt.Fprintf(os.Stderr, "csv: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("=== Coptic Year %d ===\n\n", *year)
	fmt.Printf("  New Year (1 Thoout): %s (%s)\n", start, start.Time().Weekday())
	fmt.Printf("  Next New Year:       %s\n", next)
	fmt.Printf("  Length:              %d days\n", next.DaysSince(start))
	if calendar.IsCopticLeapYear(*year) {
		fmt.Println("  Nesi has 6 days this year")
	}
	fmt.Println()

	fmt.Println("Month starts:")
	for m := calendar.Thoout; m <= calendar.Nesi; m++ {
		d, err := conv.ToCivil(*year, m, 1)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", m, err)
			os.Exit(1)
		}
		fmt.Printf("  %-10s %s  %-16s %2d days\n", m.Name(), d, calendar.SeasonOf(m), monthLength(conv, *year, m))
	}
	fmt.Println()

	fmt.Println("Fixed feasts:")
	for m := calendar.Thoout; m <= calendar.Nesi; m++ {
		for _, f := range calendar.DefaultFeasts().InMonth(m) {
			d, err := conv.ToCivil(*year, f.Month, f.Day)
			if err != nil {
				fmt.Printf("  %-10s ----------  %s (does not occur)\n", dayLabel(f), f.Name)
				continue
			}
			fmt.Printf("  %-10s %s  %s [%s]\n", dayLabel(f), d, f.Name, f.Kind)
		}
	}
}

// writeFeastCSV writes every feast of table that occurs in year, one row per
// feast, in Coptic month order.
func writeFeastCSV(out io.Writer, conv calendar.Converter, table calendar.FeastTable, year int) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"Civil Date", "Coptic Date", "Feast", "Kind"}); err != nil {
		return err
	}
	for m := calendar.Thoout; m <= calendar.Nesi; m++ {
		for _, f := range table.InMonth(m) {
			d, err := conv.ToCivil(year, f.Month, f.Day)
			if err != nil {
				continue
			}
			coptic := strconv.Itoa(f.Day) + " " + f.Month.Name() + " " + strconv.Itoa(year)
			if err := w.Write([]string{d.String(), coptic, f.Name, string(f.Kind)}); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// monthLength counts the days of m that actually occur in year, which for
// Nesi can be one fewer than DaysInCopticMonth around century years.
func monthLength(conv calendar.Converter, year int, m calendar.Month) int {
	n := 0
	for day := 1; day <= calendar.DaysInCopticMonth(year, m); day++ {
		if _, err := conv.ToCivil(year, m, day); err == nil {
			n++
		}
	}
	return n
}

func dayLabel(f calendar.Feast) string {
	return fmt.Sprintf("%d %s", f.Day, f.Month.Name())
}
