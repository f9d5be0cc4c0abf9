package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"
)

// coverage walks whole civil years through /coptic/range and checks that
// consecutive days form an unbroken Coptic sequence: the day advances, a
// month rolls into the next, or the last day of Nesi rolls into 1 Thoout of
// the next year.

// APIResponse matches the API response structure
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type CopticDate struct {
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	MonthName   string `json:"month_name"`
	Day         int    `json:"day"`
	DaysInMonth int    `json:"days_in_month"`
}

type Day struct {
	CivilDate string     `json:"civil_date"`
	Coptic    CopticDate `json:"coptic"`
	Feasts    []string   `json:"feasts"`
}

type RangeResponse struct {
	Count int   `json:"count"`
	Days  []Day `json:"days"`
}

// Failure is one break in the sequence.
type Failure struct {
	Date   string `json:"date"`
	Month  string `json:"month"`
	Reason string `json:"reason"`
}

// MonthStats tracks days seen per Coptic month name.
type MonthStats struct {
	Month      string   `json:"month"`
	Days       int      `json:"days"`
	FeastDays  int      `json:"feast_days"`
	Failed     int      `json:"failed"`
	FailedDays []string `json:"failed_days,omitempty"`
}

// Analysis holds the results of a run.
type Analysis struct {
	TotalDays  int                    `json:"total_days"`
	NewYears   []string               `json:"new_years"`
	ByMonth    map[string]*MonthStats `json:"by_month"`
	Failures   []Failure              `json:"failures"`
	RequestErr []string               `json:"request_errors,omitempty"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	startYear := flag.Int("start", 2024, "First civil year")
	years := flag.Int("years", 4, "Number of civil years to walk")
	verbose := flag.Bool("v", false, "Verbose output (show each New Year)")
	outputFile := flag.String("o", "", "Write results to a JSON file")
	flag.Parse()

	endYear := *startYear + *years - 1

	fmt.Println("================================================================")
	fmt.Println("Coptic Calendar API - Continuity Check")
	fmt.Println("================================================================")
	fmt.Printf("Base URL:    %s\n", *baseURL)
	fmt.Printf("Date Range:  %d-01-01 to %d-12-31\n", *startYear, endYear)
	fmt.Println()

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	analysis := &Analysis{ByMonth: make(map[string]*MonthStats)}
	var prev *Day
	for year := *startYear; year <= endYear; year++ {
		days, err := fetchYear(client, *baseURL, year)
		if err != nil {
			analysis.RequestErr = append(analysis.RequestErr, fmt.Sprintf("%d: %v", year, err))
			fmt.Printf("  ✗ %d: %v\n", year, err)
			prev = nil
			continue
		}
		for i := range days {
			check(analysis, prev, &days[i], *verbose)
			prev = &days[i]
		}
		fmt.Printf("  ✓ %d: %d days\n", year, len(days))
	}
	fmt.Println()

	printSummary(analysis)
	printFailures(analysis)

	if *outputFile != "" {
		saveResults(*outputFile, analysis)
	}

	if len(analysis.Failures) > 0 || len(analysis.RequestErr) > 0 {
		os.Exit(1)
	}
}

func fetchYear(client *http.Client, baseURL string, year int) ([]Day, error) {
	url := fmt.Sprintf("%s/api/v1/coptic/range?start=%d-01-01&end=%d-12-31", baseURL, year, year)
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return nil, fmt.Errorf("API error: %s", errMsg)
	}

	var data RangeResponse
	if err := json.Unmarshal(apiResp.Data, &data); err != nil {
		return nil, fmt.Errorf("data parse error: %w", err)
	}
	return data.Days, nil
}

func check(a *Analysis, prev, cur *Day, verbose bool) {
	a.TotalDays++

	month := cur.Coptic.MonthName
	stats, ok := a.ByMonth[month]
	if !ok {
		stats = &MonthStats{Month: month}
		a.ByMonth[month] = stats
	}
	stats.Days++
	if len(cur.Feasts) > 0 {
		stats.FeastDays++
	}

	fail := func(reason string) {
		stats.Failed++
		stats.FailedDays = append(stats.FailedDays, cur.CivilDate)
		a.Failures = append(a.Failures, Failure{Date: cur.CivilDate, Month: month, Reason: reason})
	}

	c := cur.Coptic
	if c.Day < 1 || c.Day > c.DaysInMonth {
		fail(fmt.Sprintf("day %d outside 1..%d", c.Day, c.DaysInMonth))
		return
	}
	if prev == nil {
		return
	}

	p := prev.Coptic
	switch {
	case c.Year == p.Year && c.Month == p.Month && c.Day == p.Day+1:
	case c.Year == p.Year && c.Month == p.Month+1 && c.Day == 1 && p.Day == p.DaysInMonth:
	case c.Year == p.Year+1 && c.Month == 1 && c.Day == 1 && p.Month == 13:
		a.NewYears = append(a.NewYears, cur.CivilDate)
		if verbose {
			fmt.Printf("    New Year %d on %s (after %d days of Nesi)\n", c.Year, cur.CivilDate, p.Day)
		}
	default:
		fail(fmt.Sprintf("%d %s %d does not follow %d %s %d", c.Day, c.MonthName, c.Year, p.Day, p.MonthName, p.Year))
	}
}

func printSummary(a *Analysis) {
	fmt.Println("================================================================")
	fmt.Println("SUMMARY")
	fmt.Println("================================================================")
	fmt.Printf("Total Days Checked: %d\n", a.TotalDays)
	fmt.Printf("Sequence Breaks:    %d\n", len(a.Failures))
	fmt.Printf("New Years Crossed:  %v\n", a.NewYears)
	fmt.Println()

	fmt.Println("By Coptic Month:")
	months := make([]*MonthStats, 0, len(a.ByMonth))
	for _, s := range a.ByMonth {
		months = append(months, s)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	for _, s := range months {
		status := "✓"
		if s.Failed > 0 {
			status = "✗"
		}
		fmt.Printf("  %s %-10s %4d days, %3d with feasts\n", status, s.Month, s.Days, s.FeastDays)
	}
	fmt.Println()
}

func printFailures(a *Analysis) {
	if len(a.Failures) == 0 && len(a.RequestErr) == 0 {
		fmt.Println("No breaks in the sequence.")
		return
	}

	fmt.Println("================================================================")
	fmt.Println("FAILURES")
	fmt.Println("================================================================")
	for _, e := range a.RequestErr {
		fmt.Printf("  request %s\n", e)
	}
	for i, f := range a.Failures {
		if i == 50 {
			fmt.Printf("  ... and %d more\n", len(a.Failures)-50)
			break
		}
		fmt.Printf("  %s | %s | %s\n", f.Date, f.Month, f.Reason)
	}
	fmt.Println()
}

func saveResults(filename string, a *Analysis) {
	output := struct {
		GeneratedAt string `json:"generated_at"`
		*Analysis
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Analysis:    a,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling results: %v\n", err)
		return
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		fmt.Printf("Error writing file: %v\n", err)
		return
	}
	fmt.Printf("Results saved to: %s\n", filename)
}
