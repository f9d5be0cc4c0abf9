package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// CopticDate mirrors the coptic object of a day response.
type CopticDate struct {
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	MonthName   string `json:"month_name"`
	Day         int    `json:"day"`
	Season      string `json:"season"`
	DaysInMonth int    `json:"days_in_month"`
}

// DayResponse is the response for /coptic/today, /coptic/date and /coptic/to-civil
type DayResponse struct {
	CivilDate string     `json:"civil_date"`
	Weekday   string     `json:"weekday"`
	Coptic    CopticDate `json:"coptic"`
	Display   string     `json:"display"`
	Progress  int        `json:"month_progress"`
	Feasts    []string   `json:"feasts"`
}

// RangeResponse is the response for /coptic/range
type RangeResponse struct {
	Start string        `json:"start"`
	End   string        `json:"end"`
	Count int           `json:"count"`
	Days  []DayResponse `json:"days"`
}

// NewYearResponse is the response for /coptic/new-year/{year}
type NewYearResponse struct {
	CivilYear  int    `json:"civil_year"`
	Date       string `json:"date"`
	CopticYear int    `json:"coptic_year"`
	Shifted    bool   `json:"shifted"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status string `json:"status"`
	Feasts int    `json:"feasts"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Coptic Calendar API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	tr.testHealth()
	tr.testToday()
	tr.testSpecificDates()
	tr.testNewYears()
	tr.testDateRange()
	tr.testToCivil()
	tr.testFeastCalendar()
	tr.testEdgeCases()

	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health HealthResponse
	if err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess(fmt.Sprintf("Health check passed (%d feasts loaded)", health.Feasts))
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testToday() {
	tr.printSection("Today")

	var day DayResponse
	if err := tr.getData("/api/v1/coptic/today", &day); err != nil {
		tr.recordError("Today", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("Today (%s): %s", day.CivilDate, day.Display))
	tr.printDayDetail(day)
}

func (tr *TestRunner) testSpecificDates() {
	tr.printSection("Specific Date Tests")

	testCases := []struct {
		date        string
		want        string
		feast       string
		description string
	}{
		{"2024-09-11", "1 Thoout 1741", "Coptic New Year (Nayrouz)", "Nayrouz 1741"},
		{"2024-09-10", "5 Nesi 1740", "", "Last day of a common year"},
		{"2023-09-11", "6 Nesi 1739", "", "Sixth day of Nesi before a shifted New Year"},
		{"2023-09-12", "1 Thoout 1740", "Coptic New Year (Nayrouz)", "New Year on September 12"},
		{"2025-01-07", "29 Kiahk 1741", "Nativity of Christ (Christmas)", "Coptic Christmas"},
		{"2025-01-19", "11 Tobi 1741", "Theophany (Baptism of Christ)", "Theophany"},
		{"2025-05-09", "1 Pashons 1741", "", "First day of the harvest season"},
		{"1900-01-01", "23 Kiahk 1616", "", "Century year without a leap day"},
	}

	for _, tc := range testCases {
		var day DayResponse
		if err := tr.getData("/api/v1/coptic/date/"+tc.date, &day); err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		if day.Display != tc.want {
			tr.recordError(tc.date, fmt.Sprintf("Expected '%s', got '%s'", tc.want, day.Display))
			continue
		}
		if tc.feast != "" && !slices.Contains(day.Feasts, tc.feast) {
			tr.recordError(tc.date, fmt.Sprintf("Expected feast '%s', got %v", tc.feast, day.Feasts))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s: %s (%s)", tc.date, day.Display, tc.description))

		if tr.verbose {
			tr.printDayDetail(day)
		}
	}
}

func (tr *TestRunner) testNewYears() {
	tr.printSection("New Year Tests")

	testCases := []struct {
		year    int
		date    string
		shifted bool
	}{
		{2023, "2023-09-12", true},
		{2024, "2024-09-11", false},
		{2027, "2027-09-12", true},
		{2099, "2099-09-11", false},
	}

	for _, tc := range testCases {
		var ny NewYearResponse
		if err := tr.getData(fmt.Sprintf("/api/v1/coptic/new-year/%d", tc.year), &ny); err != nil {
			tr.recordError(fmt.Sprintf("New Year %d", tc.year), err.Error())
			continue
		}
		if ny.Date != tc.date || ny.Shifted != tc.shifted {
			tr.recordError(fmt.Sprintf("New Year %d", tc.year),
				fmt.Sprintf("Expected %s (shifted=%t), got %s (shifted=%t)", tc.date, tc.shifted, ny.Date, ny.Shifted))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("New Year %d: %s, Coptic year %d", tc.year, ny.Date, ny.CopticYear))
	}
}

func (tr *TestRunner) testDateRange() {
	tr.printSection("Date Range Tests")

	// Crosses the New Year of 1741
	var rangeData RangeResponse
	if err := tr.getData("/api/v1/coptic/range?start=2024-09-08&end=2024-09-14", &rangeData); err != nil {
		tr.recordError("Range (week)", err.Error())
		return
	}

	if rangeData.Count == 7 {
		tr.recordSuccess(fmt.Sprintf("Week range returned %d days", rangeData.Count))
	} else {
		tr.recordError("Range (week)", fmt.Sprintf("Expected 7 days, got %d", rangeData.Count))
	}
	if rangeData.Count == 7 && rangeData.Days[3].Display == "1 Thoout 1741" {
		tr.recordSuccess("Range crosses New Year on 2024-09-11")
	} else {
		tr.recordError("Range (week)", "Expected 1 Thoout 1741 on the fourth day")
	}

	tr.expectStatus("Range limit enforced", "/api/v1/coptic/range?start=2020-01-01&end=2025-12-31", http.StatusBadRequest)
	tr.expectStatus("Invalid range rejected (end before start)", "/api/v1/coptic/range?start=2025-12-31&end=2025-01-01", http.StatusBadRequest)
}

func (tr *TestRunner) testToCivil() {
	tr.printSection("Coptic to Civil Tests")

	testCases := []struct {
		path string
		want string
	}{
		{"/api/v1/coptic/to-civil/1741/1/1", "2024-09-11"},
		{"/api/v1/coptic/to-civil/1741/kiahk/29", "2025-01-07"},
		{"/api/v1/coptic/to-civil/1739/13/6", "2023-09-11"},
	}

	for _, tc := range testCases {
		var day DayResponse
		if err := tr.getData(tc.path, &day); err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}
		if day.CivilDate != tc.want {
			tr.recordError(tc.path, fmt.Sprintf("Expected %s, got %s", tc.want, day.CivilDate))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s -> %s", day.Display, day.CivilDate))
	}

	tr.expectStatus("Sixth day of Nesi rejected in a common year", "/api/v1/coptic/to-civil/1740/13/6", http.StatusBadRequest)
	tr.expectStatus("Unknown month rejected", "/api/v1/coptic/to-civil/1741/august/1", http.StatusBadRequest)
}

func (tr *TestRunner) testFeastCalendar() {
	tr.printSection("Feast Calendar")

	resp, err := tr.getRaw("/api/v1/feasts/calendar.ics?year=1741")
	if err != nil {
		tr.recordError("Calendar", err.Error())
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	switch {
	case resp.StatusCode != http.StatusOK:
		tr.recordError("Calendar", fmt.Sprintf("HTTP %d", resp.StatusCode))
	case !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/calendar"):
		tr.recordError("Calendar", "Unexpected content type "+resp.Header.Get("Content-Type"))
	case !strings.Contains(string(body), "20250107"):
		tr.recordError("Calendar", "Nativity of 1741 missing from export")
	default:
		tr.recordSuccess(fmt.Sprintf("Calendar for 1741 exported (%d events)", strings.Count(string(body), "BEGIN:VEVENT")))
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	tr.expectStatus("Invalid date format rejected", "/api/v1/coptic/date/invalid", http.StatusBadRequest)
	tr.expectStatus("Impossible date rejected", "/api/v1/coptic/date/2023-02-29", http.StatusBadRequest)
	tr.expectStatus("Missing end parameter rejected", "/api/v1/coptic/range?start=2025-01-01", http.StatusBadRequest)
	tr.expectStatus("Unknown route returns 404", "/api/v1/coptic/nowhere", http.StatusNotFound)

	var day DayResponse
	if err := tr.getData("/api/v1/coptic/date/2024-02-29", &day); err != nil {
		tr.recordError("Leap year", err.Error())
	} else {
		tr.recordSuccess(fmt.Sprintf("Leap year date (2024-02-29) handled: %s", day.Display))
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) getData(path string, target any) error {
	resp, err := tr.getRaw(path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return fmt.Errorf("API error: %s", errMsg)
	}

	return json.Unmarshal(apiResp.Data, target)
}

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	return tr.client.Get(tr.baseURL + path)
}

func (tr *TestRunner) expectStatus(name, path string, status int) {
	resp, err := tr.getRaw(path)
	if err != nil {
		tr.recordError(name, err.Error())
		return
	}
	resp.Body.Close()

	if resp.StatusCode == status {
		tr.recordSuccess(name)
	} else {
		tr.recordError(name, fmt.Sprintf("Expected HTTP %d, got %d", status, resp.StatusCode))
	}
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) printDayDetail(d DayResponse) {
	fmt.Printf("    %s, %s (%d%% of %s)\n", d.Weekday, d.Coptic.Season, d.Progress, d.Coptic.MonthName)
	for _, f := range d.Feasts {
		fmt.Printf("    Feast: %s\n", f)
	}
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
		return
	}
	fmt.Println("All tests passed! ✓")
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flag.Bool("v", false, "Verbose output (show day details)")
	flag.Parse()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *verbose)
	runner.Run()

	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
