// Command apitest exercises a running API server end to end.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
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

// HealthResponse is the response for /health
type HealthResponse struct {
	Status        string   `json:"status"`
	Tables        int      `json:"tables"`
	MissingTables []string `json:"missing_tables"`
	MatrixTable   string   `json:"matrix_table"`
}

// matrixLoaded reports whether the health payload lists the matrix table as
// loaded. fallback names the table when the server does not say.
func (h HealthResponse) matrixLoaded(fallback string) bool {
	name := h.MatrixTable
	if name == "" {
		name = fallback
	}
	for _, missing := range h.MissingTables {
		if missing == name {
			return false
		}
	}
	return true
}

// KinResponse is the response for /kin/{kin} and /calc/{date}
type KinResponse struct {
	Kin    int            `json:"kin"`
	Tone   int            `json:"tone"`
	Seal   int            `json:"seal"`
	Record map[string]any `json:"record"`
}

// BirthdayResponse is the response for /birthday
type BirthdayResponse struct {
	Key  string              `json:"key"`
	Rows []map[string]string `json:"rows"`
}

// TableSummary is one entry of /tables
type TableSummary struct {
	Name    string   `json:"name"`
	Source  string   `json:"source"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	apiKey       string
	matrixTable  string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string

	// matrixLoaded is learned from /health; lookups that need the matrix
	// are skipped without it.
	matrixLoaded bool
}

func NewTestRunner(baseURL, apiKey, matrixTable string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		apiKey:      apiKey,
		matrixTable: matrixTable,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Maya KIN API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	// Run test groups
	tr.testHealth()
	tr.testCalc()
	tr.testKin()
	tr.testBirthday()
	tr.testTables()
	tr.testEdgeCases()

	// Print summary
	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	resp, _, err := tr.get("/health")
	if err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	var health HealthResponse
	if err := json.Unmarshal(resp.Data, &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	tr.matrixLoaded = health.matrixLoaded(tr.matrixTable)

	switch health.Status {
	case "healthy":
		tr.recordSuccess(fmt.Sprintf("Health check passed (%d tables)", health.Tables))
	case "degraded":
		tr.recordSuccess(fmt.Sprintf("Server up, missing tables: %s", strings.Join(health.MissingTables, ", ")))
	default:
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testCalc() {
	tr.printSection("Date to KIN")

	known := []struct {
		path string
		kin  int
	}{
		{"/api/v1/calc/2012-12-21", 207},
		{"/api/v1/calc/2013-07-26", 164},
		{"/api/v1/calc/1987-07-26", 34},
		{"/api/v1/calc/2013-02-12", 260},
		{"/api/v1/calc/2013-01-29?second_half=true", 218},
	}

	for _, tc := range known {
		var got KinResponse
		if err := tr.getData(tc.path, &got); err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}
		if got.Kin != tc.kin {
			tr.recordError(tc.path, fmt.Sprintf("KIN = %d, want %d", got.Kin, tc.kin))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s → KIN %d", tc.path, got.Kin))
		tr.printRecord(got.Record)
	}
}

func (tr *TestRunner) testKin() {
	tr.printSection("KIN Lookup")

	if !tr.matrixLoaded {
		fmt.Println("  (matrix table not loaded, skipping)")
		return
	}

	for _, kin := range []int{1, 164, 260} {
		path := fmt.Sprintf("/api/v1/kin/%d", kin)
		var got KinResponse
		if err := tr.getData(path, &got); err != nil {
			tr.recordError(path, err.Error())
			continue
		}
		if got.Kin != kin {
			tr.recordError(path, fmt.Sprintf("KIN = %d", got.Kin))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("KIN %d (tone %d, seal %d)", got.Kin, got.Tone, got.Seal))
		tr.printRecord(got.Record)
	}
}

func (tr *TestRunner) testBirthday() {
	tr.printSection("Maya Birthday")

	for _, path := range []string{
		"/api/v1/birthday?month=7&day=26",
		"/api/v1/birthday?date=2000-01-01",
		"/api/v1/birthday?date=12/31",
	} {
		var got BirthdayResponse
		if err := tr.getData(path, &got); err != nil {
			tr.recordError(path, err.Error())
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s: %d row(s)", got.Key, len(got.Rows)))
		if tr.verbose {
			for _, row := range got.Rows {
				fmt.Printf("    %v\n", row)
			}
		}
	}
}

func (tr *TestRunner) testTables() {
	tr.printSection("Loaded Tables")

	var tables []TableSummary
	if err := tr.getData("/api/v1/tables", &tables); err != nil {
		tr.recordError("Tables", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("%d tables", len(tables)))
	for _, t := range tables {
		fmt.Printf("    %s: %d rows × %d columns (%s)\n", t.Name, t.Rows, len(t.Columns), t.Source)
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	cases := []struct {
		path   string
		status int
	}{
		{"/api/v1/kin/0", http.StatusBadRequest},
		{"/api/v1/kin/261", http.StatusBadRequest},
		{"/api/v1/kin/abc", http.StatusBadRequest},
		{"/api/v1/calc/1899-12-31", http.StatusBadRequest},
		{"/api/v1/calc/2101-01-01", http.StatusBadRequest},
		{"/api/v1/calc/not-a-date", http.StatusBadRequest},
		{"/api/v1/birthday?month=13&day=1", http.StatusBadRequest},
		{"/api/v1/birthday", http.StatusBadRequest},
		{"/api/v1/tables/no-such-table", http.StatusNotFound},
	}

	for _, tc := range cases {
		_, status, err := tr.get(tc.path)
		if status != tc.status {
			msg := fmt.Sprintf("status %d, want %d", status, tc.status)
			if err != nil && status == 0 {
				msg = err.Error()
			}
			tr.recordError(tc.path, msg)
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s → %d", tc.path, status))
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

// get fetches path and decodes the envelope. The status code is returned
// even when the envelope reports an error.
func (tr *TestRunner) get(path string) (*APIResponse, int, error) {
	req, err := http.NewRequest(http.MethodGet, tr.baseURL+path, nil)
	if err != nil {
		return nil, 0, err
	}
	if tr.apiKey != "" {
		req.Header.Set("X-API-Key", tr.apiKey)
	}

	resp, err := tr.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = fmt.Sprintf("%s (%s)", apiResp.Error.Message, apiResp.Error.Code)
		}
		return nil, resp.StatusCode, fmt.Errorf("API error: %s", errMsg)
	}

	return &apiResp, resp.StatusCode, nil
}

func (tr *TestRunner) getData(path string, target interface{}) error {
	resp, _, err := tr.get(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(resp.Data, target)
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) printRecord(rec map[string]any) {
	if !tr.verbose || len(rec) == 0 {
		return
	}
	for k, v := range rec {
		fmt.Printf("      %s: %v\n", k, v)
	}
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
	}

	if tr.errorCount == 0 {
		fmt.Println("All tests passed! ✓")
	} else {
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
	}
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	apiKey := flag.String("key", os.Getenv("API_KEY"), "API key sent as X-API-Key")
	matrixTable := flag.String("matrix", envOr("MATRIX_TABLE", "matrix"), "Matrix table name, used when /health does not report it")
	verbose := flag.Bool("v", false, "Verbose output (show matched rows)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *apiKey, *matrixTable, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
