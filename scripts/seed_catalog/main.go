// Command seed_catalog uploads a curriculum CSV to a running planner API.
// Useful for seeding a fresh environment or re-running an import after
// fixing rejected rows.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type rowError struct {
	Line    int    `json:"line"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type importReport struct {
	Rows     int        `json:"rows"`
	Imported int        `json:"imported"`
	Errors   []rowError `json:"errors"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Data struct {
		Report *importReport `json:"report"`
	} `json:"data"`
	Error *apiError `json:"error"`
}

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8080", "planner API base URL")
		prefix  = flag.String("prefix", "/api/v1", "API route prefix")
		file    = flag.String("file", "", "curriculum CSV file to import")
		timeout = flag.Duration("timeout", 30*time.Second, "request timeout")
	)
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	csv, err := os.Open(*file)
	if err != nil {
		log.Fatalf("open csv: %v", err)
	}
	defer csv.Close()

	endpoint := strings.TrimRight(*baseURL, "/") + *prefix + "/catalog/import"
	req, err := http.NewRequest(http.MethodPost, endpoint, csv)
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "text/csv")

	client := &http.Client{Timeout: *timeout}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("import request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("read response: %v", err)
	}

	var result envelope
	if err := json.Unmarshal(body, &result); err != nil {
		log.Fatalf("decode response (status %d): %v", resp.StatusCode, err)
	}

	report := result.Data.Report
	if report != nil {
		fmt.Printf("rows: %d, imported: %d, rejected: %d\n", report.Rows, report.Imported, len(report.Errors))
		for _, rowErr := range report.Errors {
			fmt.Printf("  line %d (%s): %s\n", rowErr.Line, rowErr.Code, rowErr.Message)
		}
	}
	if result.Error != nil {
		log.Fatalf("import failed with %d: %s %s", resp.StatusCode, result.Error.Code, result.Error.Message)
	}
	fmt.Println("catalog imported")
}
