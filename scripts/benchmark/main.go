// Benchmark harness for the search API. Fires repeated queries at a running
// server, one engine at a time, and reports wall-clock latency, engine-side
// latency and result counts. Requests bypass the cache so every run measures
// real extraction work.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

var (
	apiURL  = flag.String("api-url", "http://localhost:8080", "search API base URL")
	apiKey  = flag.String("api-key", "", "API key for authenticated requests")
	runs    = flag.Int("runs", 3, "number of runs per engine/query pair")
	engines = flag.String("engines", "quark,sogou,bing", "comma-separated engines to benchmark")
	output  = flag.String("output", "benchmark-results.json", "JSON output file path")
)

// Queries covering the engines' strong suits: Chinese and English, short and
// specific.
var testQueries = []struct {
	Label string
	Query string
}{
	{"Tech-EN", "golang concurrency patterns"},
	{"Tech-ZH", "人工智能 最新进展"},
	{"Docs", "kubernetes operator tutorial"},
	{"General-ZH", "量子计算 研究"},
}

// --- request/response mirrors of the API wire types ---

type searchRequest struct {
	Query      string `json:"query"`
	Engine     string `json:"engine"`
	MaxResults int    `json:"max_results"`
	NoCache    bool   `json:"no_cache"`
}

type searchResponse struct {
	Items       []searchItem `json:"items"`
	TotalCount  int          `json:"total_count"`
	Engine      string       `json:"engine"`
	QueryTimeMs int64        `json:"query_time_ms"`
	Cached      bool         `json:"cached"`
	Error       string       `json:"error,omitempty"`
}

type searchItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// --- benchmark result types ---

type runResult struct {
	Run         int    `json:"run"`
	WallMs      int64  `json:"wall_ms"`
	EngineMs    int64  `json:"engine_ms"`
	ResultCount int    `json:"result_count"`
	WithURL     int    `json:"with_url"`
	HTTPStatus  int    `json:"http_status"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

type pairAverages struct {
	WallMs      float64 `json:"wall_ms"`
	EngineMs    float64 `json:"engine_ms"`
	ResultCount float64 `json:"result_count"`
}

type pairResult struct {
	Engine   string        `json:"engine"`
	Label    string        `json:"label"`
	Query    string        `json:"query"`
	Runs     []runResult   `json:"runs"`
	Failures int           `json:"failures"`
	Averages *pairAverages `json:"averages,omitempty"`
}

type benchmarkReport struct {
	Timestamp   string       `json:"timestamp"`
	APIURL      string       `json:"api_url"`
	RunsPerPair int          `json:"runs_per_pair"`
	Results     []pairResult `json:"results"`
}

func main() {
	flag.Parse()

	engineList := splitList(*engines)
	if len(engineList) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no engines given")
		os.Exit(1)
	}

	fmt.Println("=== Search Benchmark ===")
	fmt.Printf("API URL:   %s\n", *apiURL)
	fmt.Printf("Engines:   %s\n", strings.Join(engineList, ", "))
	fmt.Printf("Runs/pair: %d\n", *runs)
	fmt.Printf("Output:    %s\n", *output)
	fmt.Println()

	if err := checkAPI(*apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		fmt.Fprintf(os.Stderr, "Start the server first (see serve)\n")
		os.Exit(1)
	}

	report := benchmarkReport{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		APIURL:      *apiURL,
		RunsPerPair: *runs,
	}

	for _, engine := range engineList {
		for _, q := range testQueries {
			fmt.Printf("Benchmarking %s [%s] %q ...\n", engine, q.Label, q.Query)
			pr := pairResult{Engine: engine, Label: q.Label, Query: q.Query}

			for i := 1; i <= *runs; i++ {
				fmt.Printf("  Run %d/%d ... ", i, *runs)
				rr := benchmarkQuery(engine, q.Query, i)
				if rr.Success {
					fmt.Printf("OK  %dms  %d results\n", rr.WallMs, rr.ResultCount)
				} else {
					pr.Failures++
					fmt.Printf("FAILED: %s\n", rr.Error)
				}
				pr.Runs = append(pr.Runs, rr)
			}

			pr.Averages = computeAverages(pr.Runs)
			report.Results = append(report.Results, pr)
			fmt.Println()
		}
	}

	printTable(report.Results)

	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func checkAPI(baseURL string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func benchmarkQuery(engine, query string, run int) runResult {
	rr := runResult{Run: run}

	reqBody := searchRequest{
		Query:      query,
		Engine:     engine,
		MaxResults: 10,
		NoCache:    true,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		rr.Error = fmt.Sprintf("marshal error: %v", err)
		return rr
	}

	req, err := http.NewRequest("POST", *apiURL+"/api/v1/search", bytes.NewReader(bodyBytes))
	if err != nil {
		rr.Error = fmt.Sprintf("request error: %v", err)
		return rr
	}
	req.Header.Set("Content-Type", "application/json")
	if *apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+*apiKey)
	}

	client := &http.Client{Timeout: 120 * time.Second}
	start := time.Now()
	resp, err := client.Do(req)
	rr.WallMs = time.Since(start).Milliseconds()
	if err != nil {
		rr.Error = fmt.Sprintf("request failed: %v", err)
		return rr
	}
	defer resp.Body.Close()
	rr.HTTPStatus = resp.StatusCode

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		rr.Error = fmt.Sprintf("decode error: %v", err)
		return rr
	}

	rr.EngineMs = sr.QueryTimeMs
	rr.ResultCount = sr.TotalCount
	for _, it := range sr.Items {
		if it.URL != "" {
			rr.WithURL++
		}
	}

	if sr.Error != "" {
		rr.Error = sr.Error
		return rr
	}
	rr.Success = resp.StatusCode == http.StatusOK
	if !rr.Success {
		rr.Error = fmt.Sprintf("http status %d", resp.StatusCode)
	}
	return rr
}

func computeAverages(runs []runResult) *pairAverages {
	var n int
	var avg pairAverages

	for _, r := range runs {
		if !r.Success {
			continue
		}
		n++
		avg.WallMs += float64(r.WallMs)
		avg.EngineMs += float64(r.EngineMs)
		avg.ResultCount += float64(r.ResultCount)
	}
	if n == 0 {
		return nil
	}

	avg.WallMs /= float64(n)
	avg.EngineMs /= float64(n)
	avg.ResultCount /= float64(n)
	return &avg
}

func printTable(results []pairResult) {
	fmt.Println(strings.Repeat("─", 78))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Engine\tQuery\tAvg Wall\tAvg Engine\tAvg Results\tFailures\n")
	fmt.Fprintf(w, "──────\t─────\t────────\t──────────\t───────────\t────────\n")

	for _, r := range results {
		if r.Averages == nil {
			fmt.Fprintf(w, "%s\t%s\tFAILED\t-\t-\t%d\n", r.Engine, r.Label, r.Failures)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%dms\t%dms\t%.1f\t%d\n",
			r.Engine,
			r.Label,
			int64(r.Averages.WallMs),
			int64(r.Averages.EngineMs),
			r.Averages.ResultCount,
			r.Failures,
		)
	}

	w.Flush()
	fmt.Println(strings.Repeat("─", 78))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
