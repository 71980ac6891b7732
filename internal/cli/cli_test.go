package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pfrederiksen/gora-search/internal/gora"
	"github.com/pfrederiksen/gora-search/internal/popup"
)

const testCred = "5647382910564738291"

// fakeGora answers like the GORA endpoints: two search hits, per-course details.
func fakeGora(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		q := r.URL.Query()

		if q.Get("applicationId") != testCred {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"wrong_parameter","error_description":"specify valid applicationId"}`)
			return
		}

		if strings.Contains(r.URL.Path, "Detail") {
			switch q.Get("golfCourseId") {
			case "101":
				fmt.Fprint(w, `{"Item":{"golfCourseId":101,"holeCount":18,"weekdayMinPrice":8000}}`)
			case "102":
				fmt.Fprint(w, `{"Item":{"golfCourseId":102,"holeCount":9,"weekdayMinPrice":3000}}`)
			default:
				fmt.Fprint(w, `{"Item":null}`)
			}
			return
		}

		if q.Get("keyword") == "なし" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"not_found","error_description":"not found"}`)
			return
		}
		fmt.Fprint(w, `{"count":2,"Items":[
			{"golfCourseId":101,"golfCourseName":"箱根カントリー","prefecture":"神奈川県","evaluation":3.9},
			{"golfCourseId":102,"golfCourseName":"Akagi Golf","prefecture":"群馬県","evaluation":4.4}
		]}`)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

// writeConfig points the CLI at base and a fresh data directory.
func writeConfig(t *testing.T, base string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := fmt.Sprintf("base_url: %s\ndata_dir: %s\nrate_per_second: 0\nlog_level: error\n", base, filepath.Join(dir, "data"))
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func setup(t *testing.T) (string, *int32) {
	t.Helper()
	srv, calls := fakeGora(t)
	cfg := writeConfig(t, srv.URL)
	if code, _, stderr := runCLI(t, "--config", cfg, "config", "set-key", testCred); code != ExitSuccess {
		t.Fatalf("set-key failed: %s", stderr)
	}
	return cfg, calls
}

func TestSearch_NotConfigured(t *testing.T) {
	srv, calls := fakeGora(t)
	cfg := writeConfig(t, srv.URL)

	code, _, stderr := runCLI(t, "--config", cfg, "search", "箱根")
	if code != ExitError {
		t.Errorf("exit code = %d, want %d", code, ExitError)
	}
	if !strings.Contains(stderr, popup.MsgNotConfigured) {
		t.Errorf("stderr = %q, want not-configured message", stderr)
	}
	if got := atomic.LoadInt32(calls); got != 0 {
		t.Errorf("API calls = %d, want 0", got)
	}
}

func TestSearch_Text(t *testing.T) {
	cfg, _ := setup(t)

	code, stdout, stderr := runCLI(t, "--config", cfg, "search", "箱根", "--area", "14")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}

	for _, want := range []string{"箱根カントリー [101]", "場所: 神奈川県", "Akagi Golf [102]", "Total: 2 courses"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestSearch_JSONWithDetails(t *testing.T) {
	cfg, _ := setup(t)

	code, stdout, stderr := runCLI(t, "--config", cfg, "search", "箱根", "--format", "json", "--details")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}

	var out SearchOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, stdout)
	}
	if out.Count != 2 || len(out.Items) != 2 {
		t.Errorf("count = %d, items = %d, want 2", out.Count, len(out.Items))
	}
	if out.Keyword != "箱根" {
		t.Errorf("keyword = %q", out.Keyword)
	}
	if d := out.Details["101"]; d == nil || d.WeekdayMinPrice.String() != "8000" {
		t.Errorf("details[101] = %+v", d)
	}
}

func TestSearch_PriceBandAndSort(t *testing.T) {
	cfg, _ := setup(t)

	code, stdout, _ := runCLI(t, "--config", cfg, "search", "--price", "medium")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, "箱根カントリー") || strings.Contains(stdout, "Akagi Golf") {
		t.Errorf("price filter kept the wrong courses:\n%s", stdout)
	}
	if !strings.Contains(stdout, "料金帯: 5,000円～15,000円") {
		t.Errorf("filter description missing:\n%s", stdout)
	}

	code, stdout, _ = runCLI(t, "--config", cfg, "search", "--sort", "price")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if strings.Index(stdout, "Akagi Golf") > strings.Index(stdout, "箱根カントリー") {
		t.Errorf("cheaper course should come first:\n%s", stdout)
	}
}

func TestSearch_HTML(t *testing.T) {
	cfg, _ := setup(t)

	code, stdout, _ := runCLI(t, "--config", cfg, "search", "--format", "html", "--details")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.HasPrefix(stdout, `<div id="resultsList"`) {
		t.Errorf("expected the result list fragment, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, "course-extended") || !strings.Contains(stdout, "¥8,000") {
		t.Errorf("details not merged:\n%s", stdout)
	}
}

func TestSearch_NoResults(t *testing.T) {
	cfg, _ := setup(t)

	code, stdout, _ := runCLI(t, "--config", cfg, "search", "なし")
	if code != ExitNoResults {
		t.Errorf("exit code = %d, want %d", code, ExitNoResults)
	}
	if !strings.Contains(stdout, "No courses found.") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestSearch_InvalidFlags(t *testing.T) {
	cfg, calls := setup(t)
	before := atomic.LoadInt32(calls)

	tests := [][]string{
		{"search", "--area", "48"},
		{"search", "--format", "xml"},
		{"search", "--sort", "random"},
		{"search", "--price", "cheap"},
	}
	for _, args := range tests {
		code, _, _ := runCLI(t, append([]string{"--config", cfg}, args...)...)
		if code != ExitError {
			t.Errorf("%v: exit code = %d, want %d", args, code, ExitError)
		}
	}
	if got := atomic.LoadInt32(calls); got != before {
		t.Errorf("invalid flags reached the API %d times", got-before)
	}
}

func TestDetail(t *testing.T) {
	cfg, _ := setup(t)

	code, stdout, stderr := runCLI(t, "--config", cfg, "detail", "101")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	for _, want := range []string{"Course 101", "ホール数: 18ホール", "料金（平日）: ¥8,000", "設計者: 不明"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}

	code, _, stderr = runCLI(t, "--config", cfg, "detail", "999")
	if code != ExitError || !strings.Contains(stderr, popup.MsgNoData) {
		t.Errorf("missing course: code = %d, stderr = %q", code, stderr)
	}
}

func TestAreas(t *testing.T) {
	cfg := writeConfig(t, "http://127.0.0.1:1")

	code, stdout, _ := runCLI(t, "--config", cfg, "areas")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != len(gora.Areas) {
		t.Errorf("got %d lines, want %d", len(lines), len(gora.Areas))
	}
	if !strings.Contains(lines[12], "13  東京都") {
		t.Errorf("line 13 = %q", lines[12])
	}
}

func TestConfigCommands(t *testing.T) {
	srv, _ := fakeGora(t)
	cfg := writeConfig(t, srv.URL)

	code, _, stderr := runCLI(t, "--config", cfg, "config", "get-key")
	if code != ExitError || !strings.Contains(stderr, popup.MsgNotConfigured) {
		t.Errorf("get-key before set: code = %d, stderr = %q", code, stderr)
	}

	code, _, stderr = runCLI(t, "--config", cfg, "config", "set-key", "YOUR_APPLICATION_ID_HERE")
	if code != ExitError || !strings.Contains(stderr, popup.MsgKeyNotValid) {
		t.Errorf("set-key placeholder: code = %d, stderr = %q", code, stderr)
	}

	code, stdout, _ := runCLI(t, "--config", cfg, "config", "set-key", testCred)
	if code != ExitSuccess || !strings.Contains(stdout, popup.MsgKeySaved) {
		t.Errorf("set-key: code = %d, stdout = %q", code, stdout)
	}

	code, stdout, _ = runCLI(t, "--config", cfg, "config", "get-key")
	if code != ExitSuccess || strings.TrimSpace(stdout) != testCred[:10]+"..." {
		t.Errorf("get-key: code = %d, stdout = %q", code, stdout)
	}

	code, stdout, _ = runCLI(t, "--config", cfg, "config", "test")
	if code != ExitSuccess || !strings.Contains(stdout, popup.MsgTestOK) {
		t.Errorf("test: code = %d, stdout = %q", code, stdout)
	}

	code, _, stderr = runCLI(t, "--config", cfg, "config", "test", "--key", "not-the-right-id")
	if code != ExitError || !strings.Contains(stderr, popup.MsgTestRejected) {
		t.Errorf("test with bad key: code = %d, stderr = %q", code, stderr)
	}
}

func TestAugment_File(t *testing.T) {
	cfg := writeConfig(t, "http://127.0.0.1:1")
	page := filepath.Join(t.TempDir(), "search.html")
	html := `<html><body><ul class="course-list"><li class="course-item" hidden>A</li></ul></body></html>`
	if err := os.WriteFile(page, []byte(html), 0644); err != nil {
		t.Fatal(err)
	}

	code, stdout, stderr := runCLI(t, "--config", cfg, "augment",
		"--file", page,
		"--url", "https://gora.golf.rakuten.co.jp/course/search/?keyword=x",
		"--apply-filters", "--criteria", "crMin=70&priceFilter=low",
		"--sort", "price")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	for _, want := range []string{"golf-search-extension-filters", "golf-search-extension-sort", `style="display: block;"`} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q", want)
		}
	}

	code, _, _ = runCLI(t, "--config", cfg, "augment", "--file", page, "--url", "https://example.com/")
	if code != ExitError {
		t.Errorf("other host: exit code = %d, want %d", code, ExitError)
	}

	code, _, _ = runCLI(t, "--config", cfg, "augment", "--file", page,
		"--url", "https://gora.golf.rakuten.co.jp/course/search/", "--criteria", "crMin=80&crMax=70")
	if code != ExitError {
		t.Errorf("inverted range: exit code = %d, want %d", code, ExitError)
	}
}

func TestSortItems(t *testing.T) {
	items := []gora.SearchResultItem{
		{ID: gora.Number(1), Name: gora.Text("b course"), Prefecture: gora.Text("東京都"), Evaluation: gora.Number(3.5)},
		{ID: gora.Number(2), Name: gora.Text("A Course"), Prefecture: gora.Text("北海道")},
		{ID: gora.Number(3), Name: gora.Text("c course"), Prefecture: gora.Text("不明県"), Evaluation: gora.Number(4.1)},
	}
	details := map[string]*gora.CourseDetail{
		"1": {WeekdayMinPrice: gora.Number(9000)},
		"3": {WeekdayMinPrice: gora.Number(4000)},
	}

	tests := []struct {
		order SortOrder
		want  []string
	}{
		{SortDefault, []string{"1", "2", "3"}},
		{SortByName, []string{"2", "1", "3"}},
		{SortByArea, []string{"2", "1", "3"}},
		{SortByRating, []string{"3", "1", "2"}},
		{SortByPrice, []string{"3", "1", "2"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			sorted := append([]gora.SearchResultItem(nil), items...)
			sortItems(sorted, tt.order, details)

			var got []string
			for _, item := range sorted {
				got = append(got, item.CourseID())
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseHelpers(t *testing.T) {
	if _, err := ParseFormat("html", FormatText, FormatJSON); err == nil {
		t.Error("html should be rejected where only text and json are allowed")
	}
	if f, err := ParseFormat("json", FormatText, FormatJSON); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(json) = %q, %v", f, err)
	}
	if o, err := ParseSortOrder(" Name "); err != nil || o != SortByName {
		t.Errorf("ParseSortOrder(Name) = %q, %v", o, err)
	}

	if got := popupURL(":8787"); got != "http://127.0.0.1:8787/" {
		t.Errorf("popupURL = %q", got)
	}
	if got := settingsURL("localhost:9000"); got != "http://localhost:9000/settings" {
		t.Errorf("settingsURL = %q", got)
	}
}
