package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xuri/excelize/v2"

	"github.com/Malikabakr/bank-project/pkg/batch"
	"github.com/Malikabakr/bank-project/pkg/batch/processor"
	"github.com/Malikabakr/bank-project/pkg/config"
	"github.com/Malikabakr/bank-project/pkg/render"
	"github.com/Malikabakr/bank-project/pkg/store"
	"github.com/Malikabakr/bank-project/pkg/telemetry/metrics"
)

type testEnv struct {
	cfg     *config.Config
	store   *store.FileStore
	tracker *batch.Tracker
	ts      *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.NewDefault()
	cfg.Storage.DataDir = t.TempDir()

	fs, err := store.NewFileStore(store.Options{
		DataDir: cfg.Storage.DataDir,
		Index:   store.NewMemoryIndex(),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { fs.Close() })

	tracker := batch.NewTracker()
	renderer := render.NewRenderer(render.Options{})
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())

	proc := processor.New(processor.Options{
		Store:      fs,
		Tracker:    tracker,
		Renderer:   renderer,
		Metrics:    collector,
		RowTimeout: 10 * time.Second,
	})

	srv := NewServer(Options{
		Config:    cfg,
		Store:     fs,
		Tracker:   tracker,
		Processor: proc,
		Renderer:  renderer,
		Metrics:   collector,
	})

	ts := httptest.NewServer(srv.setupRoutes())
	t.Cleanup(ts.Close)

	return &testEnv{cfg: cfg, store: fs, tracker: tracker, ts: ts}
}

// newClient returns a client with its own cookie jar, so each client acts
// as a distinct session.
func newClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Jar: jar}
}

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()

	sheet := wb.GetSheetName(wb.GetActiveSheetIndex())
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func multipartUpload(t *testing.T, filename, cardType string, content io.Reader) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.Copy(part, content); err != nil {
		t.Fatal(err)
	}
	if err := mw.WriteField("card_type", cardType); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return body, mw.FormDataContentType()
}

func uploadBatch(t *testing.T, env *testEnv, client *http.Client, filename, cardType string, content io.Reader) string {
	t.Helper()

	body, contentType := multipartUpload(t, filename, cardType, content)
	resp, err := client.Post(env.ts.URL+"/api/v1/batches", contentType, body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("upload status = %d, body %s", resp.StatusCode, raw)
	}

	var accepted struct {
		JobID string `json:"job_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&accepted); err != nil {
		t.Fatal(err)
	}
	if accepted.JobID == "" {
		t.Fatal("no job_id in response")
	}
	return accepted.JobID
}

// pollJob polls the progress endpoint until the job reaches a terminal state.
func pollJob(t *testing.T, env *testEnv, client *http.Client, jobID string) batch.Snapshot {
	t.Helper()

	deadline := time.Now().Add(15 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := client.Get(env.ts.URL + "/api/v1/batches/" + jobID)
		if err != nil {
			t.Fatal(err)
		}

		var snap batch.Snapshot
		if resp.StatusCode == http.StatusOK {
			if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
				resp.Body.Close()
				t.Fatal(err)
			}
		}
		resp.Body.Close()

		if snap.Status.Terminal() {
			return snap
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("job did not reach a terminal state")
	return batch.Snapshot{}
}

func TestServer_UploadPollDownload(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	wb := buildWorkbook(t, [][]interface{}{
		{"Name", "Phone Number", "Last Four Digits"},
		{"Ali Hassan", "0750", "1234"},
		{"Sara Omar", "0751", "5678"},
	})

	jobID := uploadBatch(t, env, client, "cards.xlsx", "platinum", wb)
	snap := pollJob(t, env, client, jobID)

	if snap.Status != batch.StatusCompleted {
		t.Fatalf("Status = %q (error %q), want completed", snap.Status, snap.Error)
	}
	if snap.Completed != 2 {
		t.Errorf("Completed = %d, want 2", snap.Completed)
	}
	if snap.Percent != 100 {
		t.Errorf("Percent = %d, want 100", snap.Percent)
	}
	if snap.ZipArtifactID == "" {
		t.Fatal("ZipArtifactID not set")
	}

	resp, err := client.Get(env.ts.URL + "/api/v1/artifacts/" + snap.ZipArtifactID)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("download status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/zip" {
		t.Errorf("Content-Type = %q, want application/zip", got)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "cards_platinum.zip") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) == 0 {
		t.Error("empty zip body")
	}

	// Each per-row PDF is downloadable through its produced artifact id.
	if len(snap.ProducedArtifacts) != 2 {
		t.Fatalf("ProducedArtifacts has %d ids, want 2", len(snap.ProducedArtifacts))
	}
	for i, id := range snap.ProducedArtifacts {
		resp, err := client.Get(env.ts.URL + "/api/v1/artifacts/" + id)
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("row %d artifact status = %d", i, resp.StatusCode)
		}
		if !bytes.HasPrefix(body, []byte("%PDF")) {
			t.Errorf("row %d artifact is not a PDF", i)
		}
	}
}

func TestServer_SessionIsolation(t *testing.T) {
	env := newTestEnv(t)
	alice := newClient(t)
	bob := newClient(t)

	wb := buildWorkbook(t, [][]interface{}{
		{"Name", "Last Four Digits"},
		{"Ali", "1111"},
	})

	jobID := uploadBatch(t, env, alice, "cards.xlsx", "corporate", wb)
	snap := pollJob(t, env, alice, jobID)
	if snap.Status != batch.StatusCompleted {
		t.Fatalf("Status = %q, want completed", snap.Status)
	}

	// Bob cannot see Alice's job or her artifact.
	resp, err := bob.Get(env.ts.URL + "/api/v1/batches/" + jobID)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("foreign job status = %d, want 404", resp.StatusCode)
	}

	resp, err = bob.Get(env.ts.URL + "/api/v1/artifacts/" + snap.ZipArtifactID)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("foreign artifact status = %d, want 404", resp.StatusCode)
	}

	// A leaked per-row artifact id is just as useless to Bob.
	if len(snap.ProducedArtifacts) == 0 {
		t.Fatal("ProducedArtifacts empty")
	}
	resp, err = bob.Get(env.ts.URL + "/api/v1/artifacts/" + snap.ProducedArtifacts[0])
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("foreign row artifact status = %d, want 404", resp.StatusCode)
	}
}

func TestServer_MissingArtifactReturns404(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	resp, err := client.Get(env.ts.URL + "/api/v1/artifacts/no-such-artifact")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestServer_SessionWipe(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	wb := buildWorkbook(t, [][]interface{}{
		{"Name", "Last Four Digits"},
		{"Ali", "1111"},
	})

	jobID := uploadBatch(t, env, client, "cards.xlsx", "business", wb)
	snap := pollJob(t, env, client, jobID)
	if snap.Status != batch.StatusCompleted {
		t.Fatalf("Status = %q, want completed", snap.Status)
	}

	req, err := http.NewRequest(http.MethodDelete, env.ts.URL+"/api/v1/session", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("wipe status = %d", resp.StatusCode)
	}

	var cleared struct {
		ArtifactsRemoved int `json:"artifacts_removed"`
		JobsRemoved      int `json:"jobs_removed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&cleared); err != nil {
		t.Fatal(err)
	}
	// Upload, one PDF, one zip.
	if cleared.ArtifactsRemoved != 3 {
		t.Errorf("ArtifactsRemoved = %d, want 3", cleared.ArtifactsRemoved)
	}
	if cleared.JobsRemoved != 1 {
		t.Errorf("JobsRemoved = %d, want 1", cleared.JobsRemoved)
	}

	resp, err = client.Get(env.ts.URL + "/api/v1/artifacts/" + snap.ZipArtifactID)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("artifact after wipe = %d, want 404", resp.StatusCode)
	}
}

func TestServer_RejectsOversizedUpload(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Server.MaxUploadBytes = 1024

	// Rebuild the handler chain with the lowered cap.
	srv := NewServer(Options{
		Config:  env.cfg,
		Store:   env.store,
		Tracker: env.tracker,
	})
	ts := httptest.NewServer(srv.setupRoutes())
	defer ts.Close()

	client := newClient(t)
	big := bytes.NewReader(bytes.Repeat([]byte("x"), 4096))
	body, contentType := multipartUpload(t, "big.xlsx", "platinum", big)

	resp, err := client.Post(ts.URL+"/api/v1/batches", contentType, body)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

func TestServer_RejectsUnknownCardType(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	wb := buildWorkbook(t, [][]interface{}{
		{"Name"},
		{"Ali"},
	})
	body, contentType := multipartUpload(t, "cards.xlsx", "diamond", wb)

	resp, err := client.Post(env.ts.URL+"/api/v1/batches", contentType, body)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestServer_RejectsWrongExtension(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	body, contentType := multipartUpload(t, "cards.csv", "platinum", strings.NewReader("a,b"))
	resp, err := client.Post(env.ts.URL+"/api/v1/batches", contentType, body)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestServer_ConvertTable(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	wb := buildWorkbook(t, [][]interface{}{
		{"Name", "Phone Number"},
		{"Ali", "0750"},
		{"Sara", "0751"},
	})
	body, contentType := multipartUpload(t, "list.xlsx", "platinum", wb)

	resp, err := client.Post(env.ts.URL+"/api/v1/convert/table", contentType, body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("convert status = %d, body %s", resp.StatusCode, raw)
	}

	var created struct {
		ArtifactID string `json:"artifact_id"`
		Name       string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.Name != "list.pdf" {
		t.Errorf("Name = %q, want list.pdf", created.Name)
	}

	dl, err := client.Get(env.ts.URL + "/api/v1/artifacts/" + created.ArtifactID)
	if err != nil {
		t.Fatal(err)
	}
	defer dl.Body.Close()

	raw, err := io.ReadAll(dl.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(raw, []byte("%PDF")) {
		t.Error("converted artifact is not a PDF")
	}
}

func TestServer_HealthAndReady(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	for _, path := range []string{"/health", "/ready"} {
		resp, err := client.Get(env.ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestServer_MetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	// Generate at least one request so counters exist.
	resp, err := client.Get(env.ts.URL + "/api/v1/artifacts/missing")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	resp, err = client.Get(env.ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics status = %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "cardpress_http_requests_total") {
		t.Error("scrape is missing the request counter")
	}
}

func TestServer_IssuesSessionCookie(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.ts.URL + "/api/v1/batches/some-id")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == env.cfg.Server.SessionCookie {
			found = true
			if !c.HttpOnly {
				t.Error("session cookie is not HttpOnly")
			}
		}
	}
	if !found {
		t.Errorf("no %s cookie issued", env.cfg.Server.SessionCookie)
	}
}

func TestServer_DoubleStartRejected(t *testing.T) {
	srv := NewServer(Options{Config: config.NewDefault()})
	srv.mu.Lock()
	srv.isRunning = true
	srv.mu.Unlock()

	if err := srv.Start(context.Background()); err == nil {
		t.Error("second Start() did not fail")
	}
}
