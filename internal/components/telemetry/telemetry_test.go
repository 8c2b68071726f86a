package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestScopedAPI(t *testing.T) {
	rec := &Recorder{}
	scoped := NewScopedAPI("hse_scraper", rec)

	scoped.ReportBroken("scraper.costs", errors.New("boom"))
	scoped.ReportWarning("scraper.faq", 1, 2)
	scoped.ReportCount("scraper.rankings", 7)
	scoped.ReportDebug("fetching")

	require.Len(t, rec.Reports(""), 4)

	broken := rec.Reports("broken")
	require.Len(t, broken, 1)
	require.Equal(t, "hse_scraper: scraper.costs", broken[0].ID)

	warnings := rec.Reports("warning")
	require.Equal(t, []any{1, 2}, warnings[0].Params)

	counts := rec.Reports("count")
	require.Equal(t, int64(7), counts[0].Count)
	require.Equal(t, "hse_scraper: scraper.rankings", counts[0].ID)
}

func TestSetupOtelWithoutEndpoints(t *testing.T) {
	o, err := SetupOtel(context.Background(), "test:telemetry", OtlpConfig{})
	require.NoError(t, err)
	require.Nil(t, o.TracerProvider)
	require.Nil(t, o.MeterProvider)
	require.NoError(t, o.Shutdown(context.Background()))
}

func TestInstrumentResty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/html")
		w.Write([]byte("<p>hello</p>"))
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "dump")
	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	rec := &Recorder{}
	client := resty.New()
	InstrumentResty(client, rec, out)

	res, err := client.R().Get(server.URL + "/page")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())

	debug := rec.Reports("debug")
	require.Len(t, debug, 2)
	require.Equal(t, report_resty_request, debug[0].ID)
	require.Equal(t, report_resty_response, debug[1].ID)

	dumped, err := os.ReadFile(filepath.Join(dir, "1.txt"))
	require.NoError(t, err)
	require.True(t, strings.Contains(string(dumped), "GET "+server.URL+"/page"))
	require.True(t, strings.Contains(string(dumped), "<p>hello</p>"))
}

func TestInstrumentRestyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	rec := &Recorder{}
	client := resty.New()
	InstrumentResty(client, rec, nil)

	_, err := client.R().Get(url)
	require.Error(t, err)

	broken := rec.Reports("broken")
	require.Len(t, broken, 1)
	require.Equal(t, report_resty_response, broken[0].ID)
}

func TestInstrumentRestyRetrySpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { provider.Shutdown(context.Background()) })

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	rec := &Recorder{}
	client := resty.New().
		SetRetryCount(2).
		SetRetryWaitTime(time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Millisecond).
		AddRetryCondition(func(_ *resty.Response, err error) bool { return err != nil })
	InstrumentResty(client, rec, nil)

	_, err := client.R().Get(url)
	require.Error(t, err)

	require.Len(t, recorder.Started(), 3)
	ended := recorder.Ended()
	require.Len(t, ended, 3)

	// every attempt is a root span, not a child of the previous attempt
	for _, span := range ended {
		require.False(t, span.Parent().IsValid(), span.Name())
	}
	require.Len(t, rec.Reports("broken"), 1)
}

func TestRestyLogger(t *testing.T) {
	rec := &Recorder{}
	logger := restyLogger{tel: rec}

	logger.Warnf("%v, Attempt %v", "connection refused", 1)
	logger.Errorf("giving up after %d attempts", 3)
	logger.Debugf("request %s", "GET")

	warnings := rec.Reports("warning")
	require.Len(t, warnings, 2)
	require.Equal(t, report_resty_log, warnings[0].ID)
	require.Equal(t, []any{"connection refused, Attempt 1"}, warnings[0].Params)
	require.Equal(t, []any{"giving up after 3 attempts"}, warnings[1].Params)

	debug := rec.Reports("debug")
	require.Len(t, debug, 1)
	require.Equal(t, []any{"request GET"}, debug[0].Params)
}

func TestFilesystemOutputClearsDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dump")
	require.NoError(t, os.MkdirAll(dir, 0777))
	stale := filepath.Join(dir, "1.txt")
	require.NoError(t, os.WriteFile(stale, []byte("previous run"), 0600))

	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)
	_, err = os.Stat(stale)
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, out.Write("1", "this run"))
	contents, err := os.ReadFile(stale)
	require.NoError(t, err)
	require.Equal(t, "this run", string(contents))
}
