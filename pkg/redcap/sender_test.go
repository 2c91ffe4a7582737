package redcap

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bft-labs/redcap/pkg/log"
)

// countingClient records requests and answers with a canned response.
type countingClient struct {
	calls  int32
	status int
	body   string
	err    error
	last   *http.Request
	form   url.Values
}

func (c *countingClient) Do(req *http.Request) (*http.Response, error) {
	atomic.AddInt32(&c.calls, 1)
	c.last = req
	raw, _ := io.ReadAll(req.Body)
	c.form, _ = url.ParseQuery(string(raw))
	if c.err != nil {
		return nil, c.err
	}
	return &http.Response{
		StatusCode: c.status,
		Status:     http.StatusText(c.status),
		Body:       io.NopCloser(strings.NewReader(c.body)),
		Header:     make(http.Header),
	}, nil
}

type entry struct {
	level  string
	msg    string
	fields map[string]interface{}
}

// recordingLogger keeps every log call for inspection.
type recordingLogger struct {
	mu      sync.Mutex
	entries []entry
}

func (l *recordingLogger) add(level, msg string, fields []log.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	l.entries = append(l.entries, entry{level: level, msg: msg, fields: m})
}

func (l *recordingLogger) Debug(msg string, fields ...log.Field) { l.add("debug", msg, fields) }
func (l *recordingLogger) Info(msg string, fields ...log.Field)  { l.add("info", msg, fields) }
func (l *recordingLogger) Warn(msg string, fields ...log.Field)  { l.add("warn", msg, fields) }
func (l *recordingLogger) Error(msg string, fields ...log.Field) { l.add("error", msg, fields) }

var testConfig = Config{APIURL: "https://redcap.example.org/api/", APIToken: "secret-token"}

func TestSend_Success(t *testing.T) {
	var gotMethod string
	var gotForm url.Values
	var gotHeaders http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeaders = r.Header.Clone()
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer ts.Close()

	sender := NewSender(Config{APIURL: ts.URL, APIToken: "secret-token"}, WithHTTPClient(ts.Client()))
	got, err := sender.Send(context.Background(), "metadata", nil)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"status": "ok"}, got)

	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "application/x-www-form-urlencoded", gotHeaders.Get("Content-Type"))
	require.Equal(t, "application/json", gotHeaders.Get("Accept"))
	require.Equal(t, url.Values{
		"content":      {"metadata"},
		"token":        {"secret-token"},
		"format":       {"json"},
		"returnFormat": {"json"},
	}, gotForm)
}

func TestSend_ArrayBody(t *testing.T) {
	client := &countingClient{status: http.StatusOK, body: `[{"record_id":"1"},{"record_id":"2"}]`}
	sender := NewSender(testConfig, WithHTTPClient(client))

	got, err := sender.Send(context.Background(), "record", map[string]string{"type": "flat"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "flat", client.form.Get("type"))
}

func TestSend_MissingConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		variable string
	}{
		{name: "missing url", cfg: Config{APIToken: "t"}, variable: EnvAPIURL},
		{name: "missing token", cfg: Config{APIURL: "https://redcap.example.org/api/"}, variable: EnvAPIToken},
		{name: "missing both", cfg: Config{}, variable: EnvAPIURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &countingClient{status: http.StatusOK, body: `{}`}
			sender := NewSender(tt.cfg, WithHTTPClient(client))

			_, err := sender.Send(context.Background(), "metadata", nil)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			require.Equal(t, tt.variable, cfgErr.Variable)
			require.ErrorIs(t, err, ErrMissingConfig)
			require.Zero(t, atomic.LoadInt32(&client.calls))
		})
	}
}

func TestSend_HTTPError(t *testing.T) {
	client := &countingClient{status: http.StatusForbidden, body: `{"error":"forbidden"}`}
	sender := NewSender(testConfig, WithHTTPClient(client))

	got, err := sender.Send(context.Background(), "record", nil)
	require.Nil(t, got)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusForbidden, httpErr.StatusCode)
	require.Equal(t, `{"error":"forbidden"}`, string(httpErr.Body))
	require.Contains(t, err.Error(), "403")
}

func TestSend_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	sender := NewSender(Config{APIURL: ts.URL, APIToken: "t"})
	_, err := sender.Send(context.Background(), "version", nil)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
}

func TestSend_DecodeError(t *testing.T) {
	client := &countingClient{status: http.StatusOK, body: "not json"}
	sender := NewSender(testConfig, WithHTTPClient(client))

	_, err := sender.Send(context.Background(), "metadata", nil)
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	require.Equal(t, "not json", string(decErr.Body))
}

func TestSend_TransportError(t *testing.T) {
	cause := errors.New("connection refused")
	client := &countingClient{err: cause}
	sender := NewSender(testConfig, WithHTTPClient(client))

	_, err := sender.Send(context.Background(), "metadata", nil)
	var trErr *TransportError
	require.ErrorAs(t, err, &trErr)
	require.ErrorIs(t, err, cause)
	require.EqualValues(t, 1, atomic.LoadInt32(&client.calls))
}

func TestSend_ReservedKeysOverwritten(t *testing.T) {
	client := &countingClient{status: http.StatusOK, body: `{}`}
	sender := NewSender(testConfig, WithHTTPClient(client))

	params := map[string]string{
		"token":        "attacker",
		"content":      "user",
		"format":       "xml",
		"returnFormat": "csv",
		"forms":        "demographics",
	}
	_, err := sender.Send(context.Background(), "metadata", params)
	require.NoError(t, err)

	require.Equal(t, []string{"secret-token"}, client.form["token"])
	require.Equal(t, []string{"metadata"}, client.form["content"])
	require.Equal(t, []string{"json"}, client.form["format"])
	require.Equal(t, []string{"json"}, client.form["returnFormat"])
	require.Equal(t, "demographics", client.form.Get("forms"))

	// caller's map is untouched
	require.Equal(t, "attacker", params["token"])
	require.Len(t, params, 5)
}

func TestSend_LogsBodyBeforeStatusCheck(t *testing.T) {
	client := &countingClient{status: http.StatusBadRequest, body: "{\n  \"error\": \"bad field\"\n}"}
	logger := &recordingLogger{}
	sender := NewSender(testConfig, WithHTTPClient(client), WithLogger(logger))

	_, err := sender.Send(context.Background(), "record", nil)
	require.Error(t, err)

	require.Len(t, logger.entries, 1)
	e := logger.entries[0]
	require.Equal(t, "debug", e.level)
	require.Equal(t, "record", e.fields["content"])
	require.Equal(t, http.StatusBadRequest, e.fields["status"])
	require.Equal(t, `{"error":"bad field"}`, e.fields["body"])
}

func TestSendInto(t *testing.T) {
	client := &countingClient{status: http.StatusOK, body: `[{"field_name":"record_id","form_name":"demographics"}]`}
	sender := NewSender(testConfig, WithHTTPClient(client))

	var fields []struct {
		FieldName string `json:"field_name"`
		FormName  string `json:"form_name"`
	}
	require.NoError(t, sender.SendInto(context.Background(), "metadata", nil, &fields))
	require.Len(t, fields, 1)
	require.Equal(t, "record_id", fields[0].FieldName)
	require.Equal(t, "demographics", fields[0].FormName)
}

func TestSend_ContextCanceled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sender := NewSender(Config{APIURL: ts.URL, APIToken: "t"})
	_, err := sender.Send(ctx, "metadata", nil)
	var trErr *TransportError
	require.ErrorAs(t, err, &trErr)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSend_Concurrent(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		r.ParseForm()
		w.Write([]byte(`{"echo":"` + r.PostForm.Get("records") + `"}`))
	}))
	defer ts.Close()

	sender := NewSender(Config{APIURL: ts.URL, APIToken: "t"}, WithHTTPClient(ts.Client()))

	var wg sync.WaitGroup
	for _, id := range []string{"1", "2", "3", "4", "5", "6", "7", "8"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			got, err := sender.Send(context.Background(), "record", map[string]string{"records": id})
			if err != nil {
				t.Errorf("Send(%s): %v", id, err)
				return
			}
			if got.(map[string]interface{})["echo"] != id {
				t.Errorf("Send(%s) echo = %v", id, got)
			}
		}(id)
	}
	wg.Wait()
	require.EqualValues(t, 8, atomic.LoadInt32(&calls))
}
