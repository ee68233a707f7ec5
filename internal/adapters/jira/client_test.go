package jira

import (
    "context"
    "io"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/config"
    "github.com/rs/zerolog"
)

func newTestClient(t *testing.T, apiVer string, handler http.HandlerFunc) (*Client, *httptest.Server) {
    t.Helper()
    srv := httptest.NewServer(handler)
    t.Cleanup(srv.Close)
    cfg := config.Config{
        JiraBaseURL:    srv.URL,
        JiraPAT:        "tok",
        JiraAPIVersion: apiVer,
        HTTPTimeout:    5 * time.Second,
    }
    return NewClient(cfg, zerolog.Nop()), srv
}

func TestSearch_V2Request(t *testing.T) {
    var gotPath, gotAuth string
    var gotQuery map[string][]string
    c, _ := newTestClient(t, "2", func(w http.ResponseWriter, r *http.Request) {
        gotPath = r.URL.Path
        gotAuth = r.Header.Get("Authorization")
        gotQuery = r.URL.Query()
        w.Write([]byte(`{"issues":[],"total":0}`))
    })
    _, err := c.Search(context.Background(), "project = X", 50, 100, []string{"summary", "worklog"}, true)
    if err != nil { t.Fatalf("Search: %v", err) }
    if gotPath != "/rest/api/2/search" { t.Fatalf("path = %q", gotPath) }
    if gotAuth != "Bearer tok" { t.Fatalf("auth = %q", gotAuth) }
    if gotQuery["jql"][0] != "project = X" { t.Fatalf("jql = %v", gotQuery["jql"]) }
    if gotQuery["startAt"][0] != "50" || gotQuery["maxResults"][0] != "100" {
        t.Fatalf("paging = %v", gotQuery)
    }
    if gotQuery["fields"][0] != "summary,worklog" { t.Fatalf("fields = %v", gotQuery["fields"]) }
    if gotQuery["expand"][0] != "names" { t.Fatalf("expand = %v", gotQuery["expand"]) }
}

func TestSearch_V3UsesPost(t *testing.T) {
    var gotMethod, gotBody string
    c, _ := newTestClient(t, "3", func(w http.ResponseWriter, r *http.Request) {
        gotMethod = r.Method
        b, _ := io.ReadAll(r.Body)
        gotBody = string(b)
        w.Write([]byte(`{"issues":[],"total":0}`))
    })
    if _, err := c.Search(context.Background(), "project = X", 0, 50, nil, false); err != nil {
        t.Fatalf("Search: %v", err)
    }
    if gotMethod != http.MethodPost { t.Fatalf("method = %q", gotMethod) }
    if !strings.Contains(gotBody, `"jql":"project = X"`) { t.Fatalf("body = %s", gotBody) }
}

func TestDoJSON_RetriesServerErrors(t *testing.T) {
    calls := 0
    c, _ := newTestClient(t, "2", func(w http.ResponseWriter, r *http.Request) {
        calls++
        if calls == 1 {
            w.WriteHeader(http.StatusBadGateway)
            return
        }
        w.Write([]byte(`{"name":"alice"}`))
    })
    m, err := c.Myself(context.Background())
    if err != nil { t.Fatalf("Myself after retry: %v", err) }
    if calls != 2 { t.Fatalf("calls = %d, want 2", calls) }
    if m["name"] != "alice" { t.Fatalf("got %v", m) }
}

func TestDoJSON_ClientErrorIsFinal(t *testing.T) {
    calls := 0
    c, _ := newTestClient(t, "2", func(w http.ResponseWriter, r *http.Request) {
        calls++
        w.WriteHeader(http.StatusBadRequest)
        w.Write([]byte(`{"errorMessages":["bad jql"]}`))
    })
    _, err := c.Search(context.Background(), "][", 0, 50, nil, false)
    if err == nil { t.Fatal("expected error") }
    if calls != 1 { t.Fatalf("400 must not retry, calls = %d", calls) }
    if !strings.Contains(err.Error(), "bad jql") { t.Fatalf("err = %v", err) }
}

func TestWorklogs_PathAndPaging(t *testing.T) {
    var gotPath string
    var gotQuery map[string][]string
    c, _ := newTestClient(t, "2", func(w http.ResponseWriter, r *http.Request) {
        gotPath = r.URL.Path
        gotQuery = r.URL.Query()
        w.Write([]byte(`{"worklogs":[],"total":0}`))
    })
    if _, err := c.Worklogs(context.Background(), "ISS-1", 20, 100); err != nil {
        t.Fatalf("Worklogs: %v", err)
    }
    if gotPath != "/rest/api/2/issue/ISS-1/worklog" { t.Fatalf("path = %q", gotPath) }
    if gotQuery["startAt"][0] != "20" { t.Fatalf("paging = %v", gotQuery) }
}

func TestClient_EmptyInputs(t *testing.T) {
    c, _ := newTestClient(t, "2", func(w http.ResponseWriter, r *http.Request) {
        t.Fatal("no request expected")
    })
    if _, err := c.Search(context.Background(), "", 0, 50, nil, false); err == nil {
        t.Fatal("empty jql must fail")
    }
    if _, err := c.Worklogs(context.Background(), "", 0, 50); err == nil {
        t.Fatal("empty issue key must fail")
    }
}
