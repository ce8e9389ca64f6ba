package sanitize

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripOperatorsDropsOperatorKeys(t *testing.T) {
	in := map[string]any{
		"username": "alice",
		"$gt":      "",
		"nested": map[string]any{
			"$where": "sleep(1000)",
			"ok":     "value",
		},
		"list": []any{
			map[string]any{"$ne": nil, "keep": "me"},
		},
	}

	out := StripOperators(in).(map[string]any)

	assert.NotContains(t, out, "$gt")
	assert.Equal(t, "alice", out["username"])

	nested := out["nested"].(map[string]any)
	assert.NotContains(t, nested, "$where")
	assert.Equal(t, "value", nested["ok"])

	item := out["list"].([]any)[0].(map[string]any)
	assert.NotContains(t, item, "$ne")
	assert.Equal(t, "me", item["keep"])
}

func TestStringStripsMarkup(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "John O'Connor-Smith", "John O'Connor-Smith"},
		{"script dropped with content", `before<script>alert("x")</script>after`, "beforeafter"},
		{"style dropped with content", "a<style>body{}</style>b", "ab"},
		{"iframe dropped with content", `<iframe src="evil"></iframe>text`, "text"},
		{"unclosed script drops remainder", `name<script>alert(1)`, "name"},
		{"ordinary tags stripped keeping text", "<b>bold</b> and <i>italic</i>", "bold and italic"},
		{"nested tag reassembly defeated", "<scr<b>ipt>alert(1)</scr</b>ipt>", "ipt>alert(1)ipt>"},
		{"attributes stripped with tag", `<img src=x onerror=alert(1)>pic`, "pic"},
		{"lone angle bracket kept", "1 < 2", "1 < 2"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, String(tc.in))
		})
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	in := map[string]any{
		"$op":   "x",
		"name":  `Alice<script>alert("x")</script>`,
		"memo":  "<scr<b>ipt>ipt>",
		"items": []any{"<i>a</i>", map[string]any{"$gt": 1.0, "v": "<b>b</b>"}},
		"count": 3.0,
	}

	once := Clean(in)
	twice := Clean(once)

	assert.Equal(t, once, twice)
}

func TestStringIsIdempotent(t *testing.T) {
	for _, in := range []string{
		`<script>alert(1)</script>`,
		"<scr<b>ipt>alert(1)</scr</b>ipt>",
		"plain",
		"a < b > c",
	} {
		once := String(in)
		assert.Equal(t, once, String(once), "input %q", in)
	}
}

func TestMiddlewareSanitizesBodyAndQuery(t *testing.T) {
	var gotBody []byte
	var gotQuery string

	handler := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotQuery = r.URL.Query().Get("q")
		w.WriteHeader(http.StatusOK)
	}))

	body := `{"name":"<script>alert(1)</script>Alice","$where":"x"}`
	r := httptest.NewRequest(http.MethodPost, "/api/auth/register?q=<b>hi</b>", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"Alice"}`, string(gotBody))
	assert.Equal(t, "hi", gotQuery)
}

func TestMiddlewareRejectsOversizedBody(t *testing.T) {
	handler := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for an oversized body")
	}))

	big := `{"pad":"` + strings.Repeat("a", 101<<10) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/api/payments/transfer", strings.NewReader(big))
	r.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestMiddlewarePassesThroughInvalidJSON(t *testing.T) {
	var gotBody []byte
	handler := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{not json"))
	r.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, "{not json", string(gotBody))
}
