package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/academic-tracker/internal/config"
	"github.com/stemsi/academic-tracker/internal/handler"
	"github.com/stemsi/academic-tracker/internal/model"
	"github.com/stemsi/academic-tracker/internal/repository"
	"github.com/stemsi/academic-tracker/internal/repository/repositorytest"
	"github.com/stemsi/academic-tracker/internal/response"
	"github.com/stemsi/academic-tracker/internal/service"
	"github.com/stemsi/academic-tracker/internal/validator"
)

func init() {
	validator.Setup()
}

func newTestRouter(t *testing.T, store repository.DocumentStore, origins ...string) *gin.Engine {
	t.Helper()
	log := zerolog.New(io.Discard)
	cfg := &config.Config{ServiceName: "Academic Tracker API", GinMode: gin.TestMode, AllowedOrigins: origins}
	svc := service.NewRecordService(store, log)
	return SetupRouter(&Handlers{
		System: handler.NewSystemHandler(cfg.ServiceName, svc, log),
		Seed:   handler.NewSeedHandler(svc, log),
		Record: handler.NewRecordHandler(svc, log),
	}, cfg, log)
}

func do(r http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLivenessRoutes(t *testing.T) {
	r := newTestRouter(t, repository.UnconfiguredStore{})

	w := do(r, http.MethodGet, "/", "")
	if w.Code != http.StatusOK || w.Body.String() != `{"message":"Academic Tracker API running"}` {
		t.Errorf("GET / = %d %s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodGet, "/test", "")
	if w.Code != http.StatusOK || w.Body.String() != `{"status":"ok"}` {
		t.Errorf("GET /test = %d %s", w.Code, w.Body.String())
	}
}

func TestReadRoutesWithoutStore(t *testing.T) {
	r := newTestRouter(t, repository.UnconfiguredStore{})

	tests := []struct {
		path string
		want string
	}{
		{"/attendance", `[]`},
		{"/marks", `[]`},
		{"/timetable", `{"data":{}}`},
		{"/user", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.path, "")
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			if w.Body.String() != tt.want {
				t.Errorf("body = %s, want %s", w.Body.String(), tt.want)
			}
			if got := w.Header().Get(handler.HeaderStoreStatus); got != "unavailable" {
				t.Errorf("%s = %q", handler.HeaderStoreStatus, got)
			}
			if got := w.Header().Get("Cache-Control"); got != "no-store" {
				t.Errorf("Cache-Control = %q", got)
			}
		})
	}
}

func TestReadyReflectsStore(t *testing.T) {
	w := do(newTestRouter(t, repository.UnconfiguredStore{}), http.MethodGet, "/ready", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("unconfigured /ready = %d", w.Code)
	}
	w = do(newTestRouter(t, repositorytest.NewMemoryStore()), http.MethodGet, "/ready", "")
	if w.Code != http.StatusOK {
		t.Errorf("memory /ready = %d %s", w.Code, w.Body.String())
	}
}

func TestSeedAndFetchAttendance(t *testing.T) {
	store := repositorytest.NewMemoryStore()
	r := newTestRouter(t, store)

	body := `{"items":[
		{"code":"CS101","title":"Data Structures","category":"Theory","faculty":"Dr. A","slot":"A","conducted":40,"absent":2,"percetage":"95.00","margin":8},
		{"code":"CS102","title":"Networks","category":"Theory","faculty":"Dr. B","slot":"B","conducted":30,"absent":9,"percetage":"70.00","margin":-3}
	]}`
	w := do(r, http.MethodPost, "/seed/attendance", body)
	if w.Code != http.StatusOK || w.Body.String() != `{"inserted":2}` {
		t.Fatalf("seed = %d %s", w.Code, w.Body.String())
	}
	if store.Count(model.CollectionAttendance) != 2 {
		t.Fatalf("stored %d", store.Count(model.CollectionAttendance))
	}

	w = do(r, http.MethodGet, "/attendance", "")
	var got []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	for _, rec := range got {
		if _, ok := rec["_id"].(string); !ok {
			t.Errorf("_id = %#v, want text", rec["_id"])
		}
	}
	if got[1]["margin"] != float64(-3) || got[0]["percetage"] != "95.00" {
		t.Errorf("records = %v", got)
	}
	if w.Header().Get(handler.HeaderStoreStatus) != "ok" {
		t.Errorf("%s = %q", handler.HeaderStoreStatus, w.Header().Get(handler.HeaderStoreStatus))
	}
}

func TestSeedMissingFieldWritesNothing(t *testing.T) {
	store := repositorytest.NewMemoryStore()
	r := newTestRouter(t, store)

	body := `{"items":[
		{"code":"CS101","title":"T","category":"C","faculty":"F","slot":"A","conducted":1,"absent":0,"percetage":"100","margin":1},
		{"title":"T","category":"C","faculty":"F","slot":"A","conducted":1,"absent":0,"percetage":"100","margin":1}
	]}`
	w := do(r, http.MethodPost, "/seed/attendance", body)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d %s", w.Code, w.Body.String())
	}

	var env response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Error == nil || env.Error.Code != response.ErrValidation {
		t.Fatalf("error = %+v", env.Error)
	}
	if _, ok := env.Error.Fields["items[1].code"]; !ok {
		t.Errorf("fields = %v", env.Error.Fields)
	}
	if store.Count(model.CollectionAttendance) != 0 {
		t.Errorf("stored %d documents after rejection", store.Count(model.CollectionAttendance))
	}
}

func TestSeedAcceptsEmptyStrings(t *testing.T) {
	store := repositorytest.NewMemoryStore()
	r := newTestRouter(t, store)

	w := do(r, http.MethodPost, "/seed/attendance",
		`{"items":[{"code":"CS101","title":"T","category":"","faculty":"F","slot":"","conducted":0,"absent":0,"percetage":"","margin":0}]}`)
	if w.Code != http.StatusOK || w.Body.String() != `{"inserted":1}` {
		t.Fatalf("attendance = %d %s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodPost, "/seed/marks",
		`{"items":[{"name":"DS","code":"CS101","type":"Theory","marks":[{"name":"CT1","mark":"","total":"25"}],"credit":""}]}`)
	if w.Code != http.StatusOK || w.Body.String() != `{"inserted":1}` {
		t.Fatalf("marks = %d %s", w.Code, w.Body.String())
	}

	var got []map[string]any
	if err := json.Unmarshal(do(r, http.MethodGet, "/attendance", "").Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0]["slot"] != "" || got[0]["category"] != "" {
		t.Errorf("attendance = %v", got)
	}
	if err := json.Unmarshal(do(r, http.MethodGet, "/marks", "").Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("marks = %v", got)
	}
}

func TestSeedTimetableRejectsNullLevels(t *testing.T) {
	store := repositorytest.NewMemoryStore()
	r := newTestRouter(t, store)

	for _, body := range []string{
		`{"item":{"data":{"mon":null}}}`,
		`{"item":{"data":{"mon":{"1":null}}}}`,
	} {
		if w := do(r, http.MethodPost, "/seed/timetable", body); w.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s = %d %s", body, w.Code, w.Body.String())
		}
	}
	if store.Count(model.CollectionTimetable) != 0 {
		t.Errorf("stored %d timetables", store.Count(model.CollectionTimetable))
	}
	if w := do(r, http.MethodGet, "/timetable", ""); w.Body.String() != `{"data":{}}` {
		t.Errorf("timetable = %s", w.Body.String())
	}
}

func TestSeedMalformedBody(t *testing.T) {
	r := newTestRouter(t, repositorytest.NewMemoryStore())
	w := do(r, http.MethodPost, "/seed/user", `{"item": [`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}

func TestSeedWithoutStoreIsServerFault(t *testing.T) {
	r := newTestRouter(t, repository.UnconfiguredStore{})
	body := `{"item":{"roll":"R1","name":"N","program":"P","department":"D","specialisation":"S","semester":"5","batch":"B","section":"A"}}`
	w := do(r, http.MethodPost, "/seed/user", body)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	var env response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Error == nil || env.Error.Code != response.ErrInternal {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestMarksRoundTrip(t *testing.T) {
	r := newTestRouter(t, repositorytest.NewMemoryStore())

	body := `{"items":[{"name":"Data Structures","code":"CS101","type":"internal","marks":[{"name":"CAT1","mark":"45","total":"50"}],"credit":"4"}]}`
	w := do(r, http.MethodPost, "/seed/marks", body)
	if w.Code != http.StatusOK || w.Body.String() != `{"inserted":1}` {
		t.Fatalf("seed = %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/marks", "")
	var got []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d", len(got))
	}
	rec := got[0]
	id, ok := rec["_id"].(string)
	if !ok || id == "" {
		t.Errorf("_id = %#v", rec["_id"])
	}
	delete(rec, "_id")

	want := map[string]any{
		"name":   "Data Structures",
		"code":   "CS101",
		"type":   "internal",
		"marks":  []any{map[string]any{"name": "CAT1", "mark": "45", "total": "50"}},
		"credit": "4",
		"total":  nil,
	}
	gotJSON, _ := json.Marshal(rec)
	wantJSON, _ := json.Marshal(want)
	if !bytes.Equal(gotJSON, wantJSON) {
		t.Errorf("record = %s, want %s", gotJSON, wantJSON)
	}
}

func TestTimetableAndUserFirstMatch(t *testing.T) {
	r := newTestRouter(t, repositorytest.NewMemoryStore())

	for _, day := range []string{"monday", "tuesday"} {
		body := `{"item":{"data":{"` + day + `":{"1":{"code":"CS101","room":"204"}}}}}`
		if w := do(r, http.MethodPost, "/seed/timetable", body); w.Body.String() != `{"inserted":1}` {
			t.Fatalf("seed timetable = %d %s", w.Code, w.Body.String())
		}
	}
	for _, roll := range []string{"R1", "R2", "R3"} {
		body := `{"item":{"roll":"` + roll + `","name":"N","program":"P","department":"D","specialisation":"S","semester":"5","batch":"B","section":"A"}}`
		if w := do(r, http.MethodPost, "/seed/user", body); w.Body.String() != `{"inserted":1}` {
			t.Fatalf("seed user = %d %s", w.Code, w.Body.String())
		}
	}

	var tt map[string]any
	_ = json.Unmarshal(do(r, http.MethodGet, "/timetable", "").Body.Bytes(), &tt)
	data, _ := tt["data"].(map[string]any)
	if _, ok := data["monday"]; !ok || len(data) != 1 {
		t.Errorf("timetable = %v", tt)
	}

	first := do(r, http.MethodGet, "/user", "").Body.String()
	for i := 0; i < 3; i++ {
		if again := do(r, http.MethodGet, "/user", "").Body.String(); again != first {
			t.Fatalf("user changed between calls: %s vs %s", first, again)
		}
	}
	var user map[string]any
	_ = json.Unmarshal([]byte(first), &user)
	if user["roll"] != "R1" {
		t.Errorf("user = %v", user)
	}
	if _, ok := user["_id"].(string); !ok {
		t.Errorf("_id = %#v", user["_id"])
	}
}

func TestCORSEchoesOriginWithCredentials(t *testing.T) {
	r := newTestRouter(t, repositorytest.NewMemoryStore())

	w := do(r, http.MethodOptions, "/seed/attendance", "",
		"Origin", "http://frontend.test",
		"Access-Control-Request-Method", "POST",
		"Access-Control-Request-Headers", "content-type,x-client-version")
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); got != "content-type,x-client-version" {
		t.Errorf("Allow-Headers = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "POST" {
		t.Errorf("Allow-Methods = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://frontend.test" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Allow-Credentials = %q", got)
	}

	w = do(r, http.MethodGet, "/test", "", "Origin", "http://other.test")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://other.test" {
		t.Errorf("Allow-Origin on simple request = %q", got)
	}
}

func TestCORSAllowsAnyMethod(t *testing.T) {
	r := newTestRouter(t, repositorytest.NewMemoryStore())

	w := do(r, http.MethodOptions, "/user", "",
		"Origin", "http://frontend.test",
		"Access-Control-Request-Method", "PURGE")
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "PURGE" {
		t.Errorf("Allow-Methods = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); got != "" {
		t.Errorf("Allow-Headers = %q, want none requested", got)
	}
}

func TestCORSAllowList(t *testing.T) {
	r := newTestRouter(t, repositorytest.NewMemoryStore(), "http://allowed.test")

	w := do(r, http.MethodGet, "/test", "", "Origin", "http://blocked.test")
	if w.Code != http.StatusForbidden {
		t.Errorf("blocked origin status = %d", w.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	w := do(newTestRouter(t, repositorytest.NewMemoryStore()), http.MethodGet, "/nope", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d", w.Code)
	}
}
