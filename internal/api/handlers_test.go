package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/halofit/halo-be/internal/chat"
	"github.com/halofit/halo-be/internal/classifier"
	"github.com/halofit/halo-be/internal/prompt"
	"github.com/halofit/halo-be/internal/schedule"
	"github.com/halofit/halo-be/internal/store"
	"github.com/halofit/halo-be/internal/suggest"
	"github.com/halofit/halo-be/pkg/gemini"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() (*gin.Engine, store.Store) {
	catalog := schedule.NewCatalog("")
	generator := suggest.NewGenerator(catalog, nil)
	engine := chat.NewEngine(classifier.NewClassifier(), generator, prompt.NewBuilder(), nil, catalog)
	memStore := store.NewMemory()

	r := gin.New()
	chatHandler := NewChatHandler(engine)
	classesHandler := NewClassesHandler(generator)
	plannerHandler := NewPlannerHandler(memStore)
	workoutsHandler := NewWorkoutsHandler(memStore)
	calorieHandler := NewCalorieHandler(gemini.NewStubClient())

	r.POST("/api/chat", chatHandler.Chat)
	r.GET("/api/classes", classesHandler.List)
	r.POST("/api/planner/save", plannerHandler.Save)
	r.GET("/api/planner/:date", plannerHandler.Get)
	r.POST("/api/planner/email", plannerHandler.Email)
	r.POST("/api/workouts/log", workoutsHandler.Log)
	r.GET("/api/workouts/summary", workoutsHandler.Summary)
	r.POST("/api/calorie/estimate", calorieHandler.Estimate)
	return r, memStore
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChatEndpoint(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(t, r, "POST", "/api/chat", `{"message":"suggest a workout","user_profile":{"timePrefs":["morning"]}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp suggest.ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Type != suggest.TypeSuggestions || len(resp.Suggestions) == 0 {
		t.Errorf("response = %+v", resp)
	}
}

func TestChatEndpoint_MissingMessage(t *testing.T) {
	r, _ := newTestRouter()
	w := doJSON(t, r, "POST", "/api/chat", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}

func TestClassesEndpoint(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(t, r, "GET", "/api/classes?type=yoga", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Classes []suggest.Suggestion `json:"classes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Classes) == 0 {
		t.Fatal("expected yoga classes from the sample schedule")
	}
	for _, s := range resp.Classes {
		if s.Kind != suggest.KindClass {
			t.Errorf("kind = %q", s.Kind)
		}
		if !strings.Contains(strings.ToLower(s.Title), "yoga") {
			t.Errorf("title = %q, want yoga match", s.Title)
		}
	}
}

func TestPlannerRoundTrip(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(t, r, "POST", "/api/planner/save", `{"date":"2026-03-05","planJson":{"workouts":[{"id":"w1"}],"meals":[],"classes":[]}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("save status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, "GET", "/api/planner/2026-03-05", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var got struct {
		Date     string          `json:"date"`
		PlanJSON json.RawMessage `json:"planJson"`
		IsSaved  bool            `json:"isSaved"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !got.IsSaved || !strings.Contains(string(got.PlanJSON), `"w1"`) {
		t.Errorf("plan = %+v", got)
	}

	// Unknown date renders an empty, unsaved plan.
	w = doJSON(t, r, "GET", "/api/planner/2026-03-09", "")
	if w.Code != http.StatusOK {
		t.Fatalf("empty get status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"isSaved":false`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestWorkoutsLogAndSummary(t *testing.T) {
	r, _ := newTestRouter()

	for _, body := range []string{
		`{"title":"Morning Run","duration":30,"caloriesBurned":250}`,
		`{"title":"Strength Training","duration":45,"caloriesBurned":300}`,
	} {
		w := doJSON(t, r, "POST", "/api/workouts/log", body)
		if w.Code != http.StatusOK {
			t.Fatalf("log status = %d, body = %s", w.Code, w.Body.String())
		}
	}

	w := doJSON(t, r, "GET", "/api/workouts/summary", "")
	if w.Code != http.StatusOK {
		t.Fatalf("summary status = %d", w.Code)
	}
	var summary struct {
		TotalWorkouts       int `json:"totalWorkouts"`
		TotalDuration       int `json:"totalDuration"`
		TotalCaloriesBurned int `json:"totalCaloriesBurned"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if summary.TotalWorkouts != 2 || summary.TotalDuration != 75 || summary.TotalCaloriesBurned != 550 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestCalorieEstimateEndpoint(t *testing.T) {
	r, _ := newTestRouter()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "meal.jpg")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("fake-jpeg-bytes"))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/calorie/estimate", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var estimate gemini.Estimate
	if err := json.Unmarshal(w.Body.Bytes(), &estimate); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if estimate.DishName == "" || estimate.Calories <= 0 {
		t.Errorf("estimate = %+v", estimate)
	}
}

func TestCalorieEstimate_MissingFile(t *testing.T) {
	r, _ := newTestRouter()
	w := doJSON(t, r, "POST", "/api/calorie/estimate", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}

func TestCalendarAdd_MissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewCalendarHandler(nil)
	r.POST("/api/calendar/add", handler.AddEvent)

	w := doJSON(t, r, "POST", "/api/calendar/add", `{"title":"Yoga","startISO":"2026-03-05T09:00:00Z","endISO":"2026-03-05T10:00:00Z"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", w.Code)
	}
}
