package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"legal_eval_backend/internal/config"
	"legal_eval_backend/internal/util"
	"legal_eval_backend/pkg/database"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type stubSessions struct {
	mu   sync.Mutex
	byID map[string]uint
}

func (s *stubSessions) Create(ctx context.Context, userID uint, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.byID[id] = userID
	return id, nil
}

func (s *stubSessions) Get(ctx context.Context, sessionID string) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byID[sessionID]
	if !ok {
		return 0, util.ErrSessionNotFound
	}
	return id, nil
}

func (s *stubSessions) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, sessionID)
	return nil
}

type testServer struct {
	router    *gin.Engine
	exportDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.AutoMigrate(database.Models...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.Session.CookieName = "session_id"
	cfg.Session.TTL = time.Hour
	cfg.Storage.Type = util.StorageLocal
	cfg.Storage.LocalPath = t.TempDir()
	cfg.CORS.AllowedOrigins = []string{"http://localhost:5173"}

	return &testServer{
		router:    NewRouter(t.Context(), cfg, db, &stubSessions{byID: map[string]uint{}}),
		exportDir: cfg.Storage.LocalPath,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, want, rec.Body.String())
	}
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session_id" {
			if !c.HttpOnly {
				t.Fatalf("session cookie must be HttpOnly")
			}
			return c
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

type idResponse struct {
	UserID       uint `json:"user_id"`
	QuestionID   uint `json:"question_id"`
	GenerationID uint `json:"generation_id"`
	ModelID      uint `json:"model_id"`
	WriteinID    uint `json:"writein_id"`
}

// setup 注册并登录一个用户，创建带三个回答的问题并分配给该用户
func setup(t *testing.T, s *testServer) (cookie *http.Cookie, userID, questionID uint, gens []uint) {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/register", gin.H{"username": "alice", "password": "correct horse"}, nil)
	expectStatus(t, rec, http.StatusCreated)
	var user idResponse
	decode(t, rec, &user)

	rec = s.do(t, http.MethodPost, "/api/login", gin.H{"username": "alice", "password": "correct horse"}, nil)
	expectStatus(t, rec, http.StatusOK)
	cookie = sessionCookie(t, rec)

	rec = s.do(t, http.MethodPost, "/api/questions", gin.H{"question_text": "Can a landlord keep the deposit?"}, nil)
	expectStatus(t, rec, http.StatusCreated)
	var q idResponse
	decode(t, rec, &q)

	for _, name := range []string{"model-a", "model-b", "model-c"} {
		rec = s.do(t, http.MethodPost, "/api/generations", gin.H{
			"question_id":     q.QuestionID,
			"generation_text": "answer from " + name,
			"model_name":      name,
		}, nil)
		expectStatus(t, rec, http.StatusCreated)
		var g idResponse
		decode(t, rec, &g)
		gens = append(gens, g.GenerationID)
	}

	rec = s.do(t, http.MethodPost, "/api/user-questions", gin.H{"user_id": user.UserID, "question_ids": []uint{q.QuestionID}}, nil)
	expectStatus(t, rec, http.StatusCreated)

	return cookie, user.UserID, q.QuestionID, gens
}

func TestAuthEndpoints(t *testing.T) {
	s := newTestServer(t)

	expectStatus(t, s.do(t, http.MethodPost, "/api/register", gin.H{"username": "bob", "password": "short"}, nil), http.StatusBadRequest)
	expectStatus(t, s.do(t, http.MethodPost, "/api/register", gin.H{"username": "bob"}, nil), http.StatusBadRequest)
	expectStatus(t, s.do(t, http.MethodPost, "/api/register", gin.H{"username": "bob", "password": "long enough"}, nil), http.StatusCreated)
	expectStatus(t, s.do(t, http.MethodPost, "/api/register", gin.H{"username": "bob", "password": "long enough"}, nil), http.StatusConflict)

	rec := s.do(t, http.MethodPost, "/api/login", gin.H{"username": "bob", "password": "wrong password"}, nil)
	expectStatus(t, rec, http.StatusUnauthorized)
	var errBody util.ErrorResponse
	decode(t, rec, &errBody)
	if errBody.Message == "" {
		t.Fatalf("error responses must carry a message")
	}

	expectStatus(t, s.do(t, http.MethodGet, "/api/session", nil, nil), http.StatusUnauthorized)

	rec = s.do(t, http.MethodPost, "/api/login", gin.H{"username": "bob", "password": "long enough"}, nil)
	expectStatus(t, rec, http.StatusOK)
	cookie := sessionCookie(t, rec)

	rec = s.do(t, http.MethodGet, "/api/session", nil, cookie)
	expectStatus(t, rec, http.StatusOK)
	var me struct {
		Username string `json:"username"`
	}
	decode(t, rec, &me)
	if me.Username != "bob" {
		t.Fatalf("unexpected session user: %q", me.Username)
	}

	expectStatus(t, s.do(t, http.MethodPost, "/api/logout", nil, cookie), http.StatusOK)
	expectStatus(t, s.do(t, http.MethodGet, "/api/session", nil, cookie), http.StatusUnauthorized)
}

func TestEvaluationFlow(t *testing.T) {
	s := newTestServer(t)
	cookie, userID, qid, g := setup(t, s)

	rec := s.do(t, http.MethodGet, fmt.Sprintf("/api/pairs?question_id=%d", qid), nil, nil)
	expectStatus(t, rec, http.StatusOK)
	var pairs struct {
		Pairs []struct {
			Gen1ID    uint   `json:"gen_1_id"`
			Gen2ID    uint   `json:"gen_2_id"`
			Gen1Model string `json:"gen_1_model"`
		} `json:"pairs"`
	}
	decode(t, rec, &pairs)
	if len(pairs.Pairs) != 3 || pairs.Pairs[0].Gen1Model != "model-a" {
		t.Fatalf("unexpected pairs: %+v", pairs)
	}

	// 非法 selection 返回 400 且不写入
	rec = s.do(t, http.MethodPost, "/api/rate", gin.H{
		"question_id": qid, "gen_1_id": g[0], "gen_2_id": g[1], "selection": "maybe", "time_spent": 3,
	}, cookie)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/ratings?question_id=%d", qid), nil, cookie)
	expectStatus(t, rec, http.StatusOK)
	var ratings struct {
		Ratings []struct {
			Gen1ID        uint   `json:"gen_1_id"`
			UserSelection string `json:"user_selection"`
		} `json:"ratings"`
	}
	decode(t, rec, &ratings)
	if len(ratings.Ratings) != 0 {
		t.Fatalf("invalid rating must not be stored: %+v", ratings)
	}

	for _, p := range [][2]uint{{g[0], g[1]}, {g[0], g[2]}, {g[1], g[2]}} {
		rec = s.do(t, http.MethodPost, "/api/rate", gin.H{
			"question_id": qid, "gen_1_id": p[0], "gen_2_id": p[1], "selection": "both_unusable", "time_spent": 9.5,
		}, cookie)
		expectStatus(t, rec, http.StatusOK)
	}

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/questions/is-answered?question_id=%d&user_id=%d", qid, userID), nil, nil)
	expectStatus(t, rec, http.StatusOK)
	var completion struct {
		IsAnswered      bool `json:"is_answered"`
		WriteinEligible bool `json:"writein_eligible"`
		RatedPairs      int  `json:"rated_pairs"`
		TotalPairs      int  `json:"total_pairs"`
	}
	decode(t, rec, &completion)
	if completion.IsAnswered || !completion.WriteinEligible || completion.RatedPairs != 3 || completion.TotalPairs != 3 {
		t.Fatalf("unexpected completion: %+v", completion)
	}

	// generations 缺失时拒绝
	rec = s.do(t, http.MethodPost, "/api/writeins", gin.H{"question_id": qid, "writein_text": "Mine."}, cookie)
	expectStatus(t, rec, http.StatusBadRequest)
	rec = s.do(t, http.MethodPost, "/api/writeins", `{"question_id": 1, "writein_text": "Mine.", "generations": null}`, cookie)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.do(t, http.MethodPost, "/api/writeins", gin.H{
		"question_id":  qid,
		"writein_text": "The deposit must be returned within 30 days.",
		"generations":  []gin.H{{"generation_id": g[1], "used": true}},
		"time_spent":   40,
	}, cookie)
	expectStatus(t, rec, http.StatusCreated)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/has-writein?question_id=%d", qid), nil, cookie)
	expectStatus(t, rec, http.StatusOK)
	var has struct {
		HasWritein      bool `json:"has_writein"`
		WriteinEligible bool `json:"writein_eligible"`
	}
	decode(t, rec, &has)
	if !has.HasWritein || !has.WriteinEligible {
		t.Fatalf("unexpected has-writein: %+v", has)
	}

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/writeins/latest?question_id=%d", qid), nil, cookie)
	expectStatus(t, rec, http.StatusOK)
	var latest struct {
		WriteinText       string `json:"writein_text"`
		TimeSpent         int    `json:"time_spent"`
		UsedGenerationIDs []uint `json:"used_generation_ids"`
	}
	decode(t, rec, &latest)
	if latest.TimeSpent != 40 || len(latest.UsedGenerationIDs) != 1 || latest.UsedGenerationIDs[0] != g[1] {
		t.Fatalf("unexpected latest write-in: %+v", latest)
	}

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/questions/is-answered?question_id=%d", qid), nil, cookie)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &completion)
	if !completion.IsAnswered {
		t.Fatalf("question should be answered after the write-in: %+v", completion)
	}
}

func TestGenerationAccess(t *testing.T) {
	s := newTestServer(t)
	_, _, qid, _ := setup(t, s)

	// 导入脚本不带用户
	rec := s.do(t, http.MethodGet, fmt.Sprintf("/api/generations?question_id=%d", qid), nil, nil)
	expectStatus(t, rec, http.StatusOK)
	var body struct {
		Generations []struct {
			ModelName string `json:"model_name"`
		} `json:"generations"`
	}
	decode(t, rec, &body)
	if len(body.Generations) != 3 || body.Generations[2].ModelName != "model-c" {
		t.Fatalf("unexpected generations: %+v", body)
	}

	rec = s.do(t, http.MethodPost, "/api/register", gin.H{"username": "carol", "password": "long enough"}, nil)
	expectStatus(t, rec, http.StatusCreated)
	var carol idResponse
	decode(t, rec, &carol)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/generations?question_id=%d&user_id=%d", qid, carol.UserID), nil, nil)
	expectStatus(t, rec, http.StatusForbidden)

	expectStatus(t, s.do(t, http.MethodGet, "/api/generations?question_id=abc", nil, nil), http.StatusBadRequest)
	expectStatus(t, s.do(t, http.MethodGet, "/api/question?question_id=9999", nil, nil), http.StatusNotFound)
	expectStatus(t, s.do(t, http.MethodPost, "/api/generations", gin.H{
		"question_id": 9999, "generation_text": "x", "model_name": "model-a",
	}, nil), http.StatusNotFound)
}

func TestQuestionListEndpoint(t *testing.T) {
	s := newTestServer(t)
	_, userID, qid, _ := setup(t, s)

	for _, text := range []string{"Patent scope", "Trademark renewal"} {
		expectStatus(t, s.do(t, http.MethodPost, "/api/questions", gin.H{"question_text": text}, nil), http.StatusCreated)
	}
	expectStatus(t, s.do(t, http.MethodPost, "/api/questions", gin.H{"question_text": "  "}, nil), http.StatusBadRequest)

	rec := s.do(t, http.MethodGet, "/api/questions?page=1&limit=2", nil, nil)
	expectStatus(t, rec, http.StatusOK)
	var page struct {
		Questions   []idResponse `json:"questions"`
		Total       int          `json:"total"`
		TotalPages  int          `json:"totalPages"`
		CurrentPage int          `json:"currentPage"`
	}
	decode(t, rec, &page)
	if page.Total != 3 || page.TotalPages != 2 || page.CurrentPage != 1 || len(page.Questions) != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/questions?user_id=%d", userID), nil, nil)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &page)
	if page.Total != 1 || page.Questions[0].QuestionID != qid {
		t.Fatalf("unexpected assigned page: %+v", page)
	}

	rec = s.do(t, http.MethodGet, "/api/questions?search=PATENT", nil, nil)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &page)
	if page.Total != 1 {
		t.Fatalf("unexpected search total: %d", page.Total)
	}
}

func TestAssignmentEndpoints(t *testing.T) {
	s := newTestServer(t)
	cookie, userID, qid, _ := setup(t, s)

	rec := s.do(t, http.MethodGet, "/api/user-questions", nil, cookie)
	expectStatus(t, rec, http.StatusOK)
	var list struct {
		UserID      uint   `json:"user_id"`
		QuestionIDs []uint `json:"question_ids"`
	}
	decode(t, rec, &list)
	if list.UserID != userID || len(list.QuestionIDs) != 1 || list.QuestionIDs[0] != qid {
		t.Fatalf("unexpected assignments: %+v", list)
	}

	expectStatus(t, s.do(t, http.MethodGet, "/api/user-questions", nil, nil), http.StatusUnauthorized)
	expectStatus(t, s.do(t, http.MethodPost, "/api/user-questions", gin.H{"user_id": userID, "question_ids": []uint{9999}}, nil), http.StatusNotFound)

	rec = s.do(t, http.MethodDelete, "/api/user-questions", gin.H{"question_ids": []uint{qid}}, cookie)
	expectStatus(t, rec, http.StatusOK)

	rec = s.do(t, http.MethodPost, "/api/rate", gin.H{
		"question_id": qid, "gen_1_id": 1, "gen_2_id": 2, "selection": "gen_1_usable", "time_spent": 3,
	}, cookie)
	expectStatus(t, rec, http.StatusForbidden)
}

func TestExportEndpoint(t *testing.T) {
	s := newTestServer(t)
	cookie, _, qid, g := setup(t, s)

	rec := s.do(t, http.MethodPost, "/api/rate", gin.H{
		"question_id": qid, "gen_1_id": g[2], "gen_2_id": g[0], "selection": "gen_1_usable", "time_spent": 1,
	}, cookie)
	expectStatus(t, rec, http.StatusOK)

	expectStatus(t, s.do(t, http.MethodPost, "/api/exports", nil, nil), http.StatusUnauthorized)

	rec = s.do(t, http.MethodPost, "/api/exports", nil, cookie)
	expectStatus(t, rec, http.StatusCreated)
	var result struct {
		Object  string `json:"object"`
		URL     string `json:"url"`
		Ratings int    `json:"ratings"`
	}
	decode(t, rec, &result)
	if result.Ratings != 1 || !strings.HasPrefix(result.URL, "/exports/") {
		t.Fatalf("unexpected export result: %+v", result)
	}

	data, err := os.ReadFile(filepath.Join(s.exportDir, result.Object))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var snap struct {
		Ratings []struct {
			Gen1ID        uint   `json:"gen_1_id"`
			UserSelection string `json:"user_selection"`
		} `json:"ratings"`
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	// 提交时 gen_1_id > gen_2_id，存储时已交换并镜像
	if len(snap.Ratings) != 1 || snap.Ratings[0].Gen1ID != g[0] || snap.Ratings[0].UserSelection != "gen_2_usable" {
		t.Fatalf("unexpected exported ratings: %+v", snap.Ratings)
	}

	target := "/api/exports?object=" + result.Object
	expectStatus(t, s.do(t, http.MethodDelete, target, nil, nil), http.StatusUnauthorized)
	expectStatus(t, s.do(t, http.MethodDelete, "/api/exports?object=../config.yaml", nil, cookie), http.StatusBadRequest)
	expectStatus(t, s.do(t, http.MethodDelete, target, nil, cookie), http.StatusOK)
	if _, err := os.Stat(filepath.Join(s.exportDir, result.Object)); !os.IsNotExist(err) {
		t.Fatalf("export file should be removed, stat err=%v", err)
	}
	expectStatus(t, s.do(t, http.MethodDelete, target, nil, cookie), http.StatusNotFound)
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected allow-origin header: got=%q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("credentials must be allowed, got=%q", got)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	expectStatus(t, s.do(t, http.MethodGet, "/api/health", nil, nil), http.StatusOK)

	rec := s.do(t, http.MethodGet, "/metrics", nil, nil)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Fatalf("metrics output missing request counter")
	}
}
