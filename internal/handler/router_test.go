package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/anecdotheque/internal/anecdote"
	"github.com/hitoshi/anecdotheque/internal/middleware"
	"github.com/hitoshi/anecdotheque/internal/model"
)

// routerSessionStore はルーターテスト用のセッション・ユーザー解決モック。
// セッションID "member-session" / "admin-session" を固定で解決する。
type routerSessionStore struct{}

func (s *routerSessionStore) FindByID(ctx context.Context, id string) (*model.Session, error) {
	switch id {
	case "member-session":
		return &model.Session{ID: id, UserID: "member-1"}, nil
	case "admin-session":
		return &model.Session{ID: id, UserID: "admin-1"}, nil
	default:
		return nil, nil
	}
}

// routerUserStore はユーザー解決モック。
type routerUserStore struct{}

func (s *routerUserStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	switch id {
	case "member-1":
		return &model.User{ID: id, Name: "テスト太郎", Role: model.RoleMember}, nil
	case "admin-1":
		return &model.User{ID: id, Name: "管理者", Role: model.RoleAdmin}, nil
	default:
		return nil, nil
	}
}

func newTestRouter(t *testing.T, anecdotes AnecdoteServiceInterface, votes VoteServiceInterface) http.Handler {
	t.Helper()

	rl := middleware.NewRateLimiter(middleware.NewRateLimiterConfig(120, 30))
	t.Cleanup(rl.Stop)

	if anecdotes == nil {
		anecdotes = &mockAnecdoteService{
			listFunc: func(ctx context.Context) ([]model.AnecdoteWithAuthor, error) {
				return nil, nil
			},
		}
	}
	if votes == nil {
		votes = &mockVoteService{}
	}

	return NewRouter(&RouterDeps{
		SessionFinder:     &routerSessionStore{},
		UserFinder:        &routerUserStore{},
		CORSAllowedOrigin: "https://anecdotheque.example.com",
		RateLimiter:       rl,
		AuthService:       &mockAuthService{},
		AuthConfig:        AuthHandlerConfig{SessionMaxAge: 3600},
		AnecdoteService:   anecdotes,
		TallyProvider: &mockTallyProvider{
			tallyAllFunc: func(ctx context.Context) (map[string]model.Tally, error) {
				return map[string]model.Tally{}, nil
			},
		},
		VoteService: votes,
		UserService: &mockUserService{},
	})
}

// withCSRF は状態変更リクエストにCSRFトークンのCookieとヘッダーを付与する。
func withCSRF(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: "test-csrf-token"})
	req.Header.Set("X-CSRF-Token", "test-csrf-token")
	return req
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %s, want ok", body["status"])
	}
}

func TestRouter_ListAnecdotes_Anonymous(t *testing.T) {
	anecdotes := &mockAnecdoteService{
		listFunc: func(ctx context.Context) ([]model.AnecdoteWithAuthor, error) {
			return []model.AnecdoteWithAuthor{
				{
					Anecdote: model.Anecdote{
						ID: "anec-1", Title: "話", Category: model.CategoryHumor,
						Content: "本文", CreatedAt: time.Now().UTC(),
					},
					AuthorName: "テスト太郎",
				},
			}, nil
		},
	}

	router := newTestRouter(t, anecdotes, nil)

	// セッションCookieなしの閲覧は許可される
	req := httptest.NewRequest(http.MethodGet, "/api/anecdotes", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("匿名の一覧閲覧: status = %d, want 200", w.Code)
	}

	var body []anecdoteResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body) != 1 {
		t.Errorf("件数 = %d, want 1", len(body))
	}
}

func TestRouter_CreateAnecdote_NoSession(t *testing.T) {
	router := newTestRouter(t, &mockAnecdoteService{
		createFunc: func(ctx context.Context, authorID string, input anecdote.CreateInput) (*model.Anecdote, error) {
			t.Error("未認証の投稿がサービスに到達した")
			return nil, nil
		},
	}, nil)

	payload := `{"title":"t","category":"humor","content":"c"}`
	req := withCSRF(httptest.NewRequest(http.MethodPost, "/api/anecdotes", strings.NewReader(payload)))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRouter_CreateAnecdote_MemberSession(t *testing.T) {
	anecdotes := &mockAnecdoteService{
		createFunc: func(ctx context.Context, authorID string, input anecdote.CreateInput) (*model.Anecdote, error) {
			return &model.Anecdote{
				ID: "anec-1", AuthorID: authorID, Title: input.Title,
				Category: model.Category(input.Category), Content: input.Content,
				CreatedAt: time.Now().UTC(),
			}, nil
		},
	}

	router := newTestRouter(t, anecdotes, nil)

	payload := `{"title":"電車での出来事","category":"daily-life","content":"本文"}`
	req := withCSRF(httptest.NewRequest(http.MethodPost, "/api/anecdotes", strings.NewReader(payload)))
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "member-session"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
}

func TestRouter_DeleteAnecdote_RoleSplit(t *testing.T) {
	deleted := false
	anecdotes := &mockAnecdoteService{
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}

	router := newTestRouter(t, anecdotes, nil)

	// memberは403
	req := withCSRF(httptest.NewRequest(http.MethodDelete, "/api/anecdotes/anec-1", nil))
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "member-session"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("member削除: status = %d, want 403", w.Code)
	}
	if deleted {
		t.Error("memberの削除がサービスに到達した")
	}

	// adminは204
	req = withCSRF(httptest.NewRequest(http.MethodDelete, "/api/anecdotes/anec-1", nil))
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "admin-session"})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("admin削除: status = %d, want 204", w.Code)
	}
	if !deleted {
		t.Error("adminの削除がサービスに到達していない")
	}
}

func TestRouter_CastVote_DuplicateConflict(t *testing.T) {
	votes := &mockVoteService{
		castVoteFunc: func(ctx context.Context, userID, anecdoteID string, voteType model.VoteType) (*model.Vote, error) {
			return nil, model.NewDuplicateVoteError(voteType)
		},
	}

	router := newTestRouter(t, nil, votes)

	req := withCSRF(httptest.NewRequest(http.MethodPost, "/api/anecdotes/anec-1/votes", strings.NewReader(`{"type":"Wow"}`)))
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "member-session"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestRouter_MutationWithoutCSRFRejected(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/anecdotes", strings.NewReader(`{}`))
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "member-session"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestRouter_SecurityHeadersApplied(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://anecdotheque.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
