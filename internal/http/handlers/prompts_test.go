package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/promptlib-backend/internal/domain"
	domainagg "github.com/yungbote/promptlib-backend/internal/domain/aggregates"
	"github.com/yungbote/promptlib-backend/internal/http/response"
	promptmod "github.com/yungbote/promptlib-backend/internal/modules/prompts"
	"github.com/yungbote/promptlib-backend/internal/platform/ctxutil"
	"github.com/yungbote/promptlib-backend/internal/platform/logger"
	"github.com/yungbote/promptlib-backend/internal/services"
)

type fakePromptService struct {
	err error

	gotActor  int64
	gotScope  int64
	gotID     int64
	gotParams services.ListParams
	gotInput  *promptmod.PromptInput
}

func (f *fakePromptService) Create(_ context.Context, actorID, scope int64, in *promptmod.PromptInput) (*services.PromptDetail, error) {
	f.gotActor, f.gotScope, f.gotInput = actorID, scope, in
	if f.err != nil {
		return nil, f.err
	}
	return &services.PromptDetail{ID: 1, Name: in.Name, OwnerID: scope}, nil
}

func (f *fakePromptService) CreateVersion(_ context.Context, actorID, scope, promptID int64, in *promptmod.VersionInput) (*services.PromptDetail, error) {
	f.gotActor, f.gotScope, f.gotID = actorID, scope, promptID
	if f.err != nil {
		return nil, f.err
	}
	return &services.PromptDetail{ID: promptID, OwnerID: scope, VersionCount: 2}, nil
}

func (f *fakePromptService) List(_ context.Context, scope int64, params services.ListParams) (*services.PromptPage, error) {
	f.gotScope, f.gotParams = scope, params
	if f.err != nil {
		return nil, f.err
	}
	return &services.PromptPage{Rows: []promptmod.PromptSummary{{ID: 9, Name: "p"}}, Total: 1}, nil
}

func (f *fakePromptService) Get(_ context.Context, scope, id int64) (*services.PromptDetail, error) {
	f.gotScope, f.gotID = scope, id
	if f.err != nil {
		return nil, f.err
	}
	return &services.PromptDetail{ID: id, OwnerID: scope}, nil
}

func (f *fakePromptService) ListTags(_ context.Context, scope int64) ([]*types.PromptTag, error) {
	f.gotScope = scope
	if f.err != nil {
		return nil, f.err
	}
	return []*types.PromptTag{{ID: 3, OwnerID: scope, Name: "demo"}}, nil
}

func testRouter(svc services.PromptService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPromptHandler(logger.Nop(), svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: 7})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	g := r.Group("/api/projects/:project_id")
	g.POST("/prompts", h.CreatePrompt)
	g.GET("/prompts", h.ListPrompts)
	g.GET("/prompts/:id", h.GetPrompt)
	g.POST("/prompts/:id/versions", h.CreateVersion)
	g.GET("/tags", h.ListTags)
	return r
}

func do(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreatePromptPassesActorAndScope(t *testing.T) {
	svc := &fakePromptService{}
	rec := do(testRouter(svc), http.MethodPost, "/api/projects/12/prompts", `{"name":"greet","versions":[{"tags":[{"name":"demo"}]}]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got=%d want=%d body=%s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if svc.gotActor != 7 || svc.gotScope != 12 {
		t.Fatalf("actor/scope: got=%d/%d want=7/12", svc.gotActor, svc.gotScope)
	}
	if svc.gotInput == nil || !svc.gotInput.Has("name") || svc.gotInput.Has("description") {
		t.Fatalf("field presence not carried through binding")
	}
}

func TestCreatePromptRejectsMalformedJSON(t *testing.T) {
	rec := do(testRouter(&fakePromptService{}), http.MethodPost, "/api/projects/12/prompts", `{"name":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestErrorsMapToStatusAndEnvelope(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", domainagg.ValidationError("x", domainagg.Violation{Field: "versions[0].variables[0].name", Message: "bad"}), http.StatusBadRequest, "validation"},
		{"scope", domainagg.ScopeResolutionError("x", "no scope"), http.StatusBadRequest, "scope_resolution"},
		{"not found", domainagg.NewError(domainagg.CodeNotFound, "x", "missing", nil), http.StatusNotFound, "not_found"},
		{"conflict", domainagg.NewError(domainagg.CodeConflict, "x", "dup", nil), http.StatusConflict, "conflict"},
		{"internal", errors.New("db exploded"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(testRouter(&fakePromptService{err: tc.err}), http.MethodGet, "/api/projects/1/prompts/5", "")
			if rec.Code != tc.status {
				t.Fatalf("status: got=%d want=%d", rec.Code, tc.status)
			}
			var env response.ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			if env.Error.Code != tc.code {
				t.Fatalf("code: got=%q want=%q", env.Error.Code, tc.code)
			}
			if tc.code == "validation" && env.Error.Details == nil {
				t.Fatalf("validation details missing")
			}
			if tc.code == "internal" && strings.Contains(env.Error.Message, "exploded") {
				t.Fatalf("internal message leaked: %q", env.Error.Message)
			}
		})
	}
}

func TestListPromptsParsesQuery(t *testing.T) {
	svc := &fakePromptService{}
	rec := do(testRouter(svc), http.MethodGet, "/api/projects/3/prompts?limit=5&offset=10&sort_by=name&sort_order=asc&tag_ids=1,2&tag_ids=3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	p := svc.gotParams
	if p.Limit != 5 || p.Offset != 10 || p.SortBy != "name" || p.SortOrder != "asc" {
		t.Fatalf("params: got=%+v", p)
	}
	if len(p.TagIDs) != 3 || p.TagIDs[2] != 3 {
		t.Fatalf("tag ids: got=%v want=[1 2 3]", p.TagIDs)
	}
	if !strings.Contains(rec.Body.String(), `"total":1`) {
		t.Fatalf("body: got=%s", rec.Body.String())
	}
}

func TestBadParamsAreRejected(t *testing.T) {
	r := testRouter(&fakePromptService{})
	for _, target := range []string{
		"/api/projects/abc/prompts",
		"/api/projects/1/prompts?limit=ten",
		"/api/projects/1/prompts?tag_ids=1,x",
		"/api/projects/1/prompts/nope",
	} {
		if rec := do(r, http.MethodGet, target, ""); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: got=%d want=%d", target, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestCreateVersionAndTags(t *testing.T) {
	svc := &fakePromptService{}
	r := testRouter(svc)
	rec := do(r, http.MethodPost, "/api/projects/4/prompts/8/versions", `{"name":"v2"}`)
	if rec.Code != http.StatusCreated || svc.gotID != 8 || svc.gotScope != 4 {
		t.Fatalf("create version: status=%d id=%d scope=%d", rec.Code, svc.gotID, svc.gotScope)
	}
	rec = do(r, http.MethodGet, "/api/projects/4/tags", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"name":"demo"`) {
		t.Fatalf("tags: status=%d body=%s", rec.Code, rec.Body.String())
	}
}
