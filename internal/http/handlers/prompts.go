package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/promptlib-backend/internal/domain/aggregates"
	"github.com/yungbote/promptlib-backend/internal/http/response"
	promptmod "github.com/yungbote/promptlib-backend/internal/modules/prompts"
	"github.com/yungbote/promptlib-backend/internal/platform/apierr"
	"github.com/yungbote/promptlib-backend/internal/platform/ctxutil"
	"github.com/yungbote/promptlib-backend/internal/platform/logger"
	"github.com/yungbote/promptlib-backend/internal/services"
)

type PromptHandler struct {
	log     *logger.Logger
	prompts services.PromptService
}

func NewPromptHandler(log *logger.Logger, prompts services.PromptService) *PromptHandler {
	return &PromptHandler{log: log.With("handler", "PromptHandler"), prompts: prompts}
}

// POST /api/projects/:project_id/prompts
func (h *PromptHandler) CreatePrompt(c *gin.Context) {
	scope, err := int64Param(c, "project_id")
	if err != nil {
		response.RespondFailure(c, err)
		return
	}
	var in promptmod.PromptInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	detail, err := h.prompts.Create(c.Request.Context(), actorID(c), scope, &in)
	if err != nil {
		h.respondFailure(c, err)
		return
	}
	response.RespondCreated(c, detail)
}

// POST /api/projects/:project_id/prompts/:id/versions
func (h *PromptHandler) CreateVersion(c *gin.Context) {
	scope, err := int64Param(c, "project_id")
	if err != nil {
		response.RespondFailure(c, err)
		return
	}
	promptID, err := int64Param(c, "id")
	if err != nil {
		response.RespondFailure(c, err)
		return
	}
	var in promptmod.VersionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	detail, err := h.prompts.CreateVersion(c.Request.Context(), actorID(c), scope, promptID, &in)
	if err != nil {
		h.respondFailure(c, err)
		return
	}
	response.RespondCreated(c, detail)
}

// GET /api/projects/:project_id/prompts
func (h *PromptHandler) ListPrompts(c *gin.Context) {
	scope, err := int64Param(c, "project_id")
	if err != nil {
		response.RespondFailure(c, err)
		return
	}
	params, err := listParams(c)
	if err != nil {
		response.RespondFailure(c, err)
		return
	}
	page, err := h.prompts.List(c.Request.Context(), scope, params)
	if err != nil {
		h.respondFailure(c, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /api/projects/:project_id/prompts/:id
func (h *PromptHandler) GetPrompt(c *gin.Context) {
	scope, err := int64Param(c, "project_id")
	if err != nil {
		response.RespondFailure(c, err)
		return
	}
	id, err := int64Param(c, "id")
	if err != nil {
		response.RespondFailure(c, err)
		return
	}
	detail, err := h.prompts.Get(c.Request.Context(), scope, id)
	if err != nil {
		h.respondFailure(c, err)
		return
	}
	response.RespondOK(c, detail)
}

// GET /api/projects/:project_id/tags
func (h *PromptHandler) ListTags(c *gin.Context) {
	scope, err := int64Param(c, "project_id")
	if err != nil {
		response.RespondFailure(c, err)
		return
	}
	tags, err := h.prompts.ListTags(c.Request.Context(), scope)
	if err != nil {
		h.respondFailure(c, err)
		return
	}
	response.RespondOK(c, gin.H{"tags": tags})
}

func (h *PromptHandler) respondFailure(c *gin.Context, err error) {
	if response.StatusFor(domainagg.CodeOf(err)) >= http.StatusInternalServerError {
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
	}
	response.RespondFailure(c, err)
}

func actorID(c *gin.Context) int64 {
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		return rd.UserID
	}
	return 0
}

func int64Param(c *gin.Context, name string) (int64, error) {
	raw := strings.TrimSpace(c.Param(name))
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apierr.New(http.StatusBadRequest, "invalid_"+name, fmt.Errorf("%s must be an integer, got %q", name, raw))
	}
	return v, nil
}

// listParams reads limit, offset, sort_by, sort_order and tag_ids. tag_ids may repeat or be
// comma separated.
func listParams(c *gin.Context) (services.ListParams, error) {
	var p services.ListParams
	var err error
	if p.Limit, err = intQuery(c, "limit"); err != nil {
		return p, err
	}
	if p.Offset, err = intQuery(c, "offset"); err != nil {
		return p, err
	}
	p.SortBy = c.Query("sort_by")
	p.SortOrder = c.Query("sort_order")
	for _, raw := range c.QueryArray("tag_ids") {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return p, apierr.New(http.StatusBadRequest, "invalid_tag_ids", fmt.Errorf("tag id %q is not an integer", part))
			}
			p.TagIDs = append(p.TagIDs, id)
		}
	}
	return p, nil
}

func intQuery(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierr.New(http.StatusBadRequest, "invalid_"+name, fmt.Errorf("%s must be an integer, got %q", name, raw))
	}
	return v, nil
}
