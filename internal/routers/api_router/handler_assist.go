package api_router

import (
	"github.com/haierkeys/clipbook-service/internal/app"
	"github.com/haierkeys/clipbook-service/internal/domain"
	"github.com/haierkeys/clipbook-service/internal/dto"
	pkgapp "github.com/haierkeys/clipbook-service/pkg/app"
	"github.com/haierkeys/clipbook-service/pkg/code"
	apperrors "github.com/haierkeys/clipbook-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// AssistHandler AI 助手 API 路由处理器
type AssistHandler struct {
	*Handler
}

// NewAssistHandler 创建 AssistHandler 实例
func NewAssistHandler(a *app.App) *AssistHandler {
	return &AssistHandler{Handler: NewHandler(a)}
}

// Summarize 生成摘要
// @Summary 生成摘要
// @Description 传 id 时对笔记内容生成摘要，否则对 content 生成摘要
// @Tags AI 助手
// @Accept json
// @Produce json
// @Param params body dto.AssistRequest true "摘要参数"
// @Success 200 {object} pkgapp.Res{data=domain.Summary} "成功"
// @Router /api/assist/summarize [post]
func (h *AssistHandler) Summarize(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.AssistRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.invalidParams(c, "AssistHandler.Summarize", errs)
		return
	}

	ctx := c.Request.Context()
	svc := h.App.AssistService

	var err error
	var summary *domain.Summary
	if params.ID != "" {
		summary, err = svc.SummarizeNote(ctx, params.ID)
	} else {
		summary, err = svc.Summarize(ctx, params.Content)
	}
	if err != nil {
		h.logError(ctx, "AssistHandler.Summarize", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	response.ToResponse(code.Success.WithData(summary))
}

// SuggestTags 建议标签
// @Summary 建议标签
// @Description 传 id 时会过滤掉笔记已有的标签
// @Tags AI 助手
// @Accept json
// @Produce json
// @Param params body dto.AssistRequest true "标签建议参数"
// @Success 200 {object} pkgapp.Res{data=pkgapp.ListRes{list=[]domain.TagSuggestion}} "成功"
// @Router /api/assist/tags [post]
func (h *AssistHandler) SuggestTags(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.AssistRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.invalidParams(c, "AssistHandler.SuggestTags", errs)
		return
	}

	ctx := c.Request.Context()
	svc := h.App.AssistService

	var err error
	var tags []domain.TagSuggestion
	if params.ID != "" {
		tags, err = svc.SuggestTagsForNote(ctx, params.ID)
	} else {
		tags, err = svc.SuggestTags(ctx, params.Content)
	}
	if err != nil {
		h.logError(ctx, "AssistHandler.SuggestTags", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	response.ToResponseList(code.Success, tags, len(tags))
}

// Analyze 并发生成摘要与标签建议
// @Summary 组合分析
// @Tags AI 助手
// @Accept json
// @Produce json
// @Param params body dto.AssistAnalyzeRequest true "分析参数"
// @Success 200 {object} pkgapp.Res{data=service.Analysis} "成功"
// @Router /api/assist/analyze [post]
func (h *AssistHandler) Analyze(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.AssistAnalyzeRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.invalidParams(c, "AssistHandler.Analyze", errs)
		return
	}

	ctx := c.Request.Context()
	analysis, err := h.App.AssistService.AnalyzeNote(ctx, params.ID)
	if err != nil {
		h.logError(ctx, "AssistHandler.Analyze", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	response.ToResponse(code.Success.WithData(analysis))
}

// Status 进行中的 AI 调用
// @Summary AI 调用状态
// @Tags AI 助手
// @Produce json
// @Success 200 {object} pkgapp.Res{data=service.AssistStatus} "成功"
// @Router /api/assist/status [get]
func (h *AssistHandler) Status(c *gin.Context) {
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(h.App.AssistService.Status()))
}
