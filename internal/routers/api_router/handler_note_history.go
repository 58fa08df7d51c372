package api_router

import (
	"github.com/haierkeys/clipbook-service/internal/app"
	"github.com/haierkeys/clipbook-service/internal/dto"
	pkgapp "github.com/haierkeys/clipbook-service/pkg/app"
	"github.com/haierkeys/clipbook-service/pkg/code"
	apperrors "github.com/haierkeys/clipbook-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// NoteHistoryHandler 笔记历史 API 路由处理器
type NoteHistoryHandler struct {
	*Handler
}

// NewNoteHistoryHandler 创建 NoteHistoryHandler 实例
func NewNoteHistoryHandler(a *app.App) *NoteHistoryHandler {
	return &NoteHistoryHandler{Handler: NewHandler(a)}
}

// List 获取笔记历史版本列表
// @Summary 获取笔记历史版本列表
// @Description 最新版本在前，每个版本附带与其后一版本的差异
// @Tags 笔记历史
// @Produce json
// @Param id query string true "笔记 ID"
// @Success 200 {object} pkgapp.Res{data=pkgapp.ListRes{list=[]service.HistoryVersion}} "成功"
// @Router /api/note/histories [get]
func (h *NoteHistoryHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteIDRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.invalidParams(c, "NoteHistoryHandler.List", errs)
		return
	}

	ctx := c.Request.Context()
	versions, err := h.App.NoteHistoryService.List(ctx, params.ID)
	if err != nil {
		h.logError(ctx, "NoteHistoryHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	response.ToResponseList(code.Success, versions, len(versions))
}

// Get 获取单个历史版本
// @Summary 获取笔记历史版本详情
// @Tags 笔记历史
// @Produce json
// @Param params query dto.NoteHistoryRequest true "查询参数"
// @Success 200 {object} pkgapp.Res{data=service.HistoryVersion} "成功"
// @Router /api/note/history [get]
func (h *NoteHistoryHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteHistoryRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.invalidParams(c, "NoteHistoryHandler.Get", errs)
		return
	}

	ctx := c.Request.Context()
	version, err := h.App.NoteHistoryService.Get(ctx, params.ID, *params.Index)
	if err != nil {
		h.logError(ctx, "NoteHistoryHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	response.ToResponse(code.Success.WithData(version))
}
