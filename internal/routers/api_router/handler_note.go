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

// NoteHandler 笔记 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type NoteHandler struct {
	*Handler
}

// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(a *app.App) *NoteHandler {
	return &NoteHandler{
		Handler: NewHandler(a),
	}
}

// List 获取笔记列表
// @Summary 获取笔记列表
// @Description 按标题或内容搜索（不区分大小写），并按指定字段排序
// @Tags 笔记
// @Produce json
// @Param params query dto.NoteListRequest false "查询参数"
// @Success 200 {object} pkgapp.Res{data=pkgapp.ListRes{list=[]domain.Note}} "成功"
// @Router /api/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteListRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.invalidParams(c, "NoteHandler.List", errs)
		return
	}

	notes := h.App.NoteService.List(c.Request.Context(), params.ToQuery())
	response.ToResponseList(code.Success, notes, len(notes))
}

// Get 获取单条笔记详情
// @Summary 获取笔记详情
// @Tags 笔记
// @Produce json
// @Param id query string true "笔记 ID"
// @Success 200 {object} pkgapp.Res{data=domain.Note} "成功"
// @Router /api/note [get]
func (h *NoteHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteIDRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.invalidParams(c, "NoteHandler.Get", errs)
		return
	}

	ctx := c.Request.Context()
	note, err := h.App.NoteService.Get(ctx, params.ID)
	if err != nil {
		h.logError(ctx, "NoteHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	response.ToResponse(code.Success.WithData(note))
}

// Create 新建空白笔记
// @Summary 新建笔记
// @Description 新建一条 Untitled Note 并置于列表首位
// @Tags 笔记
// @Produce json
// @Success 200 {object} pkgapp.Res{data=service.Outcome} "成功"
// @Router /api/note [post]
func (h *NoteHandler) Create(c *gin.Context) {
	out := h.App.NoteService.Create(c.Request.Context())
	toOutcome(c, code.SuccessCreate, out)
}

// Update 局部更新笔记
// @Summary 更新笔记
// @Description 只修改请求中出现的字段，内容或标题变化时记录历史版本
// @Tags 笔记
// @Accept json
// @Produce json
// @Param params body dto.NoteUpdateRequest true "更新参数"
// @Success 200 {object} pkgapp.Res{data=service.Outcome} "成功"
// @Router /api/note [put]
func (h *NoteHandler) Update(c *gin.Context) {
	params := &dto.NoteUpdateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.invalidParams(c, "NoteHandler.Update", errs)
		return
	}

	out := h.App.NoteService.Update(c.Request.Context(), params.ID, params.ToPatch())
	toOutcome(c, code.SuccessUpdate, out)
}

// Delete 删除笔记
// @Summary 删除笔记
// @Description 普通笔记删除后可撤销一次；欢迎笔记只会被隐藏
// @Tags 笔记
// @Produce json
// @Param id query string true "笔记 ID"
// @Success 200 {object} pkgapp.Res{data=dto.NoteDeleteResponse} "成功"
// @Router /api/note [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteIDRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.invalidParams(c, "NoteHandler.Delete", errs)
		return
	}

	svc := h.App.NoteService
	out := svc.Delete(c.Request.Context(), params.ID)
	res := dto.NoteDeleteResponse{Changed: out.Changed, Undoable: svc.CanUndo()}

	switch {
	case !out.Changed:
		response.ToResponse(code.SuccessNoChange.WithData(res))
	case params.ID == domain.WelcomeNoteID:
		response.ToResponse(code.SuccessHidden.WithData(res))
	default:
		response.ToResponse(code.SuccessDelete.WithData(res))
	}
}

// Undo 撤销最近一次删除
// @Summary 撤销删除
// @Tags 笔记
// @Produce json
// @Success 200 {object} pkgapp.Res{data=service.Outcome} "成功"
// @Router /api/note/undo [post]
func (h *NoteHandler) Undo(c *gin.Context) {
	out := h.App.NoteService.Undo(c.Request.Context())
	toOutcome(c, code.SuccessRestore, out)
}

// Rename 重命名笔记
// @Summary 重命名笔记
// @Description 空白标题会被忽略，笔记保持不变
// @Tags 笔记
// @Accept json
// @Produce json
// @Param params body dto.NoteRenameRequest true "重命名参数"
// @Success 200 {object} pkgapp.Res{data=service.Outcome} "成功"
// @Router /api/note/rename [put]
func (h *NoteHandler) Rename(c *gin.Context) {
	params := &dto.NoteRenameRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.invalidParams(c, "NoteHandler.Rename", errs)
		return
	}

	out := h.App.NoteService.Rename(c.Request.Context(), params.ID, params.Title)
	toOutcome(c, code.SuccessUpdate, out)
}

// Revert 回滚到历史版本
// @Summary 回滚笔记
// @Description 当前内容会先压入历史，再恢复指定版本
// @Tags 笔记
// @Accept json
// @Produce json
// @Param params body dto.NoteRevertRequest true "回滚参数"
// @Success 200 {object} pkgapp.Res{data=service.Outcome} "成功"
// @Router /api/note/revert [put]
func (h *NoteHandler) Revert(c *gin.Context) {
	params := &dto.NoteRevertRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.invalidParams(c, "NoteHandler.Revert", errs)
		return
	}

	ctx := c.Request.Context()
	out, err := h.App.NoteService.Revert(ctx, params.ID, *params.Index)
	if err != nil {
		h.logError(ctx, "NoteHandler.Revert", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	toOutcome(c, code.SuccessUpdate, out)
}

// AddTag 添加标签
// @Summary 添加标签
// @Tags 笔记
// @Accept json
// @Produce json
// @Param params body dto.NoteTagRequest true "标签参数"
// @Success 200 {object} pkgapp.Res{data=service.Outcome} "成功"
// @Router /api/note/tag [post]
func (h *NoteHandler) AddTag(c *gin.Context) {
	params := &dto.NoteTagRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.invalidParams(c, "NoteHandler.AddTag", errs)
		return
	}

	out := h.App.NoteService.AddTag(c.Request.Context(), params.ID, params.Tag)
	toOutcome(c, code.SuccessUpdate, out)
}

// RemoveTag 删除标签
// @Summary 删除标签
// @Tags 笔记
// @Accept json
// @Produce json
// @Param params body dto.NoteTagRequest true "标签参数"
// @Success 200 {object} pkgapp.Res{data=service.Outcome} "成功"
// @Router /api/note/tag [delete]
func (h *NoteHandler) RemoveTag(c *gin.Context) {
	params := &dto.NoteTagRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.invalidParams(c, "NoteHandler.RemoveTag", errs)
		return
	}

	out := h.App.NoteService.RemoveTag(c.Request.Context(), params.ID, params.Tag)
	toOutcome(c, code.SuccessUpdate, out)
}

// HTML 获取渲染后的笔记
// @Summary 渲染笔记
// @Description Markdown 转 HTML 后经过白名单清洗；已是 HTML 的内容只做清洗
// @Tags 笔记
// @Produce json
// @Param id query string true "笔记 ID"
// @Success 200 {object} pkgapp.Res{data=dto.NoteHTMLResponse} "成功"
// @Router /api/note/html [get]
func (h *NoteHandler) HTML(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteIDRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.invalidParams(c, "NoteHandler.HTML", errs)
		return
	}

	ctx := c.Request.Context()
	html, err := h.App.RenderService.RenderHTML(ctx, params.ID)
	if err != nil {
		h.logError(ctx, "NoteHandler.HTML", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	response.ToResponse(code.Success.WithData(dto.NoteHTMLResponse{ID: params.ID, HTML: html}))
}

// ShowWelcome 重新显示欢迎笔记
// @Summary 显示欢迎笔记
// @Tags 笔记
// @Produce json
// @Success 200 {object} pkgapp.Res{data=service.Outcome} "成功"
// @Router /api/note/welcome/show [post]
func (h *NoteHandler) ShowWelcome(c *gin.Context) {
	out := h.App.NoteService.ShowWelcome(c.Request.Context())
	toOutcome(c, code.SuccessRestore, out)
}
