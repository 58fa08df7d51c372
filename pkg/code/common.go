package code

var (
	// Success 成功
	Success = NewSuss(1, lang{en: "Success", zh_cn: "成功"})
	// SuccessCreate 创建成功
	SuccessCreate = NewSuss(2, lang{en: "Created successfully", zh_cn: "创建成功"})
	// SuccessUpdate 更新成功
	SuccessUpdate = NewSuss(3, lang{en: "Updated successfully", zh_cn: "更新成功"})
	// SuccessDelete 删除成功
	SuccessDelete = NewSuss(4, lang{en: "Deleted successfully", zh_cn: "删除成功"})
	// SuccessNoChange 未产生变更
	SuccessNoChange = NewSuss(5, lang{en: "Nothing changed", zh_cn: "未产生变更"})
	// SuccessHidden 欢迎笔记已隐藏
	SuccessHidden = NewSuss(6, lang{en: "Welcome note hidden", zh_cn: "欢迎笔记已隐藏"})
	// SuccessRestore 已恢复
	SuccessRestore = NewSuss(7, lang{en: "Note restored", zh_cn: "笔记已恢复"})

	// Failed 失败
	Failed = NewError(400, lang{en: "Failed", zh_cn: "失败"})
	// ErrorServerInternal 服务器内部错误
	ErrorServerInternal = NewError(500, lang{en: "Internal server error", zh_cn: "服务器内部错误"})
	// ErrorNotFoundAPI 接口不存在
	ErrorNotFoundAPI = NewError(404, lang{en: "API not found", zh_cn: "接口不存在"})
	// ErrorInvalidParams 参数错误
	ErrorInvalidParams = NewError(405, lang{en: "Invalid parameters", zh_cn: "参数错误"})
	// ErrorTooManyRequests 请求过多
	ErrorTooManyRequests = NewError(429, lang{en: "Too many requests", zh_cn: "请求过多"})
	// ErrorTimeout 请求超时
	ErrorTimeout = NewError(408, lang{en: "Request timeout", zh_cn: "请求超时"})

	// ErrorNoteNotFound 笔记不存在
	ErrorNoteNotFound = NewError(445, lang{en: "Note not found", zh_cn: "笔记不存在"})
	// ErrorHistoryNotFound 历史版本不存在
	ErrorHistoryNotFound = NewError(446, lang{en: "Note version not found", zh_cn: "笔记历史版本不存在"})
	// ErrorNothingToUndo 没有可撤销的删除
	ErrorNothingToUndo = NewError(447, lang{en: "Nothing to undo", zh_cn: "没有可撤销的删除"})
	// ErrorStorage 存储读写失败
	ErrorStorage = NewError(460, lang{en: "Storage read or write failed", zh_cn: "存储读写失败"})
	// ErrorRender 渲染失败
	ErrorRender = NewError(461, lang{en: "Failed to render note", zh_cn: "笔记渲染失败"})

	// ErrorAssistSummarize 摘要生成失败
	ErrorAssistSummarize = NewError(470, lang{en: "Failed to summarize note.", zh_cn: "生成摘要失败，请稍后重试。"})
	// ErrorAssistSuggestTags 标签建议失败
	ErrorAssistSuggestTags = NewError(471, lang{en: "Failed to suggest tags.", zh_cn: "生成标签建议失败，请稍后重试。"})
	// ErrorAssistDisabled AI 助手未配置
	ErrorAssistDisabled = NewError(472, lang{en: "AI assist is not configured", zh_cn: "AI 助手未配置"})
	// ErrorAssistEmptyContent 内容为空
	ErrorAssistEmptyContent = NewError(473, lang{en: "Note content is empty", zh_cn: "笔记内容为空"})
)
