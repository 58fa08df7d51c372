package domain

// Summary AI 生成的摘要
type Summary struct {
	Summary string `json:"summary"`
}

// TagSuggestion AI 建议的标签及相关度 (0..1)
type TagSuggestion struct {
	Tag            string  `json:"tag" validate:"required"`
	RelevanceScore float64 `json:"relevanceScore" validate:"gte=0,lte=1"`
}

// AssistOp AI 操作名称
type AssistOp string

const (
	AssistOpSummarize   AssistOp = "summarize"
	AssistOpSuggestTags AssistOp = "suggestTags"
)

// FilterNewSuggestions drops suggestions whose tag is already on the note
// FilterNewSuggestions 过滤掉笔记已存在的标签
func FilterNewSuggestions(n *Note, suggestions []TagSuggestion) []TagSuggestion {
	out := make([]TagSuggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if n != nil && n.HasTag(s.Tag) {
			continue
		}
		out = append(out, s)
	}
	return out
}
