package middleware

import (
	"github.com/haierkeys/clipbook-service/pkg/app"
	"github.com/haierkeys/clipbook-service/pkg/code"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// LangWithTranslator 创建带翻译器的语言中间件（支持依赖注入）
// 语言取自 query ?lang= 或请求头 lang，其次为 Accept-Language
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {

	return func(c *gin.Context) {

		var lang string

		if s, exist := c.GetQuery("lang"); exist {
			lang = s
		} else if s = c.GetHeader("lang"); len(s) != 0 {
			lang = s
		} else if s = c.GetHeader("Accept-Language"); len(s) >= 2 {
			lang = s[:2]
		}

		lang = code.NormalizeLang(lang)
		c.Set(app.LangKey, lang)

		locale := "en"
		if lang == "zh_cn" {
			locale = "zh"
		}
		if trans, found := uni.GetTranslator(locale); found {
			c.Set(app.TransKey, trans)
		}

		c.Next()
	}
}
