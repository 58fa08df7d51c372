package code

import "strings"

// lang stores the English and Chinese text of a message
// lang 存储消息的英文和中文文本
type lang struct {
	en    string // English // 英文
	zh_cn string // Chinese // 中文
}

// FallbackLang is used when the requested language has no text
// FallbackLang 请求语言没有文本时使用的回退语言
const FallbackLang = "en"

// supportedLanguages lists the languages lang can hold
// supportedLanguages lang 支持的语言列表
var supportedLanguages = []string{"en", "zh_cn"}

// GetMessage returns the English message
// GetMessage 返回英文消息
func (l lang) GetMessage() string {
	return l.GetMessageFor(FallbackLang)
}

// GetMessageFor returns the message for the given language, falling back to English
// GetMessageFor 返回指定语言的消息，缺失时回退到英文
func (l lang) GetMessageFor(language string) string {
	switch NormalizeLang(language) {
	case "zh_cn":
		if l.zh_cn != "" {
			return l.zh_cn
		}
	}
	return l.en
}

// GetSupportedLanguages returns all languages supported by the lang type
// GetSupportedLanguages 返回 lang 类型支持的所有语言
func GetSupportedLanguages() []string {
	out := make([]string, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// NormalizeLang maps request values such as "zh-CN" or "zh" onto a supported language
// NormalizeLang 将 "zh-CN"、"zh" 等请求值映射为支持的语言
func NormalizeLang(language string) string {
	language = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(language), "-", "_"))
	if language == "zh" || strings.HasPrefix(language, "zh_") {
		return "zh_cn"
	}
	for _, l := range supportedLanguages {
		if l == language {
			return l
		}
	}
	return FallbackLang
}
