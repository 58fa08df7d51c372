package app

import (
	"fmt"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// NewTranslator registers en and zh_cn validator translations on v
// NewTranslator 在 v 上注册英文与中文的校验翻译
func NewTranslator(v *validator.Validate) (*ut.UniversalTranslator, error) {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, zh.New())

	enTrans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(v, enTrans); err != nil {
		return nil, fmt.Errorf("register en translations: %w", err)
	}

	zhTrans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(v, zhTrans); err != nil {
		return nil, fmt.Errorf("register zh translations: %w", err)
	}
	return uni, nil
}
