package app

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// TransKey is the gin context key holding the validator translator
// TransKey gin 上下文中保存校验翻译器的键
const TransKey = "trans"

// ValidError 单个参数校验错误
type ValidError struct {
	Key     string
	Message string
}

// ValidErrors 参数校验错误集合
type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

// Errors 返回所有错误消息
func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// BindAndValid binds the request into v and translates validator failures
// BindAndValid 绑定请求参数并翻译校验错误
func BindAndValid(c *gin.Context, v any) (bool, ValidErrors) {
	var errs ValidErrors
	err := c.ShouldBind(v)
	if err == nil {
		return true, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs = append(errs, &ValidError{Key: "body", Message: err.Error()})
		return false, errs
	}

	trans, _ := c.Value(TransKey).(ut.Translator)
	for _, e := range verrs {
		msg := e.Error()
		if trans != nil {
			msg = e.Translate(trans)
		}
		errs = append(errs, &ValidError{Key: e.Field(), Message: msg})
	}
	return false, errs
}
