package code

import (
	"fmt"
	"net/http"
)

// Code is a response code with bilingual message and optional payload
// Code 带双语消息和可选负载的响应码
type Code struct {
	// 状态码
	code int
	// 状态
	status bool
	// 消息
	Lang lang
	// 数据
	data     interface{}
	haveData bool
	// 错误详细信息
	details     []string
	haveDetails bool
}

var codes = map[int]string{}
var sussCodes = map[int]string{}

// NewError registers an error code
// NewError 注册错误码
func NewError(code int, l lang) *Code {
	if _, ok := codes[code]; ok {
		panic(fmt.Sprintf("错误码 %d 已经存在，请更换一个", code))
	}
	codes[code] = l.GetMessage()
	return &Code{code: code, status: false, Lang: l}
}

// NewSuss registers a success code
// NewSuss 注册成功码
func NewSuss(code int, l lang) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("成功码 %d 已经存在，请更换一个", code))
	}
	sussCodes[code] = l.GetMessage()
	return &Code{code: code, status: true, Lang: l}
}

// Clone returns a copy without data or details, so shared codes are never mutated
// Clone 返回不含数据和详情的副本，避免修改共享的 Code
func (e *Code) Clone() *Code {
	return &Code{
		code:   e.code,
		status: e.status,
		Lang:   e.Lang,
	}
}

func (e *Code) Error() string {
	return e.Msg()
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

func (e *Code) Msg() string {
	return e.Lang.GetMessage()
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) Data() interface{} {
	return e.data
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

func (e *Code) HaveData() bool {
	return e.haveData
}

// WithData returns a copy carrying data
// WithData 返回携带数据的副本
func (e *Code) WithData(data interface{}) *Code {
	c := e.Clone()
	c.details, c.haveDetails = e.details, e.haveDetails
	c.haveData = true
	c.data = data
	return c
}

// WithDetails returns a copy carrying details
// WithDetails 返回携带详情的副本
func (e *Code) WithDetails(details ...string) *Code {
	c := e.Clone()
	c.data, c.haveData = e.data, e.haveData
	c.haveDetails = true
	c.details = append([]string{}, details...)
	return c
}

func (e *Code) StatusCode() int {
	return http.StatusOK
}
