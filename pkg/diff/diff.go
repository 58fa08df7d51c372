// Package diff computes text differences between note versions
// Package diff 计算笔记版本之间的文本差异
package diff

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op 差异片段类型
type Op string

const (
	OpEqual  Op = "equal"
	OpInsert Op = "insert"
	OpDelete Op = "delete"
)

// Segment 差异片段
type Segment struct {
	Op   Op     `json:"op"`
	Text string `json:"text"`
}

// Result describes how `to` differs from `from`
// Result 描述 to 相对 from 的差异
type Result struct {
	Segments   []Segment `json:"segments"`
	Patch      string    `json:"patch"`
	Insertions int       `json:"insertions"`
	Deletions  int       `json:"deletions"`
}

// Changed reports whether any insert or delete segment exists
// Changed 判断是否存在插入或删除
func (r Result) Changed() bool {
	return r.Insertions > 0 || r.Deletions > 0
}

// Compute diffs from against to; counts are in characters
// Compute 计算 from 到 to 的差异，计数单位为字符
func Compute(from, to string) (res Result) {
	from = EnsureValidUTF8(from)
	to = EnsureValidUTF8(to)

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(from, to, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	res.Segments = make([]Segment, 0, len(diffs))
	for _, d := range diffs {
		seg := Segment{Text: d.Text}
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			seg.Op = OpInsert
			res.Insertions += utf8.RuneCountInString(d.Text)
		case diffmatchpatch.DiffDelete:
			seg.Op = OpDelete
			res.Deletions += utf8.RuneCountInString(d.Text)
		default:
			seg.Op = OpEqual
		}
		res.Segments = append(res.Segments, seg)
	}
	res.Patch = dmp.PatchToText(dmp.PatchMake(from, diffs))
	return res
}

// Apply applies a patch produced by Compute to from
// Apply 将 Compute 生成的补丁应用到 from
func Apply(from, patch string) (string, bool) {
	dmp := diffmatchpatch.New()
	patches, err := dmp.PatchFromText(patch)
	if err != nil {
		return from, false
	}
	out, applied := dmp.PatchApply(patches, EnsureValidUTF8(from))
	for _, ok := range applied {
		if !ok {
			return out, false
		}
	}
	return out, true
}

// EnsureValidUTF8 replaces invalid byte sequences, diffmatchpatch panics on them
// EnsureValidUTF8 替换非法字节序列，diffmatchpatch 遇到会 panic
func EnsureValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "�")
}
