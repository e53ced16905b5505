package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tmf-api/internal/model"
)

// ReservedQueryKeys はフィルタ対象外のクエリキー
var ReservedQueryKeys = []string{"fields", "limit", "offset"}

// localLayouts はタイムゾーンなしの書式（Matcherのロケーションで解釈）
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// Matcher はクエリ条件をリソースに対して評価する
//
// パスが解決できない条件は無視する（任意フィールドの欠落でリソースを除外しない）。
// null値は "null" のみに一致する。"Date" を含むパスはMatcherのロケーションで
// 暦日として比較し、それ以外は大文字小文字を区別しない文字列比較。
type Matcher struct {
	loc *time.Location
}

// NewMatcher はlocで暦日を判定するMatcherを作成
func NewMatcher(loc *time.Location) *Matcher {
	if loc == nil {
		loc = time.UTC
	}
	return &Matcher{loc: loc}
}

// Constraints はクエリから予約キーを除き、各キーの先頭の値を取り出す
func Constraints(query map[string][]string) map[string]string {
	out := make(map[string]string, len(query))
	for k, values := range query {
		if isReservedKey(k) || len(values) == 0 {
			continue
		}
		out[k] = values[0]
	}
	return out
}

// Filter はすべての条件を満たすリソースを入力順で返す
func (m *Matcher) Filter(resources []model.Resource, constraints map[string]string) []model.Resource {
	out := make([]model.Resource, 0, len(resources))
	for _, r := range resources {
		if m.Matches(r, constraints) {
			out = append(out, r)
		}
	}
	return out
}

// Matches はrがすべての条件を満たすかを判定
func (m *Matcher) Matches(r model.Resource, constraints map[string]string) bool {
	for path, expected := range constraints {
		if isReservedKey(path) {
			continue
		}
		value, ok := resolvePath(map[string]any(r), path)
		if !ok {
			continue
		}
		if !m.matchValue(path, value, expected) {
			return false
		}
	}
	return true
}

func (m *Matcher) matchValue(path string, value any, expected string) bool {
	if value == nil {
		return expected == "null"
	}
	if s, ok := value.(string); ok && strings.Contains(path, "Date") {
		return m.sameDay(s, expected)
	}
	return strings.EqualFold(stringify(value), expected)
}

// sameDay はどちらかが日付でない場合は通常の比較を行う
func (m *Matcher) sameDay(actual, expected string) bool {
	a, errA := m.parseTime(actual)
	b, errB := m.parseTime(expected)
	if errA != nil || errB != nil {
		return strings.EqualFold(actual, expected)
	}
	ay, am, ad := a.In(m.loc).Date()
	by, bm, bd := b.In(m.loc).Date()
	return ay == by && am == bm && ad == bd
}

// parseTime は日付のみの値をUTCの0時、タイムゾーンなしの値をMatcherのロケーションで解釈
func (m *Matcher) parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, m.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("not a timestamp: %q", s)
}

// resolvePath はドット区切りのパスをたどる（数値セグメントは配列のインデックス）
func resolvePath(root any, path string) (any, bool) {
	cur := root
	for _, seg := range strings.Split(path, ".") {
		switch c := cur.(type) {
		case map[string]any:
			v, ok := c[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case model.Resource:
			v, ok := c[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(c) {
				return nil, false
			}
			cur = c[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = stringify(e)
		}
		return strings.Join(parts, ",")
	case map[string]any, model.Resource:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

func isReservedKey(key string) bool {
	for _, k := range ReservedQueryKeys {
		if k == key {
			return true
		}
	}
	return false
}
