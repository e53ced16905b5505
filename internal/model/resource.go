package model

import "time"

// すべてのTMFリソースに共通のフィールド名
const (
	FieldID           = "id"
	FieldHref         = "href"
	FieldType         = "@type"
	FieldReferredType = "@referredType"
)

// TimestampLayout はTMFのタイムスタンプ形式（ミリ秒付きISO-8601）
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Resource はTMFリソース（任意のJSONオブジェクト）
type Resource map[string]any

// ID はリソースIDを返す（なければ ""）
func (r Resource) ID() string {
	return r.String(FieldID)
}

// Href はhrefを返す（なければ ""）
func (r Resource) Href() string {
	return r.String(FieldHref)
}

// Type は@typeを返す（なければ ""）
func (r Resource) Type() string {
	return r.String(FieldType)
}

// String は文字列フィールドの値を返す
func (r Resource) String(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// Object はオブジェクトフィールドの値を返す
func (r Resource) Object(key string) (Resource, bool) {
	switch v := r[key].(type) {
	case map[string]any:
		return Resource(v), true
	case Resource:
		return v, true
	}
	return nil, false
}

// Clone はリソースのディープコピーを返す
func (r Resource) Clone() Resource {
	if r == nil {
		return nil
	}
	return Resource(CloneValue(map[string]any(r)).(map[string]any))
}

// CloneValue はJSON値をディープコピーする
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = CloneValue(val)
		}
		return out
	case Resource:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = CloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = CloneValue(val)
		}
		return out
	default:
		return v
	}
}

// FormatTime はtをTMFのタイムスタンプ形式で返す
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
