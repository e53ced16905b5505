package service

import (
	"encoding/json"
	"sort"
	"strings"

	"tmf-api/internal/model"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var identityFields = []string{model.FieldType, model.FieldID, model.FieldHref}

// Projection はJSONキーの挿入順を保つリソースビュー
type Projection struct {
	fields *orderedmap.OrderedMap[string, any]
}

// MarshalJSON はフィールドを順序通りに出力
func (p *Projection) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.fields)
}

// Keys は出力順のフィールド名を返す
func (p *Projection) Keys() []string {
	keys := make([]string, 0, p.fields.Len())
	for pair := p.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Map は射影したフィールドをResourceとして返す
func (p *Projection) Map() model.Resource {
	out := make(model.Resource, p.fields.Len())
	for pair := p.fields.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}

// ParseFields はカンマ区切りの "fields" クエリを分割
func ParseFields(raw string) []string {
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// Project はrを指定されたトップレベルのフィールドに絞り込む
// @type・id・hrefは常に先頭。fieldsが空の場合はキーをソートして全体を返す
func Project(r model.Resource, fields []string) *Projection {
	out := orderedmap.New[string, any]()

	if len(fields) == 0 {
		keys := make([]string, 0, len(r))
		for k := range r {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out.Set(k, r[k])
		}
		return &Projection{fields: out}
	}

	for _, k := range identityFields {
		if v, ok := r[k]; ok {
			out.Set(k, v)
		}
	}
	for _, k := range fields {
		if isIdentityField(k) {
			continue
		}
		if v, ok := r[k]; ok {
			out.Set(k, v)
		}
	}
	return &Projection{fields: out}
}

func isIdentityField(name string) bool {
	for _, k := range identityFields {
		if k == name {
			return true
		}
	}
	return false
}
