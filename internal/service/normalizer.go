package service

import (
	"fmt"

	"tmf-api/internal/model"
)

// Normalizer は入力ペイロードをリソース種別ごとの正規形に変換する
// 入力は変更せず、二度正規化しても結果は変わらない
type Normalizer struct {
	locator Locator
}

// NewNormalizer はlで参照のhrefを生成するNormalizerを作成
func NewNormalizer(l Locator) *Normalizer {
	return &Normalizer{locator: l}
}

// Normalize はrawのコピーに種別のテンプレートを適用
func (n *Normalizer) Normalize(raw model.Resource, kind *model.Kind) (model.Resource, error) {
	out := raw.Clone()
	if out == nil {
		out = model.Resource{}
	}
	if err := n.applyShape(out, &kind.Shape, ""); err != nil {
		return nil, err
	}
	return out, nil
}

func (n *Normalizer) applyShape(obj map[string]any, shape *model.Shape, at string) error {
	if shape.Type != "" {
		obj[model.FieldType] = shape.Type
	}

	for _, f := range shape.Fields {
		path := joinPath(at, f.Name)
		value, present := obj[f.Name]

		switch f.Rule {
		case model.RuleScalar:
			if !present || value == nil {
				obj[f.Name] = model.CloneValue(f.Default)
			}

		case model.RuleList:
			list, err := asList(value, path)
			if err != nil {
				return err
			}
			obj[f.Name] = list

		case model.RuleRefList:
			list, err := asList(value, path)
			if err != nil {
				return err
			}
			for i, elem := range list {
				ref, err := asObject(elem, fmt.Sprintf("%s[%d]", path, i))
				if err != nil {
					return err
				}
				n.tagRef(ref, f)
				list[i] = ref
			}
			obj[f.Name] = list

		case model.RuleObjectList:
			list, err := asList(value, path)
			if err != nil {
				return err
			}
			for i, elem := range list {
				elemPath := fmt.Sprintf("%s[%d]", path, i)
				sub, err := asObject(elem, elemPath)
				if err != nil {
					return err
				}
				if f.Shape != nil {
					if err := n.applyShape(sub, f.Shape, elemPath); err != nil {
						return err
					}
				}
				list[i] = sub
			}
			obj[f.Name] = list

		case model.RuleObject:
			if !present || value == nil {
				value = map[string]any{}
				if f.DefaultFunc != nil {
					value = f.DefaultFunc()
				}
			}
			sub, err := asObject(value, path)
			if err != nil {
				return err
			}
			if f.Shape != nil {
				if err := n.applyShape(sub, f.Shape, path); err != nil {
					return err
				}
			}
			obj[f.Name] = sub

		case model.RuleRef:
			if !present || value == nil {
				continue
			}
			ref, err := asObject(value, path)
			if err != nil {
				return err
			}
			n.tagRef(ref, f)
			obj[f.Name] = ref

		case model.RuleNested:
			if !present || value == nil {
				continue
			}
			sub, err := asObject(value, path)
			if err != nil {
				return err
			}
			if f.Shape != nil {
				if err := n.applyShape(sub, f.Shape, path); err != nil {
					return err
				}
			}
			obj[f.Name] = sub
		}
	}
	return nil
}

// tagRef は参照の型情報を設定し、hrefがなければ補完する
func (n *Normalizer) tagRef(ref map[string]any, f model.Field) {
	if f.RefType != "" {
		ref[model.FieldType] = f.RefType
	}
	if f.ReferredType != "" {
		ref[model.FieldReferredType] = f.ReferredType
	}
	if f.RefPath == "" {
		return
	}
	if href, _ := ref[model.FieldHref].(string); href != "" {
		return
	}
	id, _ := ref[model.FieldID].(string)
	if id == "" {
		id = defaultRefID
	}
	ref[model.FieldHref] = n.locator.Href(f.RefPath, id)
}

func asList(value any, path string) ([]any, error) {
	switch v := value.(type) {
	case nil:
		return []any{}, nil
	case []any:
		return v, nil
	case []map[string]any:
		out := make([]any, len(v))
		for i, m := range v {
			out[i] = m
		}
		return out, nil
	default:
		return nil, validation(path, "%s must be an array", path)
	}
}

func asObject(value any, path string) (map[string]any, error) {
	switch v := value.(type) {
	case map[string]any:
		return v, nil
	case model.Resource:
		return map[string]any(v), nil
	default:
		return nil, validation(path, "%s must be an object", path)
	}
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
