package model

// FieldRule はフィールドの補完・タグ付け方法
type FieldRule int

const (
	// RuleScalar はフィールドが未指定またはnullの場合にDefaultを設定
	RuleScalar FieldRule = iota
	// RuleList は空配列をデフォルトとする
	RuleList
	// RuleRefList は空配列をデフォルトとし、各要素を参照としてタグ付け
	RuleRefList
	// RuleObjectList は空配列をデフォルトとし、各要素をShapeで正規化
	RuleObjectList
	// RuleObject は未指定時にデフォルトのオブジェクトを補完し、Shapeで正規化
	RuleObject
	// RuleRef は指定されている場合に参照としてタグ付け
	RuleRef
	// RuleNested は指定されている場合にShapeで正規化
	RuleNested
)

// Field はテンプレートの1項目
type Field struct {
	Name string
	Rule FieldRule

	// Default はRuleScalarのデフォルト値
	// リソース間で共有してはいけない値はDefaultFuncを使う
	Default     any
	DefaultFunc func() map[string]any

	// RuleRefList・RuleRefの参照タグ
	RefType      string
	ReferredType string
	RefPath      string

	// Shape はRuleObjectListの要素、RuleObject・RuleNestedのオブジェクトの形
	Shape *Shape
}

// Shape は型付きJSONオブジェクトのテンプレート
type Shape struct {
	// Type は固定の "@type" 値（空の場合はタグ付けしない）
	Type   string
	Fields []Field
}

// Kind は1つのリソースコレクションの宣言的テンプレート
type Kind struct {
	Shape

	// Name はストア上のコレクション名
	Name string
	// Path はベースパス配下のAPIパス（hrefの生成にも使う）
	Path string
	// Required は作成時に必須のフィールド
	Required []string
	// CreatedField は作成時に設定し、更新時は保存済みの値を維持
	CreatedField string
	// UpdatedField は作成時・更新時に設定
	UpdatedField string
}

// Scalar はデフォルト値付きのスカラーフィールド
func Scalar(name string, def any) Field {
	return Field{Name: name, Rule: RuleScalar, Default: def}
}

// List は配列フィールド
func List(name string) Field {
	return Field{Name: name, Rule: RuleList}
}

// RefList は参照の配列フィールド
func RefList(name, refType, referredType, path string) Field {
	return Field{Name: name, Rule: RuleRefList, RefType: refType, ReferredType: referredType, RefPath: path}
}

// ObjectList は型付きオブジェクトの配列フィールド
func ObjectList(name string, shape *Shape) Field {
	return Field{Name: name, Rule: RuleObjectList, Shape: shape}
}

// Object は未指定時にdefで補完されるオブジェクトフィールド
func Object(name string, shape *Shape, def func() map[string]any) Field {
	return Field{Name: name, Rule: RuleObject, Shape: shape, DefaultFunc: def}
}

// Ref は任意の単一参照フィールド
func Ref(name, refType, referredType, path string) Field {
	return Field{Name: name, Rule: RuleRef, RefType: refType, ReferredType: referredType, RefPath: path}
}

// Nested は任意のネストしたオブジェクトフィールド
func Nested(name string, shape *Shape) Field {
	return Field{Name: name, Rule: RuleNested, Shape: shape}
}
