package model

// イベント管理（TMF688）の型識別子
const (
	TypeEvent = "Event"
	TypeHub   = "Hub"
	TypeTopic = "Topic"
)

// イベント・ハブのフィールド名
const (
	FieldEvent     = "event"
	FieldEventType = "eventType"
	FieldCallback  = "callback"
	FieldQuery     = "query"
)

// Event はTMF688イベントのテンプレート
var Event = &Kind{
	Shape: Shape{
		Type: TypeEvent,
		Fields: []Field{
			Scalar(FieldEventType, ""),
			Scalar("title", ""),
			Scalar("description", ""),
			Scalar("priority", "Normal"),
			Scalar("domain", ""),
			Scalar("correlationId", ""),
			Scalar("timeOccurred", nil),
			RefList("relatedParty", "RelatedParty", "", ""),
			ObjectList("characteristic", &Shape{Type: "Characteristic"}),
			Ref("reportingSystem", "EntityRef", "ReportingSystem", ""),
			Ref("source", "EntityRef", "", ""),
		},
	},
	Name:         "event",
	Path:         "eventManagement/v4/event",
	Required:     []string{FieldEvent},
	CreatedField: "eventTime",
}

// Hub はTMF688リスナー登録のテンプレート
var Hub = &Kind{
	Shape: Shape{
		Type: TypeHub,
		Fields: []Field{
			Scalar(FieldQuery, ""),
		},
	},
	Name:     "hub",
	Path:     "eventManagement/v4/hub",
	Required: []string{FieldCallback},
}

// Topic はTMF688トピックのテンプレート
var Topic = &Kind{
	Shape: Shape{
		Type: TypeTopic,
		Fields: []Field{
			Scalar("name", ""),
			Scalar("contentQuery", ""),
			Scalar("headerQuery", ""),
		},
	},
	Name: "topic",
	Path: "eventManagement/v4/topic",
}

// Kinds はAPIが提供するすべてのリソース種別
func Kinds() []*Kind {
	return []*Kind{
		ProductOrder,
		CancelProductOrder,
		Catalog,
		Category,
		ProductOffering,
		ProductOfferingPrice,
		ProductSpecification,
		Product,
		Event,
		Hub,
		Topic,
	}
}

// KindByName はコレクション名でリソース種別を取得
func KindByName(name string) (*Kind, bool) {
	for _, k := range Kinds() {
		if k.Name == name {
			return k, true
		}
	}
	return nil, false
}
