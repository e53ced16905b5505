package model

// 商品注文（TMF622）の型識別子
const (
	TypeProductOrder       = "ProductOrder"
	TypeCancelProductOrder = "CancelProductOrder"
	TypeProductOrderItem   = "ProductOrderItem"
	TypeOrderPrice         = "OrderPrice"
)

// 注文状態（この一覧以外の状態も設定可能）
const (
	OrderStateAcknowledged = "acknowledged"
	OrderStateInProgress   = "inProgress"
	OrderStateCompleted    = "completed"
	OrderStateCancelled    = "cancelled"
)

// 注文ライフサイクルで使うフィールド名
const (
	FieldState                     = "state"
	FieldCompletionDate            = "completionDate"
	FieldOrderTotalPrice           = "orderTotalPrice"
	FieldProductOrderItem          = "productOrderItem"
	FieldProductOrder              = "productOrder"
	FieldRequestedCancellationDate = "requestedCancellationDate"
	FieldEffectiveCancellationDate = "effectiveCancellationDate"
)

// DefaultCurrency は通貨単位が未指定の場合のデフォルト
const DefaultCurrency = "EUR"

const (
	productOrderPath       = "productOrderingManagement/v4/productOrder"
	cancelProductOrderPath = "productOrderingManagement/v4/cancelProductOrder"
)

var orderPriceShape = &Shape{
	Type: TypeOrderPrice,
	Fields: []Field{
		Scalar("name", ""),
		Scalar("priceType", "recurring"),
		Nested("price", &Shape{Type: "Price"}),
		List("priceAlteration"),
	},
}

var productOrderItemShape = &Shape{
	Type: TypeProductOrderItem,
	Fields: []Field{
		Scalar("action", "add"),
		Scalar(FieldState, OrderStateAcknowledged),
		Scalar("quantity", float64(1)),
		Ref("productOffering", "ProductOfferingRef", TypeProductOffering, productOfferingPath),
		Nested("product", &Shape{
			Type: TypeProduct,
			Fields: []Field{
				Ref("productSpecification", "ProductSpecificationRef", TypeProductSpecification, productSpecificationPath),
				List("productCharacteristic"),
			},
		}),
		ObjectList("itemPrice", orderPriceShape),
		ObjectList("itemTotalPrice", orderPriceShape),
		List("productOrderItemRelationship"),
		List("productOrderItem"),
	},
}

// ProductOrder はTMF622商品注文のテンプレート
var ProductOrder = &Kind{
	Shape: Shape{
		Type: TypeProductOrder,
		Fields: []Field{
			Scalar("description", ""),
			Scalar("category", ""),
			Scalar("priority", "4"),
			Scalar(FieldState, OrderStateAcknowledged),
			Scalar(FieldCompletionDate, nil),
			Scalar("requestedStartDate", nil),
			Scalar("requestedCompletionDate", nil),
			ObjectList(FieldProductOrderItem, productOrderItemShape),
			RefList("relatedParty", "RelatedParty", "", ""),
			RefList("channel", "RelatedChannel", "Channel", ""),
			RefList("agreement", "AgreementRef", "Agreement", ""),
			RefList("payment", "PaymentRef", "Payment", ""),
			RefList("quote", "QuoteRef", "Quote", ""),
			RefList("productOfferingQualification", "ProductOfferingQualificationRef", "ProductOfferingQualification", ""),
			ObjectList("note", &Shape{Type: "Note"}),
			List("orderRelationship"),
			Ref("billingAccount", "BillingAccountRef", "BillingAccount", ""),
		},
	},
	Name:         "productOrder",
	Path:         productOrderPath,
	CreatedField: "creationDate",
}

// CancelProductOrder はTMF622注文キャンセル要求のテンプレート
var CancelProductOrder = &Kind{
	Shape: Shape{
		Type: TypeCancelProductOrder,
		Fields: []Field{
			Scalar("cancellationReason", ""),
			Scalar(FieldState, OrderStateAcknowledged),
			Scalar(FieldEffectiveCancellationDate, nil),
			Ref(FieldProductOrder, "ProductOrderRef", TypeProductOrder, productOrderPath),
		},
	},
	Name:         "cancelProductOrder",
	Path:         cancelProductOrderPath,
	CreatedField: "creationDate",
}
