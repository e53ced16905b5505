package model

// 商品カタログ（TMF620）・商品インベントリ（TMF637）の型識別子
const (
	TypeCatalog              = "Catalog"
	TypeCategory             = "Category"
	TypeProductOffering      = "ProductOffering"
	TypeProductOfferingPrice = "ProductOfferingPrice"
	TypeProductSpecification = "ProductSpecification"
	TypeProduct              = "Product"
)

const (
	catalogPath              = "productCatalogManagement/v4/catalog"
	categoryPath             = "productCatalogManagement/v4/category"
	productOfferingPath      = "productCatalogManagement/v4/productOffering"
	productOfferingPricePath = "productCatalogManagement/v4/productOfferingPrice"
	productSpecificationPath = "productCatalogManagement/v4/productSpecification"
	productPath              = "productInventory/v4/product"
)

func zeroMoney() map[string]any {
	return map[string]any{"unit": DefaultCurrency, "value": float64(0)}
}

func lifecycleFields() []Field {
	return []Field{
		Scalar("name", ""),
		Scalar("description", ""),
		Scalar("lifecycleStatus", "Active"),
		Scalar("version", "1.0"),
	}
}

func withLifecycle(fields ...Field) []Field {
	return append(lifecycleFields(), fields...)
}

// Catalog はTMF620カタログのテンプレート
var Catalog = &Kind{
	Shape: Shape{
		Type: TypeCatalog,
		Fields: withLifecycle(
			Scalar("catalogType", "ProductCatalog"),
			RefList("category", "CategoryRef", TypeCategory, categoryPath),
			RefList("relatedParty", "RelatedParty", "", ""),
		),
	},
	Name:         "catalog",
	Path:         catalogPath,
	UpdatedField: "lastUpdate",
}

// Category はTMF620カテゴリのテンプレート
var Category = &Kind{
	Shape: Shape{
		Type: TypeCategory,
		Fields: withLifecycle(
			Scalar("isRoot", true),
			Scalar("parentId", ""),
			RefList("productOffering", "ProductOfferingRef", TypeProductOffering, productOfferingPath),
			RefList("subCategory", "CategoryRef", TypeCategory, categoryPath),
		),
	},
	Name:         "category",
	Path:         categoryPath,
	UpdatedField: "lastUpdate",
}

// ProductOffering はTMF620商品オファリングのテンプレート
var ProductOffering = &Kind{
	Shape: Shape{
		Type: TypeProductOffering,
		Fields: withLifecycle(
			Scalar("isBundle", false),
			Scalar("isSellable", true),
			RefList("category", "CategoryRef", TypeCategory, categoryPath),
			RefList("productOfferingPrice", "ProductOfferingPriceRef", TypeProductOfferingPrice, productOfferingPricePath),
			RefList("bundledProductOffering", "BundledProductOffering", TypeProductOffering, productOfferingPath),
			RefList("channel", "ChannelRef", "Channel", ""),
			Ref("productSpecification", "ProductSpecificationRef", TypeProductSpecification, productSpecificationPath),
		),
	},
	Name:         "productOffering",
	Path:         productOfferingPath,
	UpdatedField: "lastUpdate",
}

// ProductOfferingPrice はTMF620価格のテンプレート
var ProductOfferingPrice = &Kind{
	Shape: Shape{
		Type: TypeProductOfferingPrice,
		Fields: withLifecycle(
			Scalar("priceType", "recurring"),
			Scalar("recurringChargePeriodType", ""),
			Scalar("isBundle", false),
			Object("price", &Shape{Type: "Money"}, zeroMoney),
			RefList("pricingLogicAlgorithm", "PricingLogicAlgorithm", "", ""),
			RefList("popRelationship", "ProductOfferingPriceRelationship", TypeProductOfferingPrice, productOfferingPricePath),
		),
	},
	Name:         "productOfferingPrice",
	Path:         productOfferingPricePath,
	UpdatedField: "lastUpdate",
}

// ProductSpecification はTMF620商品仕様のテンプレート
var ProductSpecification = &Kind{
	Shape: Shape{
		Type: TypeProductSpecification,
		Fields: withLifecycle(
			Scalar("brand", ""),
			Scalar("productNumber", ""),
			Scalar("isBundle", false),
			ObjectList("productSpecCharacteristic", &Shape{
				Type: "CharacteristicSpecification",
				Fields: []Field{
					Scalar("name", ""),
					Scalar("valueType", "string"),
					Scalar("configurable", false),
					List("productSpecCharacteristicValue"),
				},
			}),
			RefList("relatedParty", "RelatedParty", "", ""),
			RefList("bundledProductSpecification", "BundledProductSpecification", TypeProductSpecification, productSpecificationPath),
		),
	},
	Name:         "productSpecification",
	Path:         productSpecificationPath,
	UpdatedField: "lastUpdate",
}

// Product はTMF637インベントリ商品のテンプレート
var Product = &Kind{
	Shape: Shape{
		Type: TypeProduct,
		Fields: []Field{
			Scalar("name", ""),
			Scalar("description", ""),
			Scalar("status", "created"),
			Scalar("isBundle", false),
			Scalar("startDate", nil),
			ObjectList("productPrice", &Shape{
				Type: "ProductPrice",
				Fields: []Field{
					Scalar("priceType", "recurring"),
					Object("price", &Shape{Type: "Price"}, func() map[string]any {
						return map[string]any{"taxIncludedAmount": zeroMoney()}
					}),
				},
			}),
			ObjectList("productCharacteristic", &Shape{Type: "Characteristic"}),
			RefList("relatedParty", "RelatedParty", "", ""),
			RefList("productOrderItem", "RelatedProductOrderItem", TypeProductOrder, productOrderPath),
			Ref("productOffering", "ProductOfferingRef", TypeProductOffering, productOfferingPath),
			Ref("productSpecification", "ProductSpecificationRef", TypeProductSpecification, productSpecificationPath),
		},
	},
	Name:         "product",
	Path:         productPath,
	CreatedField: "creationDate",
}
