package service

import (
	"strings"

	"github.com/google/uuid"
)

// defaultRefID は参照のhref生成時にidがない場合の代替値
const defaultRefID = "1"

// Locator は公開URL・ベースパス・リソースパスからhrefを組み立てる
type Locator struct {
	prefix string
}

// NewLocator は <publicURL><basePath>/<path>/<id> を生成するLocatorを作成
func NewLocator(publicURL, basePath string) Locator {
	prefix := strings.TrimRight(publicURL, "/")
	if base := strings.Trim(basePath, "/"); base != "" {
		prefix += "/" + base
	}
	return Locator{prefix: prefix}
}

// Href はpath配下のリソースidのhrefを返す
func (l Locator) Href(path, id string) string {
	return l.prefix + "/" + strings.Trim(path, "/") + "/" + id
}

// IDGenerator は新規リソースのIDを生成する
type IDGenerator func() string

// NewUUID はデフォルトのIDGenerator
func NewUUID() string {
	return uuid.NewString()
}
