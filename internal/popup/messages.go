package popup

import (
	"github.com/pfrederiksen/gora-search/internal/gora"
)

// User-facing messages, one per error kind.
const (
	MsgNotConfigured      = "APIキーが設定されていません。設定ページでAPIキーを入力してください。"
	MsgInvalidCredential  = "APIキーが無効です。設定ページで正しいApplication IDを入力してください。"
	MsgRateLimited        = "API利用制限に達しました。しばらく時間をおいてから再試行してください。"
	MsgTransport          = "ネットワークエラーが発生しました。インターネット接続を確認してください。"
	MsgMalformed          = "APIから予期しない応答がありました。しばらくしてから再試行してください。"
	MsgNoData             = "詳細情報が見つかりませんでした。"
	MsgDetailFetch        = "詳細情報の取得に失敗しました。"
	MsgReservationMissing = "予約URLが利用できません。"
	MsgGeneric            = "検索中にエラーが発生しました。"
)

var kindMessages = map[gora.Kind]string{
	gora.KindNotConfigured:         MsgNotConfigured,
	gora.KindInvalidCredential:     MsgInvalidCredential,
	gora.KindRateLimited:           MsgRateLimited,
	gora.KindTransport:             MsgTransport,
	gora.KindMalformed:             MsgMalformed,
	gora.KindNoData:                MsgNoData,
	gora.KindDetailFetch:           MsgDetailFetch,
	gora.KindReservationURLMissing: MsgReservationMissing,
}

// MessageFor maps err to the message shown to the user. Nil yields "".
func MessageFor(err error) string {
	if err == nil {
		return ""
	}
	if msg, ok := kindMessages[gora.KindOf(err)]; ok {
		return msg
	}
	return MsgGeneric
}
