package render

import (
	"github.com/pfrederiksen/gora-search/internal/gora"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholders shown for absent values.
const (
	Unknown     = "不明"
	UnknownName = "名称不明"
)

var yen = message.NewPrinter(language.Japanese)

// OrUnknown renders v, or Unknown when the API left it out.
func OrUnknown(v gora.Value) string {
	if !v.IsSet() {
		return Unknown
	}
	return v.String()
}

// FormatYen renders a price with thousands separators ("¥8,000"). Non-numeric
// values are shown as sent; absent ones as Unknown.
func FormatYen(v gora.Value) string {
	n, ok := v.Int()
	if !ok {
		return OrUnknown(v)
	}
	return yen.Sprintf("¥%d", n)
}

// DisplayName is the course name, then the kana reading, then UnknownName.
func DisplayName(item gora.SearchResultItem) string {
	if name := gora.FirstSet(item.Name, item.NameKana); name.IsSet() {
		return name.String()
	}
	return UnknownName
}

// withSuffix appends suffix to present values only.
func withSuffix(v gora.Value, suffix string) string {
	if !v.IsSet() {
		return Unknown
	}
	return v.String() + suffix
}
