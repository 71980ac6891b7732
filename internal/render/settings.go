package render

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const settingsTemplate = `<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<title>ゴルフ場検索 設定</title>
</head>
<body>
<div class="container">
  <h1>設定</h1>
  <form id="settingsForm">
    <label for="apiKey">楽天 Application ID</label>
    <div class="input-container">
      <input type="password" id="apiKey" name="apiKey" autocomplete="off">
    </div>
    <div class="form-actions">
      <button type="submit" id="saveBtn">保存</button>
      <button type="button" id="testBtn">接続テスト</button>
    </div>
  </form>
  <div id="status" class="status" hidden></div>
</div>
</body>
</html>`

// SettingsPage is the settings document. Like Page it is not safe for
// concurrent use.
type SettingsPage struct {
	doc *goquery.Document
}

// NewSettingsPage builds an empty settings page.
func NewSettingsPage() *SettingsPage {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(settingsTemplate))
	if err != nil {
		panic(fmt.Sprintf("render: parsing settings template: %v", err))
	}
	return &SettingsPage{doc: doc}
}

// SetAPIKey fills the credential input.
func (p *SettingsPage) SetAPIKey(value string) {
	p.doc.Find("#apiKey").SetAttr("value", value)
}

// APIKey returns the credential input's value.
func (p *SettingsPage) APIKey() string {
	return p.doc.Find("#apiKey").AttrOr("value", "")
}

// SetTesting disables the test button while a connection test runs.
func (p *SettingsPage) SetTesting(testing bool) {
	btn := p.doc.Find("#testBtn")
	if testing {
		btn.SetAttr("disabled", "")
	} else {
		btn.RemoveAttr("disabled")
	}
}

// ShowStatus replaces the status line with message.
func (p *SettingsPage) ShowStatus(message string, level StatusLevel) {
	showStatus(p.doc, message, level)
}

// ClearStatus hides the status line.
func (p *SettingsPage) ClearStatus() {
	clearStatus(p.doc)
}

// StatusText returns the visible status message, "" when hidden.
func (p *SettingsPage) StatusText() string {
	return statusText(p.doc)
}

// HTML renders the whole document.
func (p *SettingsPage) HTML() (string, error) {
	return p.doc.Html()
}
