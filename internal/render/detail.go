package render

import (
	"github.com/pfrederiksen/gora-search/internal/gora"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TriggerState is what the "get details" button shows.
type TriggerState int

const (
	TriggerIdle TriggerState = iota
	TriggerFetching
	TriggerDone
	TriggerFailed
)

// Labels for the non-idle trigger states.
const (
	LabelFetching = "取得中..."
	LabelDone     = "詳細表示済み"
	LabelFailed   = "取得失敗"
)

func (s TriggerState) label() string {
	switch s {
	case TriggerFetching:
		return LabelFetching
	case TriggerDone:
		return LabelDone
	case TriggerFailed:
		return LabelFailed
	default:
		return LabelGetDetails
	}
}

func (s TriggerState) className() string {
	switch s {
	case TriggerFetching:
		return "get-details-btn loading"
	case TriggerDone:
		return "get-details-btn done"
	case TriggerFailed:
		return "get-details-btn failed"
	default:
		return "get-details-btn"
	}
}

// SetTrigger updates the entry's detail button. Every state but idle
// disables it. Returns false when the entry is gone.
func (p *Page) SetTrigger(id string, state TriggerState) bool {
	item := p.findItem(id)
	if item.Length() == 0 {
		return false
	}

	btn := item.Find(".get-details-btn")
	btn.SetText(state.label())
	btn.SetAttr("class", state.className())
	if state == TriggerIdle {
		btn.RemoveAttr("disabled")
	} else {
		btn.SetAttr("disabled", "")
	}
	return true
}

// MergeDetail appends the detail block to the entry's existing details. The
// entry's current content is kept. Returns false, changing nothing, when the
// entry is no longer rendered.
func (p *Page) MergeDetail(id string, d *gora.CourseDetail) bool {
	if d == nil {
		return false
	}
	item := p.findItem(id)
	if item.Length() == 0 {
		return false
	}

	item.Find(".course-details").AppendNodes(detailBlock(d))
	return true
}

// DetailRow is one labeled line of the detail block.
type DetailRow struct {
	Label string
	Value string
}

// DetailRows lists the detail block's lines in display order. Missing values
// read "不明".
func DetailRows(d *gora.CourseDetail) []DetailRow {
	return []DetailRow{
		{"コース名", OrUnknown(d.CourseName)},
		{"ホール数", withSuffix(d.HoleCount, "ホール")},
		{"パー", OrUnknown(d.Par)},
		{"コース長", OrUnknown(d.CourseDistance)},
		{"料金（平日）", FormatYen(d.WeekdayMinPrice)},
		{"料金（休日）", FormatYen(d.HolidayMinPrice)},
		{"コースタイプ", OrUnknown(d.CourseType)},
		{"グリーン", OrUnknown(d.Green)},
		{"設計者", OrUnknown(d.Designer)},
		{"評価（総合）", OrUnknown(d.Evaluation)},
		{"評価（スタッフ）", OrUnknown(d.Staff)},
		{"評価（設備）", OrUnknown(d.Facility)},
		{"評価（食事）", OrUnknown(d.Meal)},
		{"評価（コース）", OrUnknown(d.Course)},
		{"評価（コスパ）", OrUnknown(d.CostPerformance)},
		{"評価（距離）", OrUnknown(d.Distance)},
		{"評価（フェアウェイ）", OrUnknown(d.Fairway)},
		{"練習場", OrUnknown(d.PracticeFacility)},
		{"最寄りIC", OrUnknown(d.IC) + " (" + OrUnknown(d.ICDistance) + ")"},
	}
}

func detailBlock(d *gora.CourseDetail) *html.Node {
	block := el(atom.Div, class("course-extended"))
	for _, row := range DetailRows(d) {
		block.AppendChild(labeled(row.Label, row.Value))
	}
	return block
}
