package domain

import "strings"

// NoMatch is returned by Classify when no keyword group matches.
const NoMatch = ""

// Symbols referenced outside the table.
const (
	SymbolConstruction = "🚧"
	SymbolElectrical   = "🔌"
	SymbolUnknown      = "❓"
)

// CauseGroup pairs a cause symbol with the keywords that select it.
type CauseGroup struct {
	Symbol   string
	Keywords []string
}

// CauseTable is the ordered cause classification table. Order is significant:
// earlier groups win when a reason contains keywords from several groups.
// Overlapping or repeated keywords within a group are kept as curated.
var CauseTable = []CauseGroup{
	{"👷", []string{"操作失誤", "看錯班表"}},
	{SymbolConstruction, []string{"施工", "工程", "挖土機", "怪手"}},
	{"👮", []string{"員警"}},
	{"🔥", []string{"火災", "起火", "消防救災"}},
	{"🔧", []string{"檢修", "查修", "遷移作業"}},
	{"✂️", []string{"剪"}},
	{"🌳", []string{"樹倒", "樹木", "大樹", "路樹"}},
	{"💥", []string{"氣爆", "爆炸"}},
	{"🙋", []string{"民眾", "不明人士"}},
	{"🚚", []string{"吊車"}},
	{"🌋", []string{"地震"}},
	{"🌀", []string{"颱風"}},
	{"🌪️", []string{"風"}},
	{"🏮", []string{"廟會"}},
	{"🤍👃🏻", []string{"白鼻心"}},
	{"🐦", []string{"鳥", "麻雀", "老鷹", "鸚鵡"}},
	{"🐿️", []string{"松鼠", "飛鼠"}},
	{"🐒", []string{"猴子"}},
	{"🥥", []string{"椰子"}},
	{"⛈︎", []string{"雷雨", "雷電"}},
	{"🐾", []string{"動物"}},
	{"🚗", []string{"車"}},
	{"🐍", []string{"蛇"}},
	{"🐈︎", []string{"貓"}},
	{"🐀", []string{"老鼠"}},
	{"🐜", []string{"白蟻"}},
	{"⚡", []string{"負載", "高壓", "電流", "過載", "避雷器"}},
	{"🧂", []string{"鹽害"}},
	{"⛰︎⚠️", []string{"落石", "公路崩坍"}},
	{SymbolElectrical, []string{"分支", "分歧", "跳脫", "故障", "地下", "機組", "線路", "匯流", "匯流", "保險絲", "饋線", "電桿", "電線桿", "變電所", "電廠", "電纜", "端頭", "熔絲", "開關"}},
	{"😷", []string{"懸浮微粒"}},
	{SymbolUnknown, []string{"不明"}},
}

// Classify maps a free-text outage reason to the symbol of the first group in
// CauseTable with a keyword contained in reason. It returns NoMatch otherwise.
func Classify(reason string) string {
	return ClassifyWith(CauseTable, reason)
}

// ClassifyWith applies the first-match rule of Classify to an arbitrary table.
func ClassifyWith(table []CauseGroup, reason string) string {
	for _, g := range table {
		for _, kw := range g.Keywords {
			if strings.Contains(reason, kw) {
				return g.Symbol
			}
		}
	}
	return NoMatch
}

// ReasonSymbol classifies the record's reason, returning NoMatch when the
// record has none.
func (r OutageRecord) ReasonSymbol() string {
	if r.Reason == nil {
		return NoMatch
	}
	return Classify(*r.Reason)
}
