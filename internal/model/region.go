package model

// RegionStyle はコメント領域の囲み方を表します。
type RegionStyle string

const (
	StyleLine             RegionStyle = "line"
	StyleBlock            RegionStyle = "block"
	StyleDoubleQuoteBlock RegionStyle = "double-quote block"
	StyleSingleQuoteBlock RegionStyle = "single-quote block"
)

// IsBlock は複数行にまたがり得る囲み方かどうかを返します。
func (s RegionStyle) IsBlock() bool {
	return s != StyleLine
}

// Span は 1 件の検出範囲を行・桁・バイトオフセットで表します。
type Span struct {
	StartLine int `json:"start_line"`
	StartCol  int `json:"start_col"`
	EndLine   int `json:"end_line"`
	EndCol    int `json:"end_col"`
	ByteStart int `json:"byte_start"`
	ByteEnd   int `json:"byte_end"`
}

// Region はソース中のコメント領域 1 件を表します。
//
// Raw は開始・終了マーカーを含む原文、Body はマーカーを除いた本文です。
// 終端のないブロックでは Closer は空になります。
type Region struct {
	File   string      `json:"file"`
	Lang   string      `json:"lang,omitempty"`
	Style  RegionStyle `json:"style"`
	Opener string      `json:"opener"`
	Closer string      `json:"closer,omitempty"`
	Raw    string      `json:"raw"`
	Body   string      `json:"body"`
	Lines  []string    `json:"lines"`
	Span   Span        `json:"span"`
}

// Line は領域の開始行 (1 始まり) を返します。
func (r Region) Line() int {
	return r.Span.StartLine
}

// Occurrence はコメント領域内で見つかったタグ 1 件を表します。
type Occurrence struct {
	Marker     string `json:"marker"`
	ID         string `json:"id,omitempty"`
	Text       string `json:"text,omitempty"`
	WellFormed bool   `json:"well_formed"`
	Region     Region `json:"region"`
}
