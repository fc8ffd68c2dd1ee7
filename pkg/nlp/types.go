package nlp

type SegmentKind int

const (
	KindText SegmentKind = iota
	KindBold
	KindListItem
	KindLineBreak
)

// Segment is one node of a parsed bot answer. Answers from the NLP
// service carry lightweight markup: **bold** spans and numbered or
// bulleted lines.
type Segment struct {
	Kind    SegmentKind
	Content string
}
