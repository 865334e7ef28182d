package view

var _ Viewer = (*HumanView)(nil)
var _ Viewer = (*JSONView)(nil)

// Viewer hands out the logger and the per-command views for the selected
// output format. Commands pick their view off the viewer rather than
// switching on its concrete type.
type Viewer interface {
	Logger() Logger
	ValidateView() ValidateView
	InspectView() InspectView
}

func NewViewer(vt ViewType, s *Stream, level LogLevel) Viewer {
	switch vt {
	case ViewHuman:
		return NewHumanView(s, level)
	case ViewJSON:
		return NewJSONView(s, level)
	default:
		panic("unknown view type")
	}
}

type HumanView struct {
	*Stream
	logger Logger
}

func NewHumanView(s *Stream, level LogLevel) *HumanView {
	return &HumanView{
		Stream: s,
		logger: NewHumanLogger(s.Writer, level),
	}
}

func (h *HumanView) Logger() Logger { return h.logger }

func (h *HumanView) ValidateView() ValidateView { return &validateHumanView{HumanView: h} }

func (h *HumanView) InspectView() InspectView { return &inspectHumanView{HumanView: h} }

type JSONView struct {
	*Stream
	logger Logger
}

func NewJSONView(s *Stream, level LogLevel) *JSONView {
	return &JSONView{
		Stream: s,
		logger: NewJSONLogger(s.Writer, level),
	}
}

func (j *JSONView) Logger() Logger { return j.logger }

func (j *JSONView) ValidateView() ValidateView { return &validateJSONView{JSONView: j} }

func (j *JSONView) InspectView() InspectView { return &inspectJSONView{JSONView: j} }
