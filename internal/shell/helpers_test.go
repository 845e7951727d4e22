package shell

import (
	"errors"
	"io"
	"log/slog"

	"efgh-desktop/internal/geometry"
)

// fakeWindow 记录所有调用顺序的窗口假实现
type fakeWindow struct {
	calls  []string
	events []fakeEvent
	posX   int
	posY   int
	width  int
	height int
}

type fakeEvent struct {
	name string
	data any
}

func (w *fakeWindow) Show()    { w.calls = append(w.calls, "Show") }
func (w *fakeWindow) Hide()    { w.calls = append(w.calls, "Hide") }
func (w *fakeWindow) Focus()   { w.calls = append(w.calls, "Focus") }
func (w *fakeWindow) Restore() { w.calls = append(w.calls, "Restore") }

func (w *fakeWindow) SetSize(width, height int) {
	w.calls = append(w.calls, "SetSize")
	w.width, w.height = width, height
}

func (w *fakeWindow) SetPosition(x, y int) {
	w.calls = append(w.calls, "SetPosition")
	w.posX, w.posY = x, y
}

func (w *fakeWindow) EmitEvent(name string, data any) {
	w.calls = append(w.calls, "EmitEvent:"+name)
	w.events = append(w.events, fakeEvent{name: name, data: data})
}

func (w *fakeWindow) countCall(name string) int {
	n := 0
	for _, c := range w.calls {
		if c == name {
			n++
		}
	}
	return n
}

// fakeRegistry 按名创建 fakeWindow，可注入若干次失败
type fakeRegistry struct {
	windows  map[string]*fakeWindow
	created  int
	failures int
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{windows: map[string]*fakeWindow{}}
}

func (r *fakeRegistry) Window(name string) (Window, error) {
	if r.failures > 0 {
		r.failures--
		return nil, errors.New("窗口运行时暂不可用")
	}
	if w, ok := r.windows[name]; ok {
		return w, nil
	}
	w := &fakeWindow{}
	r.windows[name] = w
	r.created++
	return w, nil
}

// fakeScreens 固定显示器列表
type fakeScreens struct {
	displays []geometry.Rect
}

func (s *fakeScreens) Displays() []geometry.Rect {
	return s.displays
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPopup(registry *fakeRegistry, screens *fakeScreens) *PopupMenu {
	if screens == nil {
		screens = &fakeScreens{displays: []geometry.Rect{{X: 0, Y: 0, Width: 1920, Height: 1080}}}
	}
	return NewPopupMenu(registry, screens, geometry.Size{Width: 236, Height: 244}, 8, testLogger())
}
