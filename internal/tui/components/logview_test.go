package components

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// filled returns a LogView of the given height holding n numbered lines.
func filled(height, n int) LogView {
	lv := NewLogView(80, height)
	for i := 0; i < n; i++ {
		lv = lv.AppendLine(fmt.Sprintf("step %02d", i+1))
	}
	return lv
}

func TestLogView_Defaults(t *testing.T) {
	lv := NewLogView(80, 24)
	if !lv.Following() {
		t.Error("a new LogView should follow")
	}
	if lv.Len() != 0 || lv.maxLines != DefaultMaxLines {
		t.Errorf("len=%d maxLines=%d", lv.Len(), lv.maxLines)
	}
	_ = lv.View() // empty view must not panic
}

func TestLogView_FollowShowsNewestLines(t *testing.T) {
	lv := filled(3, 10)
	view := lv.View()
	if !strings.Contains(view, "step 10") {
		t.Errorf("following view should end at the newest line, got %q", view)
	}
	if strings.Contains(view, "step 01") {
		t.Errorf("oldest line should be scrolled out of a 3-row view, got %q", view)
	}
}

func TestLogView_SetSizeResizesViewport(t *testing.T) {
	lv := filled(3, 10).SetSize(120, 30)
	if lv.vp.Width != 120 || lv.vp.Height != 30 {
		t.Errorf("viewport = %dx%d, want 120x30", lv.vp.Width, lv.vp.Height)
	}
	if !strings.Contains(lv.View(), "step 01") {
		t.Error("all ten lines should fit after growing to 30 rows")
	}
}

func TestLogView_ToggleFollow(t *testing.T) {
	lv := filled(3, 10)
	lv.vp.GotoTop()

	lv = lv.ToggleFollow()
	if lv.Following() {
		t.Fatal("first toggle should turn follow off")
	}
	lv = lv.ToggleFollow()
	if !lv.Following() || !lv.vp.AtBottom() {
		t.Error("turning follow back on should jump to the bottom")
	}
}

func TestLogView_Update(t *testing.T) {
	up := tea.KeyMsg{Type: tea.KeyUp}
	tests := []struct {
		name       string
		height     int
		lines      int
		scrollTop  bool
		followOff  bool
		msg        tea.Msg
		wantFollow bool
	}{
		{name: "key scroll away from bottom", height: 2, lines: 20, scrollTop: true, msg: up, wantFollow: false},
		{name: "wheel away from bottom", height: 2, lines: 20, scrollTop: true, msg: tea.MouseMsg{Button: tea.MouseButtonWheelUp}, wantFollow: false},
		{name: "resize does not leave follow", height: 2, lines: 20, scrollTop: true, msg: tea.WindowSizeMsg{Width: 80, Height: 2}, wantFollow: true},
		{name: "content fits the view", height: 50, lines: 3, msg: up, wantFollow: true},
		{name: "follow stays off", height: 2, lines: 20, scrollTop: true, followOff: true, msg: up, wantFollow: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lv := filled(tt.height, tt.lines)
			if tt.followOff {
				lv = lv.ToggleFollow()
			}
			if tt.scrollTop {
				lv.vp.GotoTop()
			}
			got, _ := lv.Update(tt.msg)
			if got.Following() != tt.wantFollow {
				t.Errorf("Following() = %v, want %v", got.Following(), tt.wantFollow)
			}
		})
	}
}

func TestLogView_MaxLines(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		appended int
		wantLen  int
		wantHead string
	}{
		{name: "drops oldest", limit: 3, appended: 10, wantLen: 3, wantHead: "step 08"},
		{name: "under the limit", limit: 5, appended: 2, wantLen: 2, wantHead: "step 01"},
		{name: "unbounded", limit: 0, appended: DefaultMaxLines + 5, wantLen: DefaultMaxLines + 5, wantHead: "step 01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lv := NewLogView(80, 5).WithMaxLines(tt.limit)
			for i := 0; i < tt.appended; i++ {
				lv = lv.AppendLine(fmt.Sprintf("step %02d", i+1))
			}
			if lv.Len() != tt.wantLen {
				t.Fatalf("Len() = %d, want %d", lv.Len(), tt.wantLen)
			}
			if lv.lines[0] != tt.wantHead {
				t.Errorf("oldest kept line = %q, want %q", lv.lines[0], tt.wantHead)
			}
		})
	}

	t.Run("lowering the limit trims existing lines", func(t *testing.T) {
		lv := filled(5, 5).WithMaxLines(2)
		if lv.Len() != 2 || lv.lines[0] != "step 04" {
			t.Errorf("after WithMaxLines(2): %v", lv.lines)
		}
	})
}
