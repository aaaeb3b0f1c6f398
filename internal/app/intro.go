package app

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// IntroModel animates the logo on the sign-in screen: letters slide in from
// the left, overshoot and settle while fading into the amber gradient.
type IntroModel struct {
	Active    bool
	Done      bool
	StartTime time.Time
	Letters   []*IntroLetter
}

// IntroLetter is one animated character of the logo.
type IntroLetter struct {
	Char     rune
	TargetX  float64
	CurrentX float64

	Overshoot     float64
	ReachedTarget bool

	StartColor   RGB
	EndColor     RGB
	CurrentColor RGB

	Delay time.Duration
}

// RGB is a color with float channels for interpolation.
type RGB struct {
	R, G, B float64
}

func hexToRGB(hex string) RGB {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b uint8
	_, _ = fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	return RGB{float64(r), float64(g), float64(b)}
}

func (c RGB) lerp(to RGB, t float64) RGB {
	return RGB{
		R: c.R + t*(to.R-c.R),
		G: c.G + t*(to.G-c.G),
		B: c.B + t*(to.B-c.B),
	}
}

func (c RGB) color() lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", int(c.R), int(c.G), int(c.B)))
}

// Honeycomb palette the letters start from.
var introStartColors = []string{"#FDE68A", "#FCD34D", "#FBBF24", "#A16207", "#78350F", "#FEF3C7"}

// NewIntroModel prepares the animation for text.
func NewIntroModel(text string) IntroModel {
	runes := []rune(text)
	from, to := hexToRGB("#F59E0B"), hexToRGB("#B45309")

	letters := make([]*IntroLetter, len(runes))
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		start := hexToRGB(introStartColors[i%len(introStartColors)])
		letters[i] = &IntroLetter{
			Char:         r,
			TargetX:      float64(i),
			CurrentX:     -12.0 - float64(i)*6.0,
			Overshoot:    float64(i) + 0.6,
			StartColor:   start,
			EndColor:     from.lerp(to, t),
			CurrentColor: start,
			Delay:        time.Duration(i) * 80 * time.Millisecond,
		}
	}
	return IntroModel{Active: true, Letters: letters}
}

// Update advances the animation by dt.
func (m *IntroModel) Update(dt time.Duration) {
	if !m.Active || m.Done {
		return
	}
	if m.StartTime.IsZero() {
		m.StartTime = time.Now()
	}
	elapsed := time.Since(m.StartTime)

	settled := true
	for _, l := range m.Letters {
		if elapsed < l.Delay {
			settled = false
			continue
		}

		target, speed := l.TargetX, 5.0
		if !l.ReachedTarget {
			target, speed = l.Overshoot, 30.0
			if l.CurrentX >= l.Overshoot-0.1 {
				l.ReachedTarget = true
			}
		}

		dist := target - l.CurrentX
		move := dist * 6.0 * dt.Seconds()
		if floor := speed * dt.Seconds(); math.Abs(dist) > 0.1 && math.Abs(move) < floor {
			move = math.Copysign(floor, dist)
		}
		if math.Abs(move) > math.Abs(dist) {
			move = dist
		}
		l.CurrentX += move
		l.CurrentColor = l.CurrentColor.lerp(l.EndColor, math.Min(1, 3.0*dt.Seconds()))

		if !l.ReachedTarget || math.Abs(l.TargetX-l.CurrentX) >= 0.1 ||
			math.Abs(l.EndColor.R-l.CurrentColor.R) >= 1.0 {
			settled = false
		}
	}

	if settled {
		for _, l := range m.Letters {
			l.CurrentX = l.TargetX
			l.CurrentColor = l.EndColor
		}
		m.Done = true
	}
}

// View renders the letters at their rounded positions.
func (m IntroModel) View() string {
	if !m.Active {
		return ""
	}
	buf := make([]string, len(m.Letters))
	for i := range buf {
		buf[i] = " "
	}
	for _, l := range m.Letters {
		x := int(math.Round(l.CurrentX))
		if x >= 0 && x < len(buf) {
			buf[x] = lipgloss.NewStyle().Foreground(l.CurrentColor.color()).Bold(true).Render(string(l.Char))
		}
	}
	return strings.Join(buf, "")
}

// IntroTickMsg is sent to update the animation frame.
type IntroTickMsg time.Time

// IntroTick schedules the next animation frame.
func IntroTick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg {
		return IntroTickMsg(t)
	})
}
