package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/inference-gw/admin-tui/internal/logger"
	"github.com/inference-gw/admin-tui/internal/ui/styles"
)

type AnimationTickMsg time.Time

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*50, func(t time.Time) tea.Msg {
		return AnimationTickMsg(t)
	})
}

// BatchBar renders a batch completion bar with label and request counts.
type BatchBar struct {
	progress       progress.Model
	label          string
	percent        float64
	isAnimating    bool
	targetPercent  float64
	currentPercent float64
}

// NewBatchBar creates a new batch progress bar with gradient colors.
func NewBatchBar() BatchBar {
	return NewBatchBarWithWidth(30)
}

// NewBatchBarWithWidth creates a batch bar with a specific width.
func NewBatchBarWithWidth(width int) BatchBar {
	p := progress.New(
		progress.WithScaledGradient("#ffd93d", "#51cf66"),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)

	return BatchBar{
		progress: p,
	}
}

// Init initializes the progress bar model.
func (b BatchBar) Init() tea.Cmd {
	return nil
}

// Update handles progress bar animation messages.
func (b BatchBar) Update(msg tea.Msg) (BatchBar, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.(type) {
	case AnimationTickMsg:
		if b.isAnimating {
			if b.currentPercent < b.targetPercent {
				step := (b.targetPercent - b.currentPercent) / 10
				if step < 0.5 {
					step = 0.5
				}
				b.currentPercent += step
				if b.currentPercent > b.targetPercent {
					b.currentPercent = b.targetPercent
				}
				cmds = append(cmds, animationTick())
			} else if b.currentPercent > b.targetPercent {
				step := (b.currentPercent - b.targetPercent) / 10
				if step < 0.5 {
					step = 0.5
				}
				b.currentPercent -= step
				if b.currentPercent < b.targetPercent {
					b.currentPercent = b.targetPercent
				}
				cmds = append(cmds, animationTick())
			} else {
				b.isAnimating = false
			}
		}
	}

	var cmd tea.Cmd
	model, cmd := b.progress.Update(msg)
	b.progress = model.(progress.Model)
	cmds = append(cmds, cmd)

	return b, tea.Batch(cmds...)
}

// SetPercent sets the current percentage and starts the animation toward it.
func (b *BatchBar) SetPercent(percent float64) tea.Cmd {
	b.percent = percent
	b.targetPercent = percent

	if !b.isAnimating {
		b.isAnimating = true
		return tea.Batch(
			b.progress.SetPercent(percent/100),
			animationTick(),
		)
	}

	return b.progress.SetPercent(percent / 100)
}

// SetLabel sets the bar label.
func (b *BatchBar) SetLabel(label string) {
	b.label = label
}

// SetWidth sets the progress bar width.
func (b *BatchBar) SetWidth(width int) {
	b.progress.Width = width
}

// ViewCounts renders the bar from completed/failed/total request counts.
func (b BatchBar) ViewCounts(completed, failed, total int64, width int) string {
	countStr := fmt.Sprintf("%d/%d", completed, total)
	countWidth := len(countStr) + 1
	if failed > 0 {
		countWidth += len(fmt.Sprintf(" (%d failed)", failed))
	}

	barWidth := width - countWidth - 4
	if barWidth < 10 {
		barWidth = 10
	}
	b.progress.Width = barWidth

	percent := 0.0
	if total > 0 {
		percent = float64(completed) / float64(total)
	}
	bar := b.progress.ViewAs(percent)

	countRendered := lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(countStr)
	if failed > 0 {
		countRendered += styles.ErrorTextStyle.Render(fmt.Sprintf(" (%d failed)", failed))
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, bar, " ", countRendered)
}

// ViewCompact renders the bar with a trailing percentage.
func (b BatchBar) ViewCompact(percent float64, width int) string {
	barWidth := width - 8
	if barWidth < 5 {
		barWidth = 5
	}
	b.progress.Width = barWidth

	bar := b.progress.ViewAs(percent / 100)
	percentStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(fmt.Sprintf("%.0f%%", percent))

	return lipgloss.JoinHorizontal(lipgloss.Center, bar, " ", percentStr)
}

// RenderGradientBar renders just the bar characters with gradient colors.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	var barChars []string
	for i := 0; i < width; i++ {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor("#ffd93d", "#51cf66", t)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			barChars = append(barChars, style.Render("█"))
		} else {
			style := lipgloss.NewStyle().Foreground(styles.Subtle)
			barChars = append(barChars, style.Render("░"))
		}
	}

	return strings.Join(barChars, "")
}

// SimpleProgressBar renders a labelled ASCII progress bar with gradient colors.
func SimpleProgressBar(percent float64, label string, width int) string {
	labelWidth := len(label) + 1
	percentWidth := 6
	barWidth := width - labelWidth - percentWidth - 4

	if barWidth < 5 {
		barWidth = 5
	}

	bar := RenderGradientBar(percent, barWidth)

	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(label)

	percentStr := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Width(percentWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", percent))

	return fmt.Sprintf("%s [%s] %s", labelStr, bar, percentStr)
}

// SimpleBarLoading renders a shimmering placeholder bar while data loads.
func SimpleBarLoading(width int, frame int) string {
	const (
		indentWidth = 4
		rightWidth  = 6
	)

	barWidth := width - indentWidth - rightWidth - 4
	if barWidth < 10 {
		barWidth = 10
	}

	cycle := 120
	t := float64(frame%cycle) / float64(cycle)
	var p float64
	if t < 0.5 {
		p = t * 2
	} else {
		p = (1 - t) * 2
	}
	eased := p * p * (3 - 2*p)
	shimmerPos := int(eased * float64(barWidth))

	var barChars []string
	for i := 0; i < barWidth; i++ {
		dist := shimmerPos - i
		if dist < 0 {
			dist = -dist
		}

		var char string
		var style lipgloss.Style

		if dist < 3 {
			char = "▓"
			style = lipgloss.NewStyle().Foreground(styles.Primary)
		} else if dist < 5 {
			char = "▒"
			style = lipgloss.NewStyle().Foreground(styles.TextSecondary)
		} else {
			char = "░"
			style = lipgloss.NewStyle().Foreground(styles.BgLight)
		}

		barChars = append(barChars, style.Render(char))
	}

	bar := strings.Join(barChars, "")

	dots := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	dot := dots[(frame/2)%len(dots)]

	loadingStr := lipgloss.NewStyle().
		Width(rightWidth).
		Align(lipgloss.Right).
		Foreground(styles.Primary).
		Render(dot)

	return lipgloss.JoinHorizontal(lipgloss.Left, "    ", bar, " ", loadingStr)
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
