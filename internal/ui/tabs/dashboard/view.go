package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/inference-gw/admin-tui/internal/ui/components"
	"github.com/inference-gw/admin-tui/internal/ui/styles"
)

// View renders the dashboard.
func (m *Model) View() string {
	if m.loading && !m.loaded {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderSummaryCard())
	sections = append(sections, m.renderVolumeCard())
	sections = append(sections, m.renderModelTotalsCard())
	sections = append(sections, m.renderRecentCard())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Request Analytics")
	subtitle := styles.HelpStyle.Render("Gateway traffic over the last 24 hours")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

func (m *Model) renderSummaryCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Totals"))

	if m.errMsg != "" {
		rows = append(rows, styles.ErrorTextStyle.Render(m.errMsg))
		return styles.CardStyle.Width(m.cardWidth()).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	agg := m.aggregate
	latency := "---"
	if agg.AvgDurationMs != nil {
		latency = fmt.Sprintf("%.0f ms", *agg.AvgDurationMs)
	}

	successStyle := styles.SuccessTextStyle
	if agg.SuccessRate < 0.95 {
		successStyle = styles.WarningTextStyle
	}

	stats := []string{
		m.renderStat("Requests", fmt.Sprintf("%d", agg.TotalRequests)),
		m.renderStat("Tokens", fmt.Sprintf("%d", agg.TotalTokens)),
		m.renderStat("Avg latency", latency),
		m.renderStat("Success", successStyle.Render(fmt.Sprintf("%.1f%%", agg.SuccessRate*100))),
		m.renderStat("Cost", fmt.Sprintf("%.2f cr", agg.TotalCost)),
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, stats...))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderStat(label, value string) string {
	l := lipgloss.NewStyle().Foreground(styles.TextMuted).Render(label)
	v := lipgloss.NewStyle().Foreground(styles.TextPrimary).Bold(true).Render(value)
	return lipgloss.NewStyle().MarginRight(3).Render(
		lipgloss.JoinVertical(lipgloss.Left, l, v),
	)
}

func (m *Model) renderVolumeCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Hourly Volume"))

	if len(m.volume) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No requests recorded yet"))
	} else {
		data := make([]float64, len(m.volume))
		for i, h := range m.volume {
			data[i] = float64(h.Requests)
		}
		chartWidth := max(m.cardWidth()-14, 20)
		rows = append(rows, components.RenderLineChart(data, chartWidth, 8, "requests/hour"))

		var errTotal int64
		for _, h := range m.volume {
			errTotal += h.ErrorCount
		}
		if errTotal > 0 {
			rows = append(rows, "")
			rows = append(rows, styles.WarningTextStyle.Render(
				fmt.Sprintf("%d failed requests in window", errTotal)))
		}
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderModelTotalsCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Requests per Model"))

	if len(m.totals) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No model traffic yet"))
	} else {
		values := make([]float64, 0, len(m.totals))
		labels := make([]string, 0, len(m.totals))
		for _, t := range m.totals {
			values = append(values, float64(t.Requests))
			labels = append(labels, t.Model)
		}
		rows = append(rows, components.RenderBarChart(values, labels, m.cardWidth()-6))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderRecentCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Recent Requests"))

	if len(m.recent) == 0 {
		rows = append(rows, styles.HelpStyle.Render("Nothing logged yet"))
	} else {
		header := fmt.Sprintf("%-16s  %-22s  %-5s  %8s  %10s",
			"TIME", "MODEL", "CODE", "LATENCY", "TOKENS")
		rows = append(rows, styles.TableHeaderStyle.Render(header))

		for _, r := range m.recent {
			code := fmt.Sprintf("%-5d", r.StatusCode)
			if r.StatusCode >= 400 {
				code = styles.ErrorTextStyle.Render(code)
			} else {
				code = styles.SuccessTextStyle.Render(code)
			}

			model := r.Model
			if len(model) > 22 {
				model = model[:19] + "..."
			}

			line := fmt.Sprintf("%-16s  %-22s  %s  %6dms  %10d",
				r.Timestamp.Format("01-02 15:04:05"),
				model,
				code,
				r.DurationMs,
				r.PromptTokens+r.CompletionTokens,
			)
			if r.BatchID != "" {
				line += "  " + styles.StatusNeutralStyle.Render("batch")
			}
			rows = append(rows, line)
		}
	}

	rows = append(rows, "")
	rows = append(rows, styles.HelpStyle.Render(strings.TrimSpace("s sync · r refresh")))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
