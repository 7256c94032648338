package deployments

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/inference-gw/admin-tui/internal/ui/components"
	"github.com/inference-gw/admin-tui/internal/ui/styles"
)

// View renders the models tab.
func (m *Model) View() string {
	if m.loading && !m.loaded {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	if m.detail != nil {
		return styles.DocStyle.Width(m.width).Render(m.renderDetail())
	}

	sections := []string{
		m.renderHeader(),
		m.renderList(),
		m.renderEndpointsCard(),
		m.renderFooter(),
	}

	return styles.DocStyle.Width(m.width).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("Models")

	host := hostFilters[m.hostIdx]
	if host == "" {
		return title
	}
	filter := styles.HelpStyle.Render("host: ") + styles.InfoTextStyle.Render(host)
	return lipgloss.JoinVertical(lipgloss.Left, title, filter, "")
}

func (m *Model) renderList() string {
	var rows []string

	if len(m.page.Data) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No deployments found"))
		return styles.CardStyle.Width(m.cardWidth()).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	header := fmt.Sprintf("  %-22s  %-26s  %-10s  %-8s  %s",
		"ALIAS", "MODEL", "HOST", "GROUPS", "TARIFF in/out")
	rows = append(rows, styles.TableHeaderStyle.Render(header))

	for i, d := range m.page.Data {
		tariff := "---"
		if d.InputTariff != nil && d.OutputTariff != nil {
			tariff = fmt.Sprintf("%.2f/%.2f", *d.InputTariff, *d.OutputTariff)
		}

		line := fmt.Sprintf("%-22s  %-26s  %-10s  %-8d  %s",
			truncate(d.Alias, 22),
			truncate(d.ModelName, 26),
			truncate(d.HostedOn, 10),
			len(d.Groups),
			tariff,
		)

		if i == m.selected {
			rows = append(rows, styles.SelectedListItemStyle.String()+styles.TableSelectedStyle.Render(line))
		} else {
			rows = append(rows, "  "+line)
		}
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderEndpointsCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Endpoints"))

	if len(m.endpoints.Data) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No endpoints registered"))
	} else {
		for _, e := range m.endpoints.Data {
			auth := styles.StatusNeutralStyle.Render("open")
			if e.RequiresAPIKey {
				auth = styles.StatusPendingStyle.Render("keyed")
			}
			rows = append(rows, fmt.Sprintf("%-20s  %-40s  %s",
				truncate(e.Name, 20),
				truncate(e.URL, 40),
				auth,
			))
		}
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderFooter() string {
	totalPages := m.page.TotalPages()
	if totalPages == 0 {
		totalPages = 1
	}
	current := m.skip/pageSize + 1

	return styles.HelpStyle.Render(fmt.Sprintf(
		"page %d/%d · %d models · f filter host", current, totalPages, m.page.TotalCount))
}

func (m *Model) renderDetail() string {
	d := m.detail

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render(d.Alias))
	rows = append(rows, renderField("Model", d.ModelName))
	rows = append(rows, renderField("Hosted on", d.HostedOn))
	rows = append(rows, renderField("ID", d.ID))
	if d.Description != "" {
		rows = append(rows, renderField("Description", d.Description))
	}
	if len(d.Capabilities) > 0 {
		rows = append(rows, renderField("Capabilities", strings.Join(d.Capabilities, ", ")))
	}
	if d.InputTariff != nil {
		rows = append(rows, renderField("Input tariff", fmt.Sprintf("%.2f cr/Mtok", *d.InputTariff)))
	}
	if d.OutputTariff != nil {
		rows = append(rows, renderField("Output tariff", fmt.Sprintf("%.2f cr/Mtok", *d.OutputTariff)))
	}
	rows = append(rows, renderField("Created", d.CreatedAt.Format("2006-01-02 15:04")))

	profile := styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)

	sections := []string{
		styles.TitleStyle.Render("Model Details"),
		profile,
	}

	if d.Metrics != nil {
		sections = append(sections, m.renderMetricsCard())
	}
	sections = append(sections, m.renderGroupsCard())
	sections = append(sections, styles.HelpStyle.Render("esc back"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderMetricsCard() string {
	mt := m.detail.Metrics

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Usage"))

	latency := "---"
	if mt.AvgLatencyMs != nil {
		latency = fmt.Sprintf("%.0f ms", *mt.AvgLatencyMs)
	}

	rows = append(rows, renderField("Requests", fmt.Sprintf("%d", mt.TotalRequests)))
	rows = append(rows, renderField("Tokens", fmt.Sprintf("%d", mt.TotalTokens)))
	rows = append(rows, renderField("Avg latency", latency))
	rows = append(rows, renderField("Req/day", fmt.Sprintf("%.1f", mt.RequestsPerDay)))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderGroupsCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Access Groups"))

	if len(m.detail.Groups) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No groups granted access"))
	}
	for _, g := range m.detail.Groups {
		line := g.Name
		if g.Description != "" {
			line += "  " + styles.HelpStyle.Render(truncate(g.Description, 40))
		}
		rows = append(rows, line)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func renderField(label, value string) string {
	l := lipgloss.NewStyle().Foreground(styles.TextMuted).Width(15).Render(label)
	return l + value
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
