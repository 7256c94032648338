package users

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/inference-gw/admin-tui/internal/models"
	"github.com/inference-gw/admin-tui/internal/ui/components"
	"github.com/inference-gw/admin-tui/internal/ui/styles"
)

// View renders the users tab.
func (m *Model) View() string {
	if m.loading && !m.loaded {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	if m.detail != nil {
		return styles.DocStyle.Width(m.width).Render(m.renderDetail())
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderList())
	if m.creating {
		prompt := lipgloss.JoinVertical(lipgloss.Left,
			styles.CardTitleStyle.Render("New user"),
			m.create.View(),
		)
		sections = append(sections, styles.FocusedBorderStyle.Render(prompt))
	}
	sections = append(sections, m.renderFooter())

	return styles.DocStyle.Width(m.width).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("Users")

	var search string
	if m.searching {
		search = styles.FocusedBorderStyle.Render(m.search.View())
	} else if m.query != "" {
		search = styles.BlurredBorderStyle.Render("filter: " + m.query)
	}

	if search == "" {
		return title
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, search, "")
}

func (m *Model) renderList() string {
	var rows []string

	if len(m.page.Data) == 0 {
		empty := "No users found"
		if m.query != "" {
			empty = fmt.Sprintf("No users matching %q", m.query)
		}
		rows = append(rows, styles.HelpStyle.Render(empty))
		return styles.CardStyle.Width(m.cardWidth()).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	header := fmt.Sprintf("  %-20s  %-28s  %-8s  %10s  %s",
		"USERNAME", "EMAIL", "GROUPS", "CREDITS", "")
	rows = append(rows, styles.TableHeaderStyle.Render(header))

	for i, u := range m.page.Data {
		balance := "---"
		if u.CreditBalance != nil {
			balance = fmt.Sprintf("%.2f", *u.CreditBalance)
		}

		line := fmt.Sprintf("%-20s  %-28s  %-8d  %10s",
			truncate(u.Username, 20),
			truncate(u.Email, 28),
			len(u.Groups),
			balance,
		)
		if u.IsAdmin {
			line += "  " + styles.AdminBadgeStyle.Render("admin")
		}

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

func (m *Model) renderFooter() string {
	totalPages := m.page.TotalPages()
	if totalPages == 0 {
		totalPages = 1
	}
	current := m.skip/pageSize + 1

	pager := fmt.Sprintf("page %d/%d · %d users", current, totalPages, m.page.TotalCount)
	return styles.HelpStyle.Render(pager)
}

func (m *Model) renderDetail() string {
	u := m.detail

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render(u.Username))

	name := u.DisplayName
	if name == "" {
		name = "---"
	}
	rows = append(rows, renderField("Email", u.Email))
	rows = append(rows, renderField("Display name", name))
	rows = append(rows, renderField("ID", u.ID))
	rows = append(rows, renderField("Created", u.CreatedAt.Format("2006-01-02 15:04")))

	lastLogin := "never"
	if u.LastLogin != nil {
		lastLogin = u.LastLogin.Format("2006-01-02 15:04")
	}
	rows = append(rows, renderField("Last login", lastLogin))

	if u.IsAdmin {
		rows = append(rows, renderField("Access", styles.AdminBadgeStyle.Render("admin")))
	}
	if len(u.Roles) > 0 {
		roles := make([]string, len(u.Roles))
		for i, r := range u.Roles {
			roles[i] = string(r)
		}
		rows = append(rows, renderField("Roles", strings.Join(roles, ", ")))
	}
	if u.CreditBalance != nil {
		rows = append(rows, renderField("Credits",
			styles.GetAmountStyle(*u.CreditBalance).Render(fmt.Sprintf("%.2f", *u.CreditBalance))))
	}

	profile := styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("User Details"),
		profile,
		m.renderGroupsCard(u.Groups),
		m.renderKeysCard(),
		styles.HelpStyle.Render("esc back · d delete"),
	)
}

func (m *Model) renderGroupsCard(groups []models.Group) string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Groups"))

	if len(groups) == 0 {
		rows = append(rows, styles.HelpStyle.Render("Not a member of any group"))
	}
	for _, g := range groups {
		line := g.Name
		if g.Source != "" && g.Source != "manual" {
			line += "  " + styles.StatusNeutralStyle.Render(g.Source)
		}
		rows = append(rows, line)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderKeysCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("API Keys"))

	if len(m.detailKeys) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No API keys"))
	} else {
		header := fmt.Sprintf("%-24s  %-10s  %-16s  %s",
			"NAME", "PURPOSE", "CREATED", "LAST USED")
		rows = append(rows, styles.TableHeaderStyle.Render(header))

		for _, k := range m.detailKeys {
			lastUsed := "never"
			if k.LastUsed != nil {
				lastUsed = k.LastUsed.Format("2006-01-02 15:04")
			}
			rows = append(rows, fmt.Sprintf("%-24s  %-10s  %-16s  %s",
				truncate(k.Name, 24),
				k.Purpose,
				k.CreatedAt.Format("2006-01-02"),
				lastUsed,
			))
		}
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func renderField(label, value string) string {
	l := lipgloss.NewStyle().Foreground(styles.TextMuted).Width(14).Render(label)
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
