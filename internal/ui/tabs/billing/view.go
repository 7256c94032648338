package billing

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/inference-gw/admin-tui/internal/models"
	"github.com/inference-gw/admin-tui/internal/ui/components"
	"github.com/inference-gw/admin-tui/internal/ui/styles"
)

// View renders the billing tab.
func (m *Model) View() string {
	if m.loading && !m.loaded {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	if m.mode == modePicker {
		return styles.DocStyle.Width(m.width).Render(m.renderPicker())
	}
	return styles.DocStyle.Width(m.width).Render(m.renderLedger())
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

func (m *Model) renderPicker() string {
	var rows []string

	if len(m.users.Data) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No users"))
	} else {
		header := fmt.Sprintf("  %-20s  %-28s  %12s",
			"USERNAME", "EMAIL", "CREDITS")
		rows = append(rows, styles.TableHeaderStyle.Render(header))

		for i, u := range m.users.Data {
			balance := "---"
			if u.CreditBalance != nil {
				balance = styles.GetAmountStyle(*u.CreditBalance).
					Render(fmt.Sprintf("%12.2f", *u.CreditBalance))
			} else {
				balance = fmt.Sprintf("%12s", balance)
			}

			line := fmt.Sprintf("%-20s  %-28s  %s",
				truncate(u.Username, 20),
				truncate(u.Email, 28),
				balance,
			)
			if i == m.userSel {
				rows = append(rows, styles.SelectedListItemStyle.String()+line)
			} else {
				rows = append(rows, "  "+line)
			}
		}
	}

	card := styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)

	current := m.userSkip/pageSize + 1
	totalPages := max(m.users.TotalPages(), 1)

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Billing"),
		styles.HelpStyle.Render("Pick a user to open their credit ledger"),
		card,
		styles.HelpStyle.Render(fmt.Sprintf("page %d/%d · enter open ledger · c checkout", current, totalPages)),
	)
}

func (m *Model) renderLedger() string {
	sections := []string{
		styles.TitleStyle.Render("Credit Ledger"),
		m.renderBalanceCard(),
		m.renderTransactionsCard(),
	}

	if m.mode == modeAmount {
		prompt := "Grant credits"
		if m.removing {
			prompt = "Remove credits"
		}
		sections = append(sections, styles.FocusedBorderStyle.Render(
			styles.FocusedStyle.Render(prompt)+"  "+m.amount.View(),
		))
	} else {
		sections = append(sections, styles.HelpStyle.Render(
			"a grant · x remove · c checkout · esc back"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderBalanceCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render(m.ledgerUser.Username))
	rows = append(rows, styles.HelpStyle.Render(m.ledgerUser.Email))

	if m.balance != nil {
		amount := styles.GetAmountStyle(m.balance.CurrentBalance).Bold(true).
			Render(fmt.Sprintf("%.2f credits", m.balance.CurrentBalance))
		rows = append(rows, "")
		rows = append(rows, amount)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderTransactionsCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Transactions"))

	if len(m.transactions.Data) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No transactions"))
	} else {
		header := fmt.Sprintf("%-16s  %-14s  %12s  %12s  %s",
			"DATE", "TYPE", "AMOUNT", "BALANCE", "DESCRIPTION")
		rows = append(rows, styles.TableHeaderStyle.Render(header))

		for _, tx := range m.transactions.Data {
			amount := styles.GetAmountStyle(tx.Amount).
				Render(fmt.Sprintf("%+12.2f", tx.Amount))

			rows = append(rows, fmt.Sprintf("%-16s  %-14s  %s  %12.2f  %s",
				tx.CreatedAt.Format("01-02 15:04:05"),
				renderTxType(tx.Type),
				amount,
				tx.BalanceAfter,
				truncate(tx.Description, 30),
			))
		}

		current := m.txSkip/pageSize + 1
		totalPages := (m.transactions.TotalCount + pageSize - 1) / pageSize
		totalPages = max(totalPages, 1)
		rows = append(rows, "")
		rows = append(rows, styles.HelpStyle.Render(
			fmt.Sprintf("page %d/%d · %d transactions", current, totalPages, m.transactions.TotalCount)))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func renderTxType(t models.TransactionType) string {
	switch t {
	case models.TxAdminGrant:
		return "grant"
	case models.TxAdminRemoval:
		return "removal"
	case models.TxPurchase:
		return "purchase"
	case models.TxUsage:
		return "usage"
	default:
		return string(t)
	}
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
