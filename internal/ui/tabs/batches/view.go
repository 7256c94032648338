package batches

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/inference-gw/admin-tui/internal/models"
	"github.com/inference-gw/admin-tui/internal/ui/components"
	"github.com/inference-gw/admin-tui/internal/ui/styles"
)

// View renders the batches tab.
func (m *Model) View() string {
	if m.loading && !m.loaded {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	switch m.mode {
	case modeRecords:
		return styles.DocStyle.Width(m.width).Render(m.renderRecords())
	case modeFiles:
		return styles.DocStyle.Width(m.width).Render(m.renderFiles())
	default:
		return styles.DocStyle.Width(m.width).Render(m.renderBatches())
	}
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

func (m *Model) renderBatches() string {
	var rows []string

	if len(m.batches.Data) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No batch jobs"))
	} else {
		for i, b := range m.batches.Data {
			rows = append(rows, m.renderBatchRow(b, i == m.batchSel))
		}
	}

	card := styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)

	footer := "enter open output · c cancel · f files"
	if m.batches.HasMore {
		footer += " · → more"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Batch Jobs"),
		card,
		styles.HelpStyle.Render(footer),
	)
}

func (m *Model) renderBatchRow(b models.Batch, selected bool) string {
	badge := styles.GetBatchStatusStyle(string(b.Status)).Render(fmt.Sprintf("%-11s", b.Status))

	created := time.Unix(b.CreatedAt, 0).Format("01-02 15:04")

	head := fmt.Sprintf("%-16s  %s  %-28s  %s",
		shortID(b.ID),
		badge,
		truncate(b.Endpoint, 28),
		created,
	)

	marker := "  "
	if selected {
		marker = styles.SelectedListItemStyle.String()
		head = styles.TableSelectedStyle.Render(head)
	}

	lines := []string{marker + head}

	// A progress bar only while the server is still working through it.
	if !b.Status.IsTerminal() {
		counts := b.RequestCounts
		bar := m.bar.ViewCounts(counts.Completed, counts.Failed, counts.Total, 40)
		lines = append(lines, "    "+bar)
	} else if b.RequestCounts.Failed > 0 {
		lines = append(lines, "    "+styles.ErrorTextStyle.Render(
			fmt.Sprintf("%d of %d requests failed", b.RequestCounts.Failed, b.RequestCounts.Total)))
	}

	if selected && b.Errors != nil && len(b.Errors.Data) > 0 {
		for _, e := range b.Errors.Data {
			msg := e.Message
			if e.Line != nil {
				msg = fmt.Sprintf("line %d: %s", *e.Line, msg)
			}
			lines = append(lines, "    "+styles.ErrorTextStyle.Render(truncate(msg, m.cardWidth()-8)))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderFiles() string {
	var rows []string

	if len(m.files.Data) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No files stored"))
	} else {
		header := fmt.Sprintf("  %-30s  %-14s  %10s  %s",
			"FILENAME", "PURPOSE", "SIZE", "CREATED")
		rows = append(rows, styles.TableHeaderStyle.Render(header))

		for i, f := range m.files.Data {
			line := fmt.Sprintf("%-30s  %-14s  %10s  %s",
				truncate(f.Filename, 30),
				f.Purpose,
				formatBytes(f.Bytes),
				time.Unix(f.CreatedAt, 0).Format("01-02 15:04"),
			)
			if i == m.fileSel {
				rows = append(rows, styles.SelectedListItemStyle.String()+styles.TableSelectedStyle.Render(line))
			} else {
				rows = append(rows, "  "+line)
			}
		}
	}

	card := styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)

	title := styles.TitleStyle.Render("Files")
	if p := purposeFilters[m.purposeIdx]; p != "" {
		title += "  " + styles.InfoTextStyle.Render(p)
	}

	footer := "enter view · o purpose · d delete · esc batches"
	if m.files.HasMore {
		footer += " · → more"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		card,
		styles.HelpStyle.Render(footer),
	)
}

func (m *Model) renderRecords() string {
	var rows []string

	for i, r := range m.records {
		rows = append(rows, styles.CardTitleStyle.Render(fmt.Sprintf("#%d  %s", i+1, r.CustomID)))

		if r.Method != "" {
			rows = append(rows, styles.HelpStyle.Render(r.Method+" "+r.URL))
		}
		if len(r.Body) > 0 {
			rows = append(rows, prettyJSON(r.Body))
		}
		if r.Response != nil {
			codeStyle := styles.SuccessTextStyle
			if r.Response.StatusCode >= 400 {
				codeStyle = styles.ErrorTextStyle
			}
			rows = append(rows, codeStyle.Render(fmt.Sprintf("response %d", r.Response.StatusCode)))
			if len(r.Response.Body) > 0 {
				rows = append(rows, prettyJSON(r.Response.Body))
			}
		}
		if r.Error != nil {
			rows = append(rows, styles.ErrorTextStyle.Render(r.Error.Message))
		}
		rows = append(rows, "")
	}

	if len(rows) == 0 {
		rows = append(rows, styles.HelpStyle.Render("Empty file"))
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, rows...))

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render(fmt.Sprintf("File %s  (%d records)", shortID(m.recordsFile), len(m.records))),
		m.viewport.View(),
		styles.HelpStyle.Render("↑/↓ scroll · esc back"),
	)
}

func prettyJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
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
