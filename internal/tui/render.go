package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/i474232898/weather-companion/internal/astro"
	"github.com/i474232898/weather-companion/internal/units"
	"github.com/i474232898/weather-companion/internal/weather"
)

const (
	hourlyColumns = 8
	dailyRows     = 7
)

// styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	alertStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	statusStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("11"))
	cellStyle     = lipgloss.NewStyle().Width(10).Align(lipgloss.Center)
)

var conditionIcons = map[weather.Condition]string{
	weather.ConditionClear:   "☀",
	weather.ConditionCloudy:  "☁",
	weather.ConditionRain:    "☂",
	weather.ConditionSnow:    "❄",
	weather.ConditionStorm:   "⚡",
	weather.ConditionMist:    "≋",
	weather.ConditionUnknown: "?",
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Weather"))
	b.WriteString("\n\n")
	b.WriteString(m.renderLocation())

	if s := m.view.Weather; s != nil {
		b.WriteString("\n\n")
		b.WriteString(renderCurrent(s))
		if hourly := renderHourly(s); hourly != "" {
			b.WriteString("\n\n")
			b.WriteString(hourly)
		}
		if daily := m.renderDaily(s); daily != "" {
			b.WriteString("\n\n")
			b.WriteString(daily)
		}
		if alerts := renderAlerts(s); alerts != "" {
			b.WriteString("\n\n")
			b.WriteString(alerts)
		}
	}

	if status := m.statusLine(); status != "" {
		b.WriteString("\n\n")
		b.WriteString(statusStyle.Render(status))
	}
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(m.help()))

	if m.width > 0 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
	}
	return b.String()
}

func (m *Model) renderLocation() string {
	v := m.view
	switch {
	case v.ResultsVisible:
		lines := []string{"Choose a location:"}
		for i, r := range v.Results {
			line := "  " + r.Label
			if i == m.cursor {
				line = selectedStyle.Render("> " + r.Label)
			}
			lines = append(lines, line)
		}
		return strings.Join(lines, "\n")
	case v.SearchVisible:
		return "Location: " + m.input + "█"
	case v.LocationVisible:
		return labelStyle.Render(v.Location)
	default:
		return dimStyle.Render("…")
	}
}

func renderCurrent(s *weather.Snapshot) string {
	c := s.Current
	u := s.Units
	loc := s.Location()

	lines := []string{
		fmt.Sprintf("%s  %s, feels like %s",
			conditionIcons[c.Condition()], u.Format(c.Temp, units.Temperature), u.Format(c.FeelsLike, units.Temperature)),
		fmt.Sprintf("%s  wind %s", describe(c.Status), u.Format(c.WindSpeed, units.Speed)),
		fmt.Sprintf("humidity %d%%  pressure %d hPa  uv %.1f", c.Humidity, c.Pressure, c.UVI),
	}
	if c.WindGust > 0 {
		lines[1] += fmt.Sprintf(" (gusts %s)", u.Format(c.WindGust, units.Speed))
	}
	if c.Rain.LastHour > 0 {
		lines = append(lines, "rain "+u.Format(c.Rain.LastHour, units.Volume)+" in the last hour")
	}
	if c.Snow.LastHour > 0 {
		lines = append(lines, "snow "+u.Format(c.Snow.LastHour, units.Volume)+" in the last hour")
	}
	if len(s.Minutely) > 0 {
		if total := s.PrecipitationWithin(time.Hour); total > 0 {
			lines = append(lines, "precipitation expected within the hour")
		} else {
			lines = append(lines, "no precipitation expected within the hour")
		}
	}
	lines = append(lines, dimStyle.Render("updated "+c.Time().In(loc).Format("15:04")))
	return strings.Join(lines, "\n")
}

func renderHourly(s *weather.Snapshot) string {
	if len(s.Hourly) == 0 {
		return ""
	}
	loc := s.Location()

	var cells []string
	for i, h := range s.Hourly {
		if i == hourlyColumns {
			break
		}
		cells = append(cells, cellStyle.Render(fmt.Sprintf("%s\n%s\n%s",
			h.Time().In(loc).Format("15:04"),
			conditionIcons[h.Condition()],
			s.Units.Format(h.Temp, units.Temperature))))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m *Model) renderDaily(s *weather.Snapshot) string {
	if len(s.Daily) == 0 {
		return ""
	}
	loc := s.Location()

	var lines []string
	for i, d := range s.Daily {
		if i == dailyRows {
			break
		}
		lines = append(lines, fmt.Sprintf("%-9s %s  %s / %s  %s",
			d.DayOfWeek(loc),
			conditionIcons[d.Condition()],
			s.Units.Format(d.Temp.Max, units.Temperature),
			s.Units.Format(d.Temp.Min, units.Temperature),
			daylight(d, s, loc)))
	}
	return strings.Join(lines, "\n")
}

// daylight prints the reported sunrise and sunset, or an estimate marked
// with "~" when the provider left them out.
func daylight(d weather.Daily, s *weather.Snapshot, loc *time.Location) string {
	rise, okRise := d.SunriseTime()
	set, okSet := d.SunsetTime()
	if okRise && okSet {
		return fmt.Sprintf("↑%s ↓%s", rise.In(loc).Format("15:04"), set.In(loc).Format("15:04"))
	}

	rise, set, ok := astro.Daylight(d.Time().In(loc), s.Latitude, s.Longitude)
	if !ok {
		return ""
	}
	return fmt.Sprintf("↑~%s ↓~%s", rise.In(loc).Format("15:04"), set.In(loc).Format("15:04"))
}

func renderAlerts(s *weather.Snapshot) string {
	if len(s.Alerts) == 0 {
		return ""
	}
	loc := s.Location()

	var lines []string
	for _, a := range s.Alerts {
		lines = append(lines, alertStyle.Render("⚠ "+a.Event)+"  "+a.When(loc))
		if a.SenderName != "" {
			lines = append(lines, dimStyle.Render("  "+a.SenderName))
		}
	}
	return strings.Join(lines, "\n")
}

func describe(items []weather.Status) string {
	if len(items) == 0 {
		return ""
	}
	return items[0].Description
}

func (m *Model) statusLine() string {
	if m.notice != "" {
		return m.notice
	}
	return m.view.Status
}

func (m *Model) help() string {
	switch {
	case m.view.ResultsVisible:
		return "[↑/↓] move  [enter] select  [esc] cancel  [/] new search  [q] quit"
	case m.view.SearchVisible:
		return "[enter] search  [esc] cancel  [ctrl+c] quit"
	default:
		return "[/] search  [e] edit location  [r] refresh  [u] units  [q] quit"
	}
}
