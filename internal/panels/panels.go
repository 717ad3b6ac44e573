// Package panels renders the manifest incident into per-panel text content.
// Composition happens once at startup; the boards are immutable afterwards
// and the display only ever reads them.
package panels

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"warvr/internal/loader/schema"
	"warvr/internal/logger"
)

// Board is one composed information panel: the slot it occupies on the panel
// ring plus its rendered text lines.
type Board struct {
	Slot  int
	Kind  schema.PanelKind
	Title string
	Lines []string
}

// Compose renders every manifest panel from the incident content. Panels are
// independent, so composition fans out over a worker pool; the result order
// matches the manifest order.
func Compose(inc schema.Incident, defs []schema.Panel, log logger.Logger) ([]Board, error) {
	if log == nil {
		log = logger.Nop()
	}

	boards := make([]Board, len(defs))

	pool, err := ants.NewPool(4)
	if err != nil {
		return nil, fmt.Errorf("panel pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, def := range defs {
		i, def := i, def
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			boards[i] = Board{
				Slot:  i,
				Kind:  def.Kind,
				Title: def.Title,
				Lines: composeOne(def.Kind, inc),
			}
		}); err != nil {
			wg.Done()
			return nil, fmt.Errorf("panel %d (%s): %w", i, def.Kind, err)
		}
	}
	wg.Wait()

	log.Info("panels composed",
		logger.Field{Key: "count", Value: len(boards)},
		logger.Field{Key: "incident", Value: inc.Title},
	)
	return boards, nil
}

func composeOne(kind schema.PanelKind, inc schema.Incident) []string {
	switch kind {
	case schema.PanelAlerts:
		return composeAlerts(inc.Alerts)
	case schema.PanelStatus:
		return composeStatus(inc.Services)
	case schema.PanelMetrics:
		return composeMetrics(inc.Services)
	case schema.PanelTimeline:
		return composeTimeline(inc.Timeline)
	case schema.PanelRunbook:
		return composeRunbook(inc.Runbook)
	}
	return []string{"(empty panel)"}
}

// composeAlerts tags each alert with a short correlation id, the way the
// paging system labels them.
func composeAlerts(alerts []schema.Alert) []string {
	if len(alerts) == 0 {
		return []string{"no active alerts"}
	}
	lines := make([]string, 0, len(alerts))
	for _, a := range alerts {
		id := uuid.New().String()[:8]
		lines = append(lines, fmt.Sprintf("[%s] %-8s %s: %s (%s)",
			id, strings.ToUpper(a.Severity), a.Source, a.Message, fmtAge(a.Age.Std())))
	}
	return lines
}

func composeStatus(services []schema.Service) []string {
	if len(services) == 0 {
		return []string{"no services tracked"}
	}
	lines := make([]string, 0, len(services))
	for _, s := range services {
		marker := "?"
		switch s.Status {
		case "ok":
			marker = "+"
		case "degraded":
			marker = "~"
		case "down":
			marker = "x"
		}
		lines = append(lines, fmt.Sprintf("%s %-16s %-9s %4dms", marker, s.Name, s.Status, s.LatencyMS))
	}
	return lines
}

// composeMetrics draws a latency bar per service, scaled to the slowest one.
func composeMetrics(services []schema.Service) []string {
	if len(services) == 0 {
		return []string{"no metrics"}
	}
	max := 1
	for _, s := range services {
		if s.LatencyMS > max {
			max = s.LatencyMS
		}
	}
	lines := make([]string, 0, len(services))
	for _, s := range services {
		width := s.LatencyMS * 20 / max
		lines = append(lines, fmt.Sprintf("%-16s %-20s %dms", s.Name, strings.Repeat("#", width), s.LatencyMS))
	}
	return lines
}

func composeTimeline(events []schema.TimelineEvent) []string {
	if len(events) == 0 {
		return []string{"timeline empty"}
	}
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		lines = append(lines, fmt.Sprintf("T+%-6s %s", fmtAge(ev.Offset.Std()), ev.Text))
	}
	return lines
}

func composeRunbook(steps schema.StringList) []string {
	if len(steps) == 0 {
		return []string{"no runbook attached"}
	}
	lines := make([]string, 0, len(steps))
	for i, step := range steps {
		lines = append(lines, fmt.Sprintf("%2d. %s", i+1, step))
	}
	return lines
}

func fmtAge(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}
