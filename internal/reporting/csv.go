package reporting

import (
	"fmt"
	"strings"
)

// RenderDecisionsCSV renders applied decisions as CSV string.
func RenderDecisionsCSV(decisions []DecisionRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("keyword_id,action,before_stage,after_stage,reason,actor,created_at\n")

	// Rows
	for _, d := range decisions {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%s,%d\n",
			d.KeywordID,
			d.Action,
			d.BeforeStage,
			d.AfterStage,
			csvEscape(d.Reason),
			d.Actor,
			d.CreatedAt,
		))
	}

	return sb.String()
}

// RenderAlertsCSV renders raised alerts as CSV string.
func RenderAlertsCSV(alerts []AlertRow) string {
	var sb strings.Builder

	sb.WriteString("keyword_id,level,message,created_at\n")

	for _, a := range alerts {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%d\n",
			a.KeywordID,
			a.Level,
			csvEscape(a.Message),
			a.CreatedAt,
		))
	}

	return sb.String()
}

// csvEscape quotes a field containing commas, quotes, or newlines.
func csvEscape(field string) string {
	if !strings.ContainsAny(field, ",\"\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
