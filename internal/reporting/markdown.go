package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# Keyword Lifecycle Report: %s\n\n", r.BrandID))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Portfolio Summary
	sb.WriteString("## Portfolio Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Keywords | %d |\n", r.Summary.TotalKeywords))
	sb.WriteString(fmt.Sprintf("| Paused Keywords | %d |\n", r.Summary.PausedKeywords))
	sb.WriteString(fmt.Sprintf("| Promotions | %d |\n", r.Summary.Promotions))
	sb.WriteString(fmt.Sprintf("| Negations | %d |\n", r.Summary.Negations))
	sb.WriteString(fmt.Sprintf("| Pauses | %d |\n", r.Summary.Pauses))
	sb.WriteString(fmt.Sprintf("| Alerts Raised | %d |\n", r.Summary.AlertsRaised))
	sb.WriteString("\n")

	// Stage Breakdown
	sb.WriteString("## Stage Breakdown\n\n")
	if len(r.Stages) > 0 {
		sb.WriteString("| Stage | Keywords |\n")
		sb.WriteString("|-------|----------|\n")
		for _, s := range r.Stages {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", s.Stage, s.Count))
		}
	} else {
		sb.WriteString("No keywords tracked.\n")
	}
	sb.WriteString("\n")

	// Decisions
	sb.WriteString("## Applied Decisions\n\n")
	if len(r.Decisions) > 0 {
		sb.WriteString("| Keyword | Action | Before | After | Reason | Actor |\n")
		sb.WriteString("|---------|--------|--------|-------|--------|-------|\n")
		for _, d := range r.Decisions {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
				d.KeywordID, d.Action, d.BeforeStage, d.AfterStage, d.Reason, d.Actor))
		}
	} else {
		sb.WriteString("No decisions applied.\n")
	}
	sb.WriteString("\n")

	// RAG Distribution
	sb.WriteString("## RAG Distribution\n\n")
	sb.WriteString("| Status | Keywords |\n")
	sb.WriteString("|--------|----------|\n")
	sb.WriteString(fmt.Sprintf("| RED | %d |\n", r.RAG.Red))
	sb.WriteString(fmt.Sprintf("| AMBER | %d |\n", r.RAG.Amber))
	sb.WriteString(fmt.Sprintf("| GREEN | %d |\n", r.RAG.Green))
	sb.WriteString("\n")

	if len(r.RAG.Attention) > 0 {
		sb.WriteString("### Keywords Needing Attention\n\n")
		sb.WriteString("| Keyword | Text | Status | Drivers | Opportunity |\n")
		sb.WriteString("|---------|------|--------|---------|-------------|\n")
		for _, a := range r.RAG.Attention {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %.2f |\n",
				a.KeywordID, a.KeywordText, a.Status, strings.Join(a.Drivers, "; "), a.OpportunityScore))
		}
		sb.WriteString("\n")
	}

	// Alerts
	sb.WriteString("## Alerts\n\n")
	if len(r.Alerts) > 0 {
		sb.WriteString("| Keyword | Level | Message |\n")
		sb.WriteString("|---------|-------|--------|\n")
		for _, a := range r.Alerts {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", a.KeywordID, a.Level, a.Message))
		}
	} else {
		sb.WriteString("No alerts raised.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
