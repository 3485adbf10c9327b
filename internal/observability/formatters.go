// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/freight-agent/internal/resolve"
	"github.com/jonathan/freight-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintShipment outputs a human-readable summary of the parsed shipment.
func (p *Printer) PrintShipment(req *types.ShipmentRequest) {
	if req == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("From:      %s\n", req.FromCityName))
	sb.WriteString(fmt.Sprintf("To:        %s\n", req.ToCityName))
	sb.WriteString(fmt.Sprintf("Material:  %s\n", req.MaterialName))

	if req.Quantity > 0 {
		sb.WriteString(fmt.Sprintf("Quantity:  %g %s\n", req.Quantity, req.QuantityUnit))
	}
	if req.Cost > 0 {
		sb.WriteString(fmt.Sprintf("Cost:      %g\n", req.Cost))
	}
	if req.PartLoad {
		sb.WriteString("Load:      part load\n")
	}
	if req.Description != "" {
		desc := req.Description
		if len(desc) > 45 {
			desc = desc[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("Notes:     %s\n", desc))
	}

	p.printBox("PARSED SHIPMENT REQUEST", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResolution outputs the outcome of resolving one name, including the
// scored candidate list when confirmation is needed.
func (p *Printer) PrintResolution(label, query string, res *resolve.Resolution) {
	if res == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Query:   %q\n", query))

	switch res.Kind {
	case resolve.Exact:
		sb.WriteString(fmt.Sprintf("Match:   %s\n", res.Ref.Display()))
		sb.WriteString(fmt.Sprintf("ID:      %s", res.Ref.ID))

	case resolve.Ambiguous:
		sb.WriteString("Match:   needs confirmation\n\n")
		count := min(len(res.Candidates), maxItemsToShow)
		for i := 0; i < count; i++ {
			c := res.Candidates[i]
			sb.WriteString(fmt.Sprintf("  %d. %s (%.2f)\n", i+1, c.Display(), c.Score))
		}
		if len(res.Candidates) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(res.Candidates)-maxItemsToShow))
		}

	default:
		sb.WriteString("Match:   none")
	}

	p.printBox(strings.ToUpper(label)+" RESOLUTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidates outputs the partner candidates offered for selection.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintCandidates(candidates []types.PartnerCandidate) {
	if len(candidates) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO PARTNER CANDIDATES")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d candidates:\n\n", len(candidates)))

	count := min(len(candidates), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := candidates[i]
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, c.Name))
		if c.City != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", c.City))
		}
		sb.WriteString("\n")
		if c.CompanyName != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", c.CompanyName))
		}
	}
	if len(candidates) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(candidates)-maxItemsToShow))
	}

	p.printBox("PARTNER CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWorkflowResult outputs the step log of one workflow run with
// per-step status indicators.
func (p *Printer) PrintWorkflowResult(result *types.WorkflowResult) {
	if result == nil || len(result.Steps) == 0 {
		return
	}

	var sb strings.Builder
	for _, step := range result.Steps {
		mark := "✓"
		if !step.Success {
			mark = "⚠"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", mark, step.Name))
		if step.Detail != "" {
			detail := step.Detail
			if len(detail) > 50 {
				detail = detail[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("  %s\n", detail))
		}
	}

	if result.TripID != "" {
		sb.WriteString(fmt.Sprintf("\nTrip:    %s\n", result.TripID))
	}
	if result.ParcelID != "" {
		sb.WriteString(fmt.Sprintf("Parcel:  %s\n", result.ParcelID))
	}

	title := "WORKFLOW COMPLETE"
	if result.Failed {
		title = "WORKFLOW STOPPED"
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}
