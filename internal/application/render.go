package application

import (
	"fmt"

	"github.com/davarch/ci-status/internal/domain"
)

// Line is one rendered row plus the stable ref the Resolver prefers over
// re-parsing the text.
type Line struct {
	Text string
	Ref  domain.EntryRef
}

// Render produces the per-branch display: a heading per workflow, then
// one line per job in execution order. Job line shapes are exactly what
// ResolveLine accepts.
func Render(workflows []domain.Workflow) []Line {
	var out []Line
	for _, w := range workflows {
		out = append(out, Line{
			Text: fmt.Sprintf("%s [%s] pipeline #%d", w.WorkflowName, w.Status, w.PipelineNumber),
			Ref:  domain.EntryRef{WorkflowID: w.WorkflowID},
		})
		for _, j := range w.Jobs {
			out = append(out, Line{
				Text: "  " + jobLine(w, j),
				Ref:  domain.EntryRef{WorkflowID: w.WorkflowID, JobName: j.Name},
			})
		}
	}
	return out
}

func jobLine(w domain.Workflow, j domain.Job) string {
	switch {
	case j.AwaitsApproval():
		return w.WorkflowName + " - Wait for approve"
	case j.Executed():
		return fmt.Sprintf("%d - %s", j.JobNumber, j.Name)
	default:
		// Neither optional set yet: the status stands in for the number.
		return fmt.Sprintf("%s - %s", j.Status, j.Name)
	}
}
