package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
)

// branchTimestamp is the YYYYMMDD-HHMM layout that makes branch names unique
// per attempt.
const branchTimestamp = "20060102-1504"

// BranchName returns the publish branch name for a dataset at the given
// time: add/<id>-<YYYYMMDD-HHMM> (UTC).
func BranchName(datasetID string, t time.Time) string {
	return fmt.Sprintf("add/%s-%s", datasetID, t.UTC().Format(branchTimestamp))
}

// StashLabel returns the label for the pre-publish stash of a dataset.
func StashLabel(datasetID string) string {
	return "publish-" + datasetID
}

// CommitMessage returns the conventional-commit message for adding a record.
func CommitMessage(record model.DatasetRecord) string {
	return fmt.Sprintf("feat(dataset): add %s — %s", record.ID, record.Name)
}

// PRTitle returns the pull request title for adding a record.
func PRTitle(record model.DatasetRecord) string {
	return fmt.Sprintf("Add dataset: %s (%s)", record.Name, record.ID)
}

// PRBody renders the pull request body: a markdown table of the record's
// top-level fields followed by the fixed review checklist.
func PRBody(record model.DatasetRecord) string {
	var b strings.Builder

	b.WriteString("## Dataset\n\n")
	b.WriteString("| Field | Value |\n")
	b.WriteString("| --- | --- |\n")
	for _, f := range record.Fields() {
		fmt.Fprintf(&b, "| `%s` | %s |\n", f.Key, escapeCell(f.Value))
	}

	b.WriteString("\n## Checklist\n\n")
	b.WriteString("- [ ] Metadata follows the catalog schema\n")
	b.WriteString("- [ ] License is specified and redistributable\n")
	b.WriteString("- [ ] Source URL is reachable\n")
	b.WriteString("- [ ] No credentials or personal data in the record\n")

	return b.String()
}

// escapeCell keeps arbitrary field values from breaking the table layout.
func escapeCell(v string) string {
	v = strings.ReplaceAll(v, "|", `\|`)
	v = strings.ReplaceAll(v, "\n", " ")
	return v
}
