package prompt

const reviewInstructions = `You are a meticulous senior engineer.
Review the change below before it is committed and point out anything that should block it.

Answer in plain text:
- If you see problems, list each on its own line starting with "- " and keep each finding under 160 characters.
- If the change looks good, answer with "No blocking issues found."

Focus on correctness, security, performance, tests and edge cases. Do not mention formatting unless it hides a bug.

Change:`

// NoIssues is the answer the review instruction asks for when nothing blocks the commit.
const NoIssues = "No blocking issues found."

// Review builds the instruction for a lightweight review of draft.
func Review(draft string) string {
	return compose([]string{reviewInstructions}, draft)
}
