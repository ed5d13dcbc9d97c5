package testutil

// PrintWantGot formats a cmp.Diff result for test failure messages.
func PrintWantGot(diff string) string {
	return "(-want +got):\n" + diff
}
