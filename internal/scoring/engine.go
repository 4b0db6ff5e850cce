package scoring

import "sort"

// SubmissionScore computes the score for a single submission. The checkbox
// ratio yields a base in [0,100]; when a reviewer recorded a non-zero manual
// score the result is the simple average of both, which stays in [0,100].
func SubmissionScore(sub Submission, checkboxFields []string) float64 {
	if len(checkboxFields) == 0 {
		return 0
	}
	checked := 0
	for _, field := range checkboxFields {
		if sub.Checks[field] {
			checked++
		}
	}
	base := float64(checked) / float64(len(checkboxFields)) * 100
	if sub.AdminScore != nil && *sub.AdminScore != 0 {
		return (base + *sub.AdminScore) / 2
	}
	return base
}

// ComputeLeaderboard aggregates submissions into ranked employee scores.
// Employees appear only when they have at least one qualifying submission.
// Sorting by average descending is stable: ties keep the order in which the
// employees were first encountered in the input. Ranks are 1-based positions
// after the sort.
func ComputeLeaderboard(submissions []Submission, checkboxFields []string) []EmployeeScore {
	index := make(map[int64]int)
	scores := make([]EmployeeScore, 0)

	for _, sub := range submissions {
		score := SubmissionScore(sub, checkboxFields)
		i, ok := index[sub.EmployeeID]
		if !ok {
			i = len(scores)
			index[sub.EmployeeID] = i
			scores = append(scores, EmployeeScore{EmployeeID: sub.EmployeeID})
		}
		scores[i].TotalScore += score
		scores[i].SubmissionCount++
	}

	for i := range scores {
		scores[i].AverageScore = scores[i].TotalScore / float64(scores[i].SubmissionCount)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].AverageScore > scores[j].AverageScore
	})
	for i := range scores {
		scores[i].Rank = i + 1
	}
	return scores
}
