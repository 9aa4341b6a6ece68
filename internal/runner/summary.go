package runner

import "github.com/hubenschmidt/pceh/internal/types"

// calculateSummary is a direct port of calculate_summary, including the
// per-difficulty breakdown supplement.
func calculateSummary(metrics []types.CodeBenchmarkMetrics) types.CodeBenchmarkSummary {
	problemsTotal := len(metrics)
	problemsSolved := 0
	for _, m := range metrics {
		if m.TestsPassed == m.TestsTotal {
			problemsSolved++
		}
	}

	var passRate float64
	if problemsTotal > 0 {
		passRate = float64(problemsSolved) / float64(problemsTotal)
	}

	var avgTPS, avgExecutionTimeMs float64
	if len(metrics) > 0 {
		var sumTPS, sumExec float64
		for _, m := range metrics {
			sumTPS += m.TokensPerSec
			sumExec += m.ExecutionTimeMs
		}
		avgTPS = sumTPS / float64(len(metrics))
		avgExecutionTimeMs = sumExec / float64(len(metrics))
	}

	easySolved, easyTotal := countByDifficulty(metrics, types.Easy)
	mediumSolved, mediumTotal := countByDifficulty(metrics, types.Medium)
	hardSolved, hardTotal := countByDifficulty(metrics, types.Hard)

	return types.CodeBenchmarkSummary{
		PassRate:           passRate,
		ProblemsSolved:     problemsSolved,
		ProblemsTotal:      problemsTotal,
		AvgTPS:             avgTPS,
		AvgExecutionTimeMs: avgExecutionTimeMs,
		EasySolved:         easySolved,
		EasyTotal:          easyTotal,
		MediumSolved:       mediumSolved,
		MediumTotal:        mediumTotal,
		HardSolved:         hardSolved,
		HardTotal:          hardTotal,
	}
}

func countByDifficulty(metrics []types.CodeBenchmarkMetrics, diff types.Difficulty) (solved, total int) {
	for _, m := range metrics {
		if m.Difficulty != diff {
			continue
		}
		total++
		if m.TestsPassed == m.TestsTotal {
			solved++
		}
	}
	return solved, total
}
