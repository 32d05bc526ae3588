package driver

// Statistics counts the work done since construction or the last call
// to ResetMethodStatistics. All counters are monotone between resets.
type Statistics struct {
	StepsAttempted          int64
	StepsTaken              int64
	ErrorTestFailures       int64
	ConvergenceTestFailures int64

	// Iterative formulas classify their internal iterations by whether
	// they led to convergence. Non-iterative formulas count one
	// convergent iteration per converged attempt.
	ConvergentIterations int64
	DivergentIterations  int64
}

func (s *Statistics) reset() {
	*s = Statistics{}
}

func (s *Statistics) recordAttempt(converged bool, iterations int64) {
	s.StepsAttempted++
	if converged {
		s.ConvergentIterations += iterations
	} else {
		s.DivergentIterations += iterations
	}
}
