package core

// ResetMillis forgets the process-wide clock and its driver between tests.
func ResetMillis() {
	systemMillis = MillisClock{}
}
