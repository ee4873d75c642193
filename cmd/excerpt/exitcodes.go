package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (invalid config file or value)
	ExitInputError  = 3 // Empty text or out-of-range parameters
	ExitConvergence = 4 // Ranking did not converge
	ExitSolver      = 5 // Coverage program infeasible or solver timed out
	ExitCapability  = 6 // Tokenizer or solver unavailable
)
