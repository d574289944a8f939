// Package shelltest provides a contract test suite for sshshell.Shell providers.
//
// The contracts only rely on "echo" and "exit", so they hold for a real POSIX login shell as
// well as for scripted test servers.
package shelltest

// AllContracts returns all test cases for the contract test suite.
func AllContracts() []TestCase {
	contracts := make([]TestCase, 0, 8)

	contracts = append(contracts, lifecycleContracts()...)
	contracts = append(contracts, outputContracts()...)

	return contracts
}
