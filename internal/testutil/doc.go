// Package testutil contains helper utilities used across tests to reduce
// boilerplate when capturing and asserting the logging side effects of
// machines, models and dispatchers. These helpers are intentionally minimal
// and avoid adding third-party dependencies. They are not intended for
// production usage.
package testutil
