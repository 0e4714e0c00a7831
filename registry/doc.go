// Package registry houses concrete implementations of core.Registry. The
// interface itself lives in the core package to centralize domain contracts;
// keeping only implementations here prevents higher level packages (models,
// dispatch) from depending on concrete storage.
//
// Add additional backends behind core.Registry in sub-packages without
// changing any calling code - only the wiring layer needs to decide which
// implementation to instantiate.
package registry
