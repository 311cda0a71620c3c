// Package serviceerr defines the error taxonomy shared by every service.
//
// There are two closed code sets. Code is the service-level vocabulary that
// leaves a service method inside a result.Result; DataCode is what data
// services report about the storage they talk to. FromData translates between
// them at the layer boundary, defaulting every unmapped data code to
// CodeDependencyFailure.
//
// Errors compare by code:
//
//	if errors.Is(err, serviceerr.ErrNotFound) {
//		// 404
//	}
//
// The package knows nothing about HTTP. Transport adapters pick status codes
// from Code.
package serviceerr
