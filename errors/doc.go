// Package errors provides the structured error type shared by the pool,
// client and lifecycle packages.
//
// Every failure carries a machine-readable ErrorCode and a retryable flag.
// Two AppErrors match under errors.Is when their codes are equal, so package
// sentinels such as pool.ErrRegistryClosed can be compared directly against
// wrapped errors.
package errors
