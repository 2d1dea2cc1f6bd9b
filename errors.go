package goAuthClient

import "errors"

var (
	// ErrUnauthorized is an exported constant or variable used by the client pipeline.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRenewalFailed is an exported constant or variable used by the client pipeline.
	ErrRenewalFailed = errors.New("credential renewal failed")
	// ErrNoRefreshCredential is an exported constant or variable used by the client pipeline.
	ErrNoRefreshCredential = errors.New("no refresh credential available")
	// ErrPipelineNotReady is an exported constant or variable used by the client pipeline.
	ErrPipelineNotReady = errors.New("pipeline not initialized")
	// ErrNilRequest is an exported constant or variable used by the client pipeline.
	ErrNilRequest = errors.New("nil request")
)
